package main

import "testing"

func TestResampleLinearIdentity(t *testing.T) {
	src := []int16{1, 2, 3}
	got := resampleLinear(src, 8000, 8000)
	if len(got) != len(src) {
		t.Fatalf("identity resample changed length: %d", len(got))
	}
	for i := range src {
		if got[i] != src[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], src[i])
		}
	}
}

func TestResampleLinearUpsamples(t *testing.T) {
	src := []int16{0, 1000}
	got := resampleLinear(src, 8000, 44100)
	if want := len(src) * 44100 / 8000; len(got) != want {
		t.Fatalf("resampled to %d samples, want %d", len(got), want)
	}
	if got[0] != 0 {
		t.Errorf("first sample = %d, want 0", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("interpolation not monotonic at %d: %d < %d", i, got[i], got[i-1])
		}
	}
}

func TestResampleLinearEmpty(t *testing.T) {
	if got := resampleLinear(nil, 8000, 44100); len(got) != 0 {
		t.Errorf("empty input resampled to %d samples", len(got))
	}
}
