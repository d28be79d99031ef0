package main

import "testing"

func TestGlyphIndex(t *testing.T) {
	cases := []struct {
		in   byte
		want uint32
		ok   bool
	}{
		{'A', 0, true},
		{'Z', 25, true},
		{'0', 26, true},
		{'9', 35, true},
		{'.', 36, true},
		{'-', 37, true},
		{':', 38, true},
		{'?', 39, true},
		{' ', 0, false},
		{'a', 0, false}, // input is upper-cased before lookup
		{0xFF, 0, false},
	}
	for _, tt := range cases {
		got, ok := glyphIndex(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("glyphIndex(%q) = %d,%t, want %d,%t", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
