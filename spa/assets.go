package spa

// Asset identifies one kind of extractable game asset.
type Asset int

const (
	AssetNone Asset = iota
	AssetArtLandscape
	AssetAnimation
	AssetSerfShadow
	AssetDottedLines
	AssetArtFlag
	AssetArtBox
	AssetCreditsBg
	AssetLogo
	AssetSymbol
	AssetMapMaskUp
	AssetMapMaskDown
	AssetPathMask
	AssetMapGround
	AssetPathGround
	AssetGameObject
	AssetFrameTop
	AssetMapBorder
	AssetMapWaves
	AssetFramePopup
	AssetIndicator
	AssetFont
	AssetFontShadow
	AssetIcon
	AssetMapObject
	AssetMapShadow
	AssetPanelButton
	AssetFrameBottom
	AssetSerfTorso
	AssetSerfHead
	AssetFrameSplit
	AssetSound
	AssetMusic
	AssetCursor
	assetCount
)

// SpriteType selects the payload encoding of a sprite record.
type SpriteType int

const (
	SpriteTypeUnknown SpriteType = iota
	SpriteTypeSolid
	SpriteTypeTransparent
	SpriteTypeOverlay
	SpriteTypeMask
)

type resource struct {
	name    string
	count   int
	index   uint32 // base record id
	palette uint32 // palette record id, 0 for non-sprite kinds
	kind    SpriteType
}

// resources maps each asset kind to its place in the data file. The
// record and palette ids come straight from the original game's
// layout and are not negotiable.
var resources = [assetCount]resource{
	AssetNone:         {"none", 0, 0, 0, SpriteTypeUnknown},
	AssetArtLandscape: {"art_landscape", 1, 1, 3997, SpriteTypeSolid},
	AssetAnimation:    {"animation", 200, 2, 0, SpriteTypeUnknown},
	AssetSerfShadow:   {"serf_shadow", 1, 4, 3, SpriteTypeOverlay},
	AssetDottedLines:  {"dotted_lines", 7, 5, 3, SpriteTypeSolid},
	AssetArtFlag:      {"art_flag", 7, 15, 3997, SpriteTypeSolid},
	AssetArtBox:       {"art_box", 14, 25, 3, SpriteTypeSolid},
	AssetCreditsBg:    {"credits_bg", 1, 40, 3998, SpriteTypeSolid},
	AssetLogo:         {"logo", 1, 41, 3998, SpriteTypeSolid},
	AssetSymbol:       {"symbol", 16, 42, 3, SpriteTypeSolid},
	AssetMapMaskUp:    {"map_mask_up", 81, 60, 3, SpriteTypeMask},
	AssetMapMaskDown:  {"map_mask_down", 81, 141, 3, SpriteTypeMask},
	AssetPathMask:     {"path_mask", 26, 230, 3, SpriteTypeMask},
	AssetMapGround:    {"map_ground", 33, 260, 3, SpriteTypeSolid},
	AssetPathGround:   {"path_ground", 10, 300, 3, SpriteTypeSolid},
	AssetGameObject:   {"game_object", 279, 321, 3, SpriteTypeTransparent},
	AssetFrameTop:     {"frame_top", 4, 600, 3, SpriteTypeSolid},
	AssetMapBorder:    {"map_border", 10, 610, 3, SpriteTypeTransparent},
	AssetMapWaves:     {"map_waves", 16, 630, 3, SpriteTypeTransparent},
	AssetFramePopup:   {"frame_popup", 4, 660, 3, SpriteTypeSolid},
	AssetIndicator:    {"indicator", 8, 670, 3, SpriteTypeSolid},
	AssetFont:         {"font", 44, 750, 3, SpriteTypeTransparent},
	AssetFontShadow:   {"font_shadow", 44, 810, 3, SpriteTypeTransparent},
	AssetIcon:         {"icon", 318, 870, 3, SpriteTypeSolid},
	AssetMapObject:    {"map_object", 194, 1250, 3, SpriteTypeTransparent},
	AssetMapShadow:    {"map_shadow", 194, 1500, 3, SpriteTypeOverlay},
	AssetPanelButton:  {"panel_button", 25, 1750, 3, SpriteTypeSolid},
	AssetFrameBottom:  {"frame_bottom", 26, 1780, 3, SpriteTypeSolid},
	AssetSerfTorso:    {"serf_torso", 541, 2500, 3, SpriteTypeTransparent},
	AssetSerfHead:     {"serf_head", 630, 3150, 3, SpriteTypeTransparent},
	AssetFrameSplit:   {"frame_split", 3, 3880, 3, SpriteTypeSolid},
	AssetSound:        {"sound", 90, sfxBase, 0, SpriteTypeUnknown},
	AssetMusic:        {"music", 7, musicBase, 0, SpriteTypeUnknown},
	AssetCursor:       {"cursor", 1, 3999, 3, SpriteTypeTransparent},
}

// Assets lists every asset kind in extraction order.
func Assets() []Asset {
	out := make([]Asset, 0, assetCount-1)
	for res := AssetArtLandscape; res < assetCount; res++ {
		out = append(out, res)
	}
	return out
}

func (res Asset) valid() bool { return res > AssetNone && res < assetCount }

// Name returns the identifier used for this kind in file names and logs.
func (res Asset) Name() string {
	if !res.valid() {
		return "invalid"
	}
	return resources[res].name
}

// Count returns how many assets of this kind the data file provides.
func (res Asset) Count() int {
	if !res.valid() {
		return 0
	}
	return resources[res].count
}

// Type returns the sprite encoding used by this kind, or
// SpriteTypeUnknown for kinds that are not sprites.
func (res Asset) Type() SpriteType {
	if !res.valid() {
		return SpriteTypeUnknown
	}
	return resources[res].kind
}
