/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package lvgl

import (
	"encoding/binary"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// HeadTable is the fixed size header of an LVGL binary font.
type HeadTable struct {
	Size    uint32  //4	Record size (for quick skip)
	Label   [4]byte //4	head (table marker)
	Version uint32  //4	Version (reserved)
	Tables  uint16  //2	Number of additional tables (2 bytes to simplify align)

	//字体排版度量（来自 OpenType）
	FontSize    uint16 //2	Font size (px), as defined in convertor params
	Ascent      uint16 //2	Ascent, max of glyph bbox tops
	Descent     int16  //2	Descent (negative), min of glyph bbox bottoms
	TypoAscent  uint16 //2	typoAscent (uint16), typographic ascent
	TypoDescent int16  //2	typoDescent (int16), typographic descent
	TypoLineGap uint16 //2	typoLineGap (uint16), typographic line gap
	MinY        int16  //2	min Y (used to quick check line intersections with other objects)
	MaxY        int16  //2	max Y

	DefAdvanceWidth uint16 //2	default advanceWidth (uint16), if glyph advanceWidth bits length = 0
	KerningScale    uint16 //2	kerningScale, FP12.4 unsigned, scale for kerning data, to fit source in 1 byte

	//glyph ID / loca 格式
	IndexToLocFormat byte //1	indexToLocFormat in loca table (0 - Offset16, 1 - Offset32)
	GlyphIdFormat    byte //1	glyphIdFormat (0 - 1 byte, 1 - 2 bytes)

	AdvanceWidthFormat byte //1	advanceWidthFormat (0 - Uint, 1 - unsigned with 4 bits)
	//位图与 BBox 配置
	BitsPerPixel     byte //1	Bits per pixel (1, 2, 4 or 8)
	XyBits           byte //1	Glyph BBox x/y bits length (signed)
	WhBits           byte //1	Glyph BBox w/h bits length (unsigned)
	AdvanceWidthBits byte //1	Glyph advanceWidth bits length (unsigned, may be FP4)
	// 压缩信息
	CompressionId byte //1	Compression alg ID (0 - raw bits)
	SubpixelsMode byte //1	Subpixel rendering, 0 - none
	_             byte //1	Reserved (align to 2x)

	UnderlinePosition  int16 //2	Underline position (int16), scaled post.underlinePosition
	UnderlineThickness int16 //2	Underline thickness (uint16), scaled post.underlineThickness
}

const (
	xyBits           = 8
	whBits           = 8
	advanceWidthBits = 16
)

// NewHeadTable fills the metrics known before rendering. Ascent, Descent,
// MinY and MaxY are set once all glyphs are drawn.
func NewHeadTable(pf *sfnt.Font, opts Options) (*HeadTable, error) {
	metrics, err := pf.Metrics(nil, fixed.I(int(opts.Size)), font.HintingNone)
	if err != nil {
		return nil, err
	}
	t := &HeadTable{
		Label:              [4]byte{'h', 'e', 'a', 'd'},
		Version:            1,
		Tables:             3,
		FontSize:           opts.Size,
		TypoAscent:         uint16(metrics.Ascent.Round()),
		TypoDescent:        int16(-metrics.Descent.Round()),
		TypoLineGap:        uint16(max(0, (metrics.Height - metrics.Ascent - metrics.Descent).Round())),
		DefAdvanceWidth:    opts.Size,
		KerningScale:       1 << 4,
		IndexToLocFormat:   1,
		GlyphIdFormat:      1,
		AdvanceWidthFormat: 1,
		BitsPerPixel:       opts.BPP,
		XyBits:             xyBits,
		WhBits:             whBits,
		AdvanceWidthBits:   advanceWidthBits,
	}
	if postTable := pf.PostTable(); postTable != nil {
		upem := int32(pf.UnitsPerEm())
		t.UnderlinePosition = int16(int32(postTable.UnderlinePosition) * int32(opts.Size) / upem)
		t.UnderlineThickness = int16(int32(postTable.UnderlineThickness) * int32(opts.Size) / upem)
	}
	t.Size = uint32(binary.Size(t))
	return t, nil
}
