/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package lvgl

import (
	"bytes"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/zhimiaox/iconfont/internal/num"
)

type GlyfTable struct {
	Size  uint32  //4	Record size (for quick skip)
	Label [4]byte //4	glyf (table marker)
}

// GlyfDataInfo is the bit-packed prefix of each glyph with the field widths
// declared in the head table.
type GlyfDataInfo struct {
	AdvanceWidth uint16 // FP12.4
	BBoxX        int8
	BBoxY        int8 // bottom edge, y axis up
	BBoxWidth    uint8
	BBoxHeight   uint8
}

type glyph struct {
	GlyfDataInfo
	alpha *image.Alpha
}

// bitWriter packs values most significant bit first.
type bitWriter struct {
	buf bytes.Buffer
	acc byte
	n   uint
}

func (w *bitWriter) write(v uint32, bits uint) {
	for i := bits; i > 0; i-- {
		w.acc = w.acc<<1 | byte(v>>(i-1)&1)
		w.n++
		if w.n == 8 {
			w.buf.WriteByte(w.acc)
			w.acc, w.n = 0, 0
		}
	}
}

// align pads the pending bits with zeros up to the next byte.
func (w *bitWriter) align() {
	if w.n > 0 {
		w.buf.WriteByte(w.acc << (8 - w.n))
		w.acc, w.n = 0, 0
	}
}

// encode appends the glyph record, byte aligned.
func (g *glyph) encode(w *bitWriter, bpp uint) {
	w.write(uint32(g.AdvanceWidth), advanceWidthBits)
	w.write(uint32(uint8(g.BBoxX)), xyBits)
	w.write(uint32(uint8(g.BBoxY)), xyBits)
	w.write(uint32(g.BBoxWidth), whBits)
	w.write(uint32(g.BBoxHeight), whBits)
	if g.alpha != nil {
		b := g.alpha.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				w.write(uint32(g.alpha.AlphaAt(x, y).A>>(8-bpp)), bpp)
			}
		}
	}
	w.align()
}

// renderGlyph rasterises r at size pixels.
func renderGlyph(buf *sfnt.Buffer, pf *sfnt.Font, size uint16, r rune) (*glyph, error) {
	glyphIndex, err := pf.GlyphIndex(buf, r)
	if err != nil {
		return nil, err
	}
	ppem := fixed.I(int(size))
	bounds, advance, err := pf.GlyphBounds(buf, glyphIndex, ppem, font.HintingNone)
	if err != nil {
		return nil, err
	}
	segments, err := pf.LoadGlyph(buf, glyphIndex, ppem, nil)
	if err != nil {
		return nil, err
	}
	x0, y0 := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	x1, y1 := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	if len(segments) == 0 {
		x0, y0, x1, y1 = 0, 0, 0, 0
	}

	g := &glyph{}
	// LVGL FP4
	if g.AdvanceWidth, err = num.Checked[uint16]("advance width", advance.Round()*16); err != nil {
		return nil, err
	}
	if g.BBoxX, err = num.Checked[int8]("bbox x", x0); err != nil {
		return nil, err
	}
	if g.BBoxY, err = num.Checked[int8]("bbox y", -y1); err != nil {
		return nil, err
	}
	if g.BBoxWidth, err = num.Checked[uint8]("bbox width", x1-x0); err != nil {
		return nil, err
	}
	if g.BBoxHeight, err = num.Checked[uint8]("bbox height", y1-y0); err != nil {
		return nil, err
	}
	width, height := x1-x0, y1-y0
	if width == 0 || height == 0 {
		return g, nil
	}

	// segments are in 26.6 pixels with y growing downwards
	ox, oy := float32(-x0), float32(-y0)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return ox + float32(p.X)/64, oy + float32(p.Y)/64
	}
	rasterizer := vector.NewRasterizer(width, height)
	rasterizer.DrawOp = draw.Src
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rasterizer.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			rasterizer.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			rasterizer.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			rasterizer.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	g.alpha = image.NewAlpha(image.Rect(0, 0, width, height))
	rasterizer.Draw(g.alpha, g.alpha.Bounds(), image.Opaque, image.Point{})
	return g, nil
}
