/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package lvgl renders glyphs into the LVGL binary font format, the layout
// produced by lv_font_conv --format bin and read by lv_binfont_create.
package lvgl

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/image/font/sfnt"

	"github.com/zhimiaox/iconfont"
	"github.com/zhimiaox/iconfont/codepoints"
)

var (
	ErrNoRunes = errors.New("no runes to render")
	ErrBPP     = errors.New("bits per pixel must be 1, 2, 4 or 8")
)

// Options select the pixel size and bit depth of the rendered glyphs.
type Options struct {
	Size uint16 `yaml:"size"`
	BPP  uint8  `yaml:"bpp"`
}

func (o Options) withDefaults() (Options, error) {
	if o.Size == 0 {
		o.Size = 16
	}
	switch o.BPP {
	case 0:
		o.BPP = 4
	case 1, 2, 4, 8:
	default:
		return o, fmt.Errorf("%w: %d", ErrBPP, o.BPP)
	}
	return o, nil
}

// NewFont renders runes of pf and returns the binary font. Glyph IDs follow
// the ascending rune order starting at 1, ID 0 is an empty glyph.
func NewFont(pf *sfnt.Font, opts Options, runes []rune) ([]byte, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if len(runes) == 0 {
		return nil, ErrNoRunes
	}
	sfntBuf := &sfnt.Buffer{}
	runes = slices.Clone(runes)
	slices.Sort(runes)
	runes = slices.Compact(runes)
	runes = slices.DeleteFunc(runes, func(r rune) bool {
		gi, err := pf.GlyphIndex(sfntBuf, r)
		if err != nil || gi == 0 {
			slog.Warn("lvgl: font misses rune", "rune", string(r), "code", fmt.Sprintf("U+%04X", r))
			return true
		}
		return false
	})
	if len(runes) == 0 {
		return nil, ErrNoRunes
	}

	head, err := NewHeadTable(pf, opts)
	if err != nil {
		return nil, err
	}
	cm := newCmap(runes)

	glyf := &GlyfTable{Label: [4]byte{'g', 'l', 'y', 'f'}}
	glyfHeader := uint32(binary.Size(glyf))
	bits := &bitWriter{}
	// glyph 0 has no data
	offsets := []uint32{glyfHeader}
	ascent, descent := 0, 0
	for i, r := range runes {
		g, err := renderGlyph(sfntBuf, pf, opts.Size, r)
		if err != nil {
			return nil, fmt.Errorf("glyph U+%04X: %w", r, err)
		}
		offsets = append(offsets, glyfHeader+uint32(bits.buf.Len()))
		g.encode(bits, uint(opts.BPP))
		top, bottom := int(g.BBoxY)+int(g.BBoxHeight), int(g.BBoxY)
		if i == 0 {
			ascent, descent = top, bottom
		} else {
			ascent, descent = max(ascent, top), min(descent, bottom)
		}
	}
	glyf.Size = glyfHeader + uint32(bits.buf.Len())
	head.Ascent, head.Descent = uint16(max(ascent, 0)), int16(descent)
	head.MaxY, head.MinY = int16(ascent), int16(descent)
	loca := NewLocaTable(offsets)

	out := &bytes.Buffer{}
	for _, v := range []any{head, cm.table, cm.headers, cm.data, loca, offsets, glyf} {
		if err := binary.Write(out, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("encode %T: %w", v, err)
		}
	}
	out.Write(bits.buf.Bytes())
	slog.Debug("lvgl font built", "glyphs", len(runes), "size", opts.Size, "bpp", opts.BPP, "bytes", out.Len())
	return out.Bytes(), nil
}

// Stage renders the selected codepoints of a font file. The contents are
// replaced by the binary font and the extension becomes ".bin".
func Stage(opts Options) iconfont.TransformFunc {
	return func(_ context.Context, f *iconfont.File) (*iconfont.File, error) {
		if !f.IsBuffer() {
			return nil, iconfont.ErrNotBuffer
		}
		if f.Codepoints == nil {
			return nil, codepoints.ErrNoCodepoints
		}
		pf, err := sfnt.Parse(f.Contents)
		if err != nil {
			return nil, err
		}
		data, err := NewFont(pf, opts, codepoints.Runes(f))
		if err != nil {
			return nil, err
		}
		f.Contents = data
		f.SetExt(".bin")
		return f, nil
	}
}
