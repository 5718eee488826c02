/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package subset reduces a font to the glyphs of a set of codepoints.
package subset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/golang/freetype/truetype"
	tdfont "github.com/tdewolff/font"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"

	"github.com/zhimiaox/iconfont"
	"github.com/zhimiaox/iconfont/codepoints"
)

var (
	ErrEmptyCharset         = errors.New("no glyph selected")
	ErrUnsupportedCodepoint = errors.New("codepoint outside the basic multilingual plane")
	ErrMissingGlyph         = errors.New("glyph missing from subset")
)

// isWOFF reports whether data is a WOFF or WOFF2 container.
func isWOFF(data []byte) bool {
	return len(data) >= 4 && (string(data[:4]) == "wOFF" || string(data[:4]) == "wOF2")
}

// Font returns a font holding glyph 0 and the glyphs of charset. The result
// carries a single (3,1) format 4 cmap, layout tables are dropped. Runes the
// font does not cover are left out with a warning.
func Font(ctx context.Context, data []byte, charset []rune) ([]byte, error) {
	out, _, err := subsetFont(ctx, data, charset)
	return out, err
}

// subsetFont also returns the runes of charset the result covers.
func subsetFont(ctx context.Context, data []byte, charset []rune) ([]byte, []rune, error) {
	if len(charset) == 0 {
		return nil, nil, ErrEmptyCharset
	}
	if isWOFF(data) {
		var err error
		if data, err = tdfont.ToSFNT(data); err != nil {
			return nil, nil, fmt.Errorf("decode woff: %w", err)
		}
	}
	origFont, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	table, err := origFont.CMapTable.GetBest()
	if err != nil {
		return nil, nil, err
	}

	runes := slices.Clone(charset)
	slices.Sort(runes)
	runes = slices.Compact(runes)

	// new glyph ID is the index into glyphs, glyph 0 stays .notdef
	glyphs := []glyph.ID{0}
	subtable := cmap.Format4{}
	covered := make([]rune, 0, len(runes))
	missing := make([]rune, 0)
	for _, r := range runes {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if r > 0xFFFF {
			return nil, nil, fmt.Errorf("%w: U+%04X", ErrUnsupportedCodepoint, r)
		}
		gid := table.Lookup(r)
		if gid == 0 {
			missing = append(missing, r)
			continue
		}
		idx := slices.Index(glyphs, gid)
		if idx < 0 {
			idx = len(glyphs)
			glyphs = append(glyphs, gid)
		}
		subtable[uint16(r)] = glyph.ID(idx)
		covered = append(covered, r)
	}
	if len(missing) > 0 {
		slog.Warn("subset: font misses some runes", "runes", string(missing), "runes_raw", missing)
	}
	if len(glyphs) == 1 {
		return nil, nil, ErrEmptyCharset
	}

	f := origFont.Clone()
	f.CMapTable = nil
	f.Gdef = nil
	f.Gsub = nil
	f.Gpos = nil
	subFont := f.Subset(glyphs)
	subFont.CMapTable = cmap.Table{
		{PlatformID: 3, EncodingID: 1}: subtable.Encode(0),
	}

	buf := &bytes.Buffer{}
	if _, err := subFont.Write(buf); err != nil {
		return nil, nil, err
	}
	slog.Debug("subset done", "glyphs", len(glyphs), "in", len(data), "out", buf.Len())
	return buf.Bytes(), covered, nil
}

// Verify parses a TrueType font and checks every rune of charset maps to a
// real glyph. Fonts with CFF outlines are not checked.
func Verify(data []byte, charset []rune) error {
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return nil
	}
	fnt, err := truetype.Parse(data)
	if err != nil {
		return err
	}
	for _, r := range charset {
		if fnt.Index(r) == 0 {
			return fmt.Errorf("%w: U+%04X", ErrMissingGlyph, r)
		}
	}
	return nil
}

type options struct {
	verify bool
}

type Option func(*options)

// WithoutVerify skips the re-parse of the subsetted font.
func WithoutVerify() Option {
	return func(o *options) {
		o.verify = false
	}
}

// Stage replaces the font contents with the subset of the selected
// codepoints. Files must have passed codepoints.Select.
func Stage(opts ...Option) iconfont.TransformFunc {
	o := options{verify: true}
	for _, opt := range opts {
		opt(&o)
	}
	return func(ctx context.Context, f *iconfont.File) (*iconfont.File, error) {
		if !f.IsBuffer() {
			return nil, iconfont.ErrNotBuffer
		}
		if f.Codepoints == nil {
			return nil, codepoints.ErrNoCodepoints
		}
		data, covered, err := subsetFont(ctx, f.Contents, codepoints.Runes(f))
		if err != nil {
			return nil, err
		}
		if o.verify {
			if err := Verify(data, covered); err != nil {
				return nil, err
			}
		}
		f.Contents = data
		if bytes.HasPrefix(data, []byte("OTTO")) {
			f.SetExt(".otf")
		} else {
			f.SetExt(".ttf")
		}
		return f, nil
	}
}
