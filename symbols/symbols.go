/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package symbols writes a C header with one string macro per icon glyph.
package symbols

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zhimiaox/iconfont"
	"github.com/zhimiaox/iconfont/codepoints"
)

// Basename is the name of the generated header.
const Basename = "symbols.h"

// ErrCollision is returned when two glyph names map to the same macro.
var ErrCollision = errors.New("macro name collision")

// Config holds the macro prefix, e.g. "BS_SYMBOL".
type Config struct {
	Prefix string `yaml:"prefix"`
}

// MacroName upper-cases name, replaces every character outside [0-9A-Za-z_]
// with '_' and joins it to prefix.
func MacroName(prefix, name string) string {
	up := cases.Upper(language.Und).String(name)
	var sb strings.Builder
	if prefix != "" {
		sb.WriteString(prefix)
		sb.WriteByte('_')
	}
	for _, r := range up {
		if r == '_' || ('0' <= r && r <= '9') || ('A' <= r && r <= 'Z') || ('a' <= r && r <= 'z') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Escape renders the UTF-8 encoding of r as \xHH escapes.
func Escape(r rune) string {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	var sb strings.Builder
	for _, b := range buf[:n] {
		fmt.Fprintf(&sb, "\\x%02x", b)
	}
	return sb.String()
}

// Encode writes the symbol header. Macros follow the order of list, names
// missing from m are skipped and repeated names are written once.
func Encode(w io.Writer, prefix string, m codepoints.Map, list []string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#pragma once\n\n")
	owner := make(map[string]string, len(m))
	for _, name := range list {
		cp, ok := m[name]
		if !ok {
			continue
		}
		macro := MacroName(prefix, name)
		if prev, ok := owner[macro]; ok {
			if prev == name {
				continue
			}
			return fmt.Errorf("%w: %q and %q both define %s", ErrCollision, prev, name, macro)
		}
		owner[macro] = name
		fmt.Fprintf(bw, "#define %s \"%s\"\n", macro, Escape(cp))
	}
	return bw.Flush()
}

// Stage replaces the file contents with the symbol header and renames it
// to symbols.h.
func Stage(cfg Config) iconfont.TransformFunc {
	return func(_ context.Context, f *iconfont.File) (*iconfont.File, error) {
		if f.Codepoints == nil {
			return nil, codepoints.ErrNoCodepoints
		}
		var buf bytes.Buffer
		if err := Encode(&buf, cfg.Prefix, f.Codepoints, f.List); err != nil {
			return nil, err
		}
		f.Contents = buf.Bytes()
		f.SetBasename(Basename)
		return f, nil
	}
}
