/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package codepoints selects the glyphs of an icon font by name.
//
// A font "icons.ttf" is accompanied by "icons.codepoints", holding one
// "name hex" pair per line, and "icons.list" with the names to keep.
package codepoints

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zhimiaox/iconfont"
)

const (
	CodepointsExt = ".codepoints"
	ListExt       = ".list"
)

// ErrNoCodepoints is returned by later stages for files Select did not handle.
var ErrNoCodepoints = errors.New("file carries no codepoints")

// maxLine bounds a single line, long malformed lines are still skipped.
const maxLine = 64 << 20

// DefaultExtensions are the font file extensions Select attaches metadata to.
var DefaultExtensions = []string{".ttf", ".otf", ".woff", ".woff2"}

// Map maps glyph names to Unicode scalar values.
type Map map[string]rune

// Parse reads "name hex" lines and keeps the entries whose name passes keep.
// A nil keep retains every entry.
//
// Lines which do not split into exactly two fields, or whose second field is
// not a hexadecimal scalar value, are skipped without error. This leniency
// was found in the existing icon sets and is kept as is, a malformed line
// silently loses its glyph.
func Parse(r io.Reader, keep func(name string) bool) (Map, error) {
	m := make(Map)
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLine)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			slog.Debug("codepoints: skip malformed line", "line", n, "text", line)
			continue
		}
		if keep != nil && !keep(fields[0]) {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			slog.Debug("codepoints: skip invalid codepoint", "line", n, "text", line)
			continue
		}
		m[fields[0]] = rune(v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadList reads a selection list, one name per line. Lines are trimmed and
// empty lines dropped, order is preserved.
func ReadList(r io.Reader) ([]string, error) {
	list := make([]string, 0)
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLine)
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			list = append(list, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

type options struct {
	extensions []string
}

type Option func(*options)

// WithExtensions overrides DefaultExtensions.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = exts
	}
}

// Select attaches the selected codepoints and the selection list to font
// files. Files of other types pass through untouched.
func Select(opts ...Option) iconfont.TransformFunc {
	o := options{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&o)
	}
	return func(_ context.Context, f *iconfont.File) (*iconfont.File, error) {
		if !slices.Contains(o.extensions, strings.ToLower(f.Ext())) {
			return f, nil
		}
		list, err := readListFile(f.WithExt(ListExt))
		if err != nil {
			return nil, err
		}
		names := make(map[string]struct{}, len(list))
		for _, name := range list {
			names[name] = struct{}{}
		}
		m, err := parseFile(f.WithExt(CodepointsExt), func(name string) bool {
			_, ok := names[name]
			return ok
		})
		if err != nil {
			return nil, err
		}
		slog.Debug("codepoints selected", "file", f.Path, "listed", len(list), "selected", len(m))
		f.Codepoints = m
		f.List = list
		return f, nil
	}
}

func readListFile(path string) ([]string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("selection list: %w", err)
	}
	defer fd.Close()
	return ReadList(fd)
}

func parseFile(path string, keep func(string) bool) (Map, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("codepoints: %w", err)
	}
	defer fd.Close()
	return Parse(fd, keep)
}

// Runes returns the selected scalar values of f in list order, each once.
func Runes(f *iconfont.File) []rune {
	runes := make([]rune, 0, len(f.Codepoints))
	seen := make(map[rune]struct{}, len(f.Codepoints))
	for _, name := range f.List {
		cp, ok := f.Codepoints[name]
		if !ok {
			continue
		}
		if _, dup := seen[cp]; dup {
			continue
		}
		seen[cp] = struct{}{}
		runes = append(runes, cp)
	}
	return runes
}
