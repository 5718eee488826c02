/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package binheader turns binary files into C headers holding a byte array.
package binheader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zhimiaox/iconfont"
)

// DefaultWidth is the number of bytes per array line.
const DefaultWidth = 12

// Config controls the generated identifiers.
type Config struct {
	Naming Naming `yaml:"naming"`
	Prefix string `yaml:"prefix"`
	Width  int    `yaml:"width"`
}

// ErrEmpty is returned by Stage for a file without contents, a zero length
// array has no valid C initializer.
var ErrEmpty = errors.New("empty contents")

const hexdigits = "0123456789abcdef"

// Encode writes data as a C header defining ident[] and ident_len.
//
//	#pragma once
//
//	static const unsigned char ident[] = {
//	    0x00, 0x01, ...
//	};
//	static const unsigned int ident_len = 2;
func Encode(w io.Writer, ident string, data []byte, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#pragma once\n\nstatic const unsigned char %s[] = {\n", ident)
	lit := [6]byte{'0', 'x', 0, 0, ',', ' '}
	for i, b := range data {
		if i%width == 0 {
			bw.WriteString("    ")
		}
		lit[2], lit[3] = hexdigits[b>>4], hexdigits[b&0x0f]
		switch {
		case i == len(data)-1:
			bw.Write(lit[:4])
			bw.WriteByte('\n')
		case i%width == width-1:
			bw.Write(lit[:5])
			bw.WriteByte('\n')
		default:
			bw.Write(lit[:])
		}
	}
	fmt.Fprintf(bw, "};\nstatic const unsigned int %s_len = %d;\n", ident, len(data))
	return bw.Flush()
}

// Stage replaces the binary contents of each file with its header and
// changes the extension to ".h". The array name derives from the file stem.
func Stage(cfg Config) iconfont.TransformFunc {
	return func(_ context.Context, f *iconfont.File) (*iconfont.File, error) {
		if !f.IsBuffer() {
			return nil, iconfont.ErrNotBuffer
		}
		if len(f.Contents) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmpty, f.Path)
		}
		ident, err := Identifier(f.Stem(), cfg)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		buf.Grow(len(f.Contents)*6 + 128)
		if err := Encode(&buf, ident, f.Contents, cfg.Width); err != nil {
			return nil, err
		}
		f.Contents = buf.Bytes()
		f.SetExt(".h")
		return f, nil
	}
}
