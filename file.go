/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package iconfont

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrNotBuffer is returned by stages that need the file contents in memory.
	ErrNotBuffer = errors.New("only buffer file is supported")
	// ErrNoMatch is returned by Src when a pattern matches no file.
	ErrNoMatch = errors.New("pattern matches no file")
)

// File is one asset moving through a pipeline. It is owned by the stage
// currently processing it.
type File struct {
	Base     string // glob base, outputs are written relative to it
	Path     string
	Contents []byte

	// Set by the codepoint selector, nil until then.
	Codepoints map[string]rune
	List       []string
}

// NewFile returns a buffered file record for path.
func NewFile(base, path string, contents []byte) *File {
	if contents == nil {
		contents = []byte{}
	}
	return &File{Base: base, Path: path, Contents: contents}
}

// IsBuffer reports whether the contents are held in memory.
func (f *File) IsBuffer() bool {
	return f.Contents != nil
}

// Basename returns the last path element, extension included.
func (f *File) Basename() string {
	return filepath.Base(f.Path)
}

// Ext returns the extension with the leading dot, e.g. ".ttf".
func (f *File) Ext() string {
	return filepath.Ext(f.Path)
}

// Stem returns the basename without extension.
func (f *File) Stem() string {
	return strings.TrimSuffix(f.Basename(), f.Ext())
}

// SetBasename replaces the last path element.
func (f *File) SetBasename(name string) {
	f.Path = filepath.Join(filepath.Dir(f.Path), name)
}

// SetExt replaces the extension, ext carries its leading dot.
func (f *File) SetExt(ext string) {
	f.Path = strings.TrimSuffix(f.Path, f.Ext()) + ext
}

// WithExt returns the path of a sibling file which differs only in extension.
func (f *File) WithExt(ext string) string {
	return strings.TrimSuffix(f.Path, f.Ext()) + ext
}

// Relative returns the path relative to Base.
func (f *File) Relative() string {
	if f.Base == "" {
		return f.Basename()
	}
	rel, err := filepath.Rel(f.Base, f.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return f.Basename()
	}
	return rel
}

// Clone returns a deep copy of f.
func (f *File) Clone() *File {
	c := *f
	if f.Contents != nil {
		c.Contents = slices.Clone(f.Contents)
	}
	if f.Codepoints != nil {
		c.Codepoints = maps.Clone(f.Codepoints)
	}
	if f.List != nil {
		c.List = slices.Clone(f.List)
	}
	return &c
}
