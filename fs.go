/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package iconfont

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Src expands the glob patterns and loads every match into memory.
// Matches are sorted and deduplicated, a pattern without match is an error.
func Src(patterns ...string) ([]*File, error) {
	seen := make(map[string]struct{})
	files := make([]*File, 0, len(patterns))
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %w", pattern, ErrNoMatch)
		}
		slices.Sort(matches)
		base := globBase(pattern)
		for _, path := range matches {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			files = append(files, NewFile(base, path, data))
		}
	}
	return files, nil
}

// globBase returns the directory part of pattern in front of the first
// element containing a glob meta character.
func globBase(pattern string) string {
	dir := filepath.Dir(pattern)
	for strings.ContainsAny(dir, "*?[") && dir != filepath.Dir(dir) {
		dir = filepath.Dir(dir)
	}
	return dir
}

// Dest writes each file below dir, keeping its path relative to the glob
// base. Files are written to a temporary name first and renamed into place.
func Dest(dir string) TransformFunc {
	return func(ctx context.Context, f *File) (*File, error) {
		if !f.IsBuffer() {
			return nil, ErrNotBuffer
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := filepath.Join(dir, f.Relative())
		if err := writeAtomic(target, f.Contents); err != nil {
			return nil, err
		}
		slog.Info("file written", "path", target, "size", len(f.Contents))
		f.Base, f.Path = dir, target
		return f, nil
	}
}

func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Rename replaces the file stem and keeps the current extension.
func Rename(stem string) TransformFunc {
	return func(_ context.Context, f *File) (*File, error) {
		f.SetBasename(stem + f.Ext())
		return f, nil
	}
}
