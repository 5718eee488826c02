/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package config loads the task file which names the build jobs.
//
//	tasks:
//	  iconfonts:
//	    - kind: font
//	      src: [res/MaterialIcons-Regular.ttf]
//	      dest: ../app/lvgl/fonts/material-icons
//	      header: {naming: snake_case, prefix: ttf}
//	      rename: font
//	    - kind: symbols
//	      src: [res/MaterialIcons-Regular.ttf]
//	      dest: ../app/lvgl/fonts/material-icons
//	      symbols: {prefix: MAT_SYMBOL}
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zhimiaox/iconfont/binheader"
	"github.com/zhimiaox/iconfont/lvgl"
	"github.com/zhimiaox/iconfont/symbols"
)

// DefaultFile is looked up when no task file is given.
const DefaultFile = "iconfont.yaml"

var (
	ErrNoTask  = errors.New("no such task")
	ErrInvalid = errors.New("invalid task file")
)

// Kind selects the chain of stages of a job.
type Kind string

const (
	KindFont    Kind = "font"    // subset, C array header
	KindSymbols Kind = "symbols" // symbol macros header
	KindLVGL    Kind = "lvgl"    // subset, LVGL binary font, C array header
)

// Job turns the files matched by Src into one kind of output below Dest.
type Job struct {
	Name       string           `yaml:"name"`
	Kind       Kind             `yaml:"kind"`
	Src        []string         `yaml:"src"`
	Dest       string           `yaml:"dest"`
	Rename     string           `yaml:"rename"`
	Extensions []string         `yaml:"extensions"`
	Verify     *bool            `yaml:"verify"`
	Header     binheader.Config `yaml:"header"`
	Symbols    symbols.Config   `yaml:"symbols"`
	LVGL       lvgl.Options     `yaml:"lvgl"`
}

// Config maps task names to jobs which run in parallel.
type Config struct {
	Tasks map[string][]Job `yaml:"tasks"`
}

// Load reads the task file at path. Relative paths inside are resolved
// against the directory of the file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, filepath.Dir(path))
}

// Parse decodes a task file, rejecting unknown fields, and resolves
// relative paths against dir.
func Parse(r io.Reader, dir string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for name, jobs := range cfg.Tasks {
		for i := range jobs {
			job := &jobs[i]
			if job.Name == "" {
				job.Name = fmt.Sprintf("%s#%d", name, i+1)
			}
			for j, src := range job.Src {
				job.Src[j] = resolve(dir, src)
			}
			if job.Dest != "" {
				job.Dest = resolve(dir, job.Dest)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// Validate checks every job for a known kind, sources, a destination and
// valid emitter settings.
func (c *Config) Validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrInvalid)
	}
	for name, jobs := range c.Tasks {
		if len(jobs) == 0 {
			return fmt.Errorf("%w: task %s has no jobs", ErrInvalid, name)
		}
		for _, job := range jobs {
			if err := job.validate(); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalid, job.Name, err)
			}
		}
	}
	return nil
}

func (j *Job) validate() error {
	switch j.Kind {
	case KindFont, KindSymbols, KindLVGL:
	default:
		return fmt.Errorf("unknown kind %q", j.Kind)
	}
	if len(j.Src) == 0 {
		return errors.New("src is empty")
	}
	if j.Dest == "" {
		return errors.New("dest is empty")
	}
	if j.Kind != KindSymbols {
		if _, err := binheader.ParseNaming(string(j.Header.Naming)); err != nil {
			return err
		}
		if err := binheader.ValidatePrefix(j.Header.Prefix); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	} else if err := binheader.ValidatePrefix(j.Symbols.Prefix); err != nil {
		return fmt.Errorf("symbols: %w", err)
	}
	if j.Kind == KindLVGL {
		switch j.LVGL.BPP {
		case 0, 1, 2, 4, 8:
		default:
			return fmt.Errorf("%w: %d", lvgl.ErrBPP, j.LVGL.BPP)
		}
	}
	return nil
}

// TaskNames returns the task names in sorted order.
func (c *Config) TaskNames() []string {
	names := make([]string, 0, len(c.Tasks))
	for name := range c.Tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Task returns the jobs of a task.
func (c *Config) Task(name string) ([]Job, error) {
	jobs, ok := c.Tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTask, name)
	}
	return jobs, nil
}
