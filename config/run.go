/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package config

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zhimiaox/iconfont"
	"github.com/zhimiaox/iconfont/binheader"
	"github.com/zhimiaox/iconfont/codepoints"
	"github.com/zhimiaox/iconfont/lvgl"
	"github.com/zhimiaox/iconfont/subset"
	"github.com/zhimiaox/iconfont/symbols"
)

// Pipeline assembles the stages of the job.
func (j *Job) Pipeline() *iconfont.Pipeline {
	var selectOpts []codepoints.Option
	if len(j.Extensions) > 0 {
		selectOpts = append(selectOpts, codepoints.WithExtensions(j.Extensions...))
	}
	var subsetOpts []subset.Option
	if j.Verify != nil && !*j.Verify {
		subsetOpts = append(subsetOpts, subset.WithoutVerify())
	}

	p := iconfont.New().PipeFunc(codepoints.Select(selectOpts...))
	switch j.Kind {
	case KindSymbols:
		p.PipeFunc(symbols.Stage(j.Symbols))
	case KindLVGL:
		p.PipeFunc(subset.Stage(subsetOpts...), lvgl.Stage(j.LVGL), binheader.Stage(j.Header))
	default:
		p.PipeFunc(subset.Stage(subsetOpts...), binheader.Stage(j.Header))
	}
	if j.Rename != "" && j.Kind != KindSymbols {
		p.PipeFunc(iconfont.Rename(j.Rename))
	}
	return p.PipeFunc(iconfont.Dest(j.Dest))
}

// Run executes one job and returns the written files.
func (j *Job) Run(ctx context.Context) ([]*iconfont.File, error) {
	files, err := iconfont.Src(j.Src...)
	if err != nil {
		return nil, err
	}
	slog.Debug("job started", "job", j.Name, "kind", j.Kind, "files", len(files))
	return j.Pipeline().Run(ctx, files)
}

// Run executes all jobs of a task in parallel. The first failing job
// cancels the others and its error is returned.
func (c *Config) Run(ctx context.Context, task string) ([]*iconfont.File, error) {
	jobs, err := c.Task(task)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		results  = make([][]*iconfont.File, len(jobs))
	)
	for i := range jobs {
		wg.Add(1)
		go func(i int, job *Job) {
			defer wg.Done()
			out, err := job.Run(ctx)
			if err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("%s: %w", job.Name, err)
					cancel()
				})
				return
			}
			results[i] = out
		}(i, &jobs[i])
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	var written []*iconfont.File
	for _, out := range results {
		written = append(written, out...)
	}
	return written, nil
}
