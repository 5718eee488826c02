/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package iconfont

import (
	"context"
	"fmt"
	"sync"
)

// TransformFunc processes a single file. Returning a nil file without error
// drops it from the stream.
type TransformFunc func(ctx context.Context, f *File) (*File, error)

// Stage consumes files from in until it is closed and pushes results to out.
// A stage must not close out, the pipeline does that once the stage returns.
type Stage func(ctx context.Context, in <-chan *File, out chan<- *File) error

// Transform adapts fn into a Stage. Files are handled one at a time, so the
// output keeps the input order and the next file is only received after the
// previous result was taken downstream.
func Transform(fn TransformFunc) Stage {
	return func(ctx context.Context, in <-chan *File, out chan<- *File) error {
		for {
			var (
				f  *File
				ok bool
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case f, ok = <-in:
				if !ok {
					return nil
				}
			}
			res, err := fn(ctx, f)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			if res == nil {
				continue
			}
			select {
			case out <- res:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Chain applies fns in order to a single file, stopping when one drops it.
func Chain(fns ...TransformFunc) TransformFunc {
	return func(ctx context.Context, f *File) (*File, error) {
		var err error
		for _, fn := range fns {
			if f, err = fn(ctx, f); err != nil || f == nil {
				return nil, err
			}
		}
		return f, nil
	}
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []Stage
}

// New creates a pipeline from stages.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Pipe appends stages and returns p.
func (p *Pipeline) Pipe(stages ...Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// PipeFunc appends each fn wrapped by Transform.
func (p *Pipeline) PipeFunc(fns ...TransformFunc) *Pipeline {
	for _, fn := range fns {
		p.stages = append(p.stages, Transform(fn))
	}
	return p
}

// Run streams files through all stages and returns what leaves the last one.
// Every stage runs in its own goroutine, connected by unbuffered channels.
// The first error cancels the remaining stages and is returned.
func (p *Pipeline) Run(parent context.Context, files []*File) ([]*File, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	src := make(chan *File)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(src)
		for _, f := range files {
			select {
			case src <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	var in <-chan *File = src
	for _, stage := range p.stages {
		out := make(chan *File)
		wg.Add(1)
		go func(in <-chan *File, out chan *File) {
			defer wg.Done()
			defer close(out)
			if err := stage(ctx, in, out); err != nil {
				fail(err)
			}
			// unblock upstream
			for range in {
			}
		}(in, out)
		in = out
	}

	var result []*File
	for f := range in {
		result = append(result, f)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
