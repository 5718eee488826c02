package iconfont

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFiles(names ...string) []*File {
	files := make([]*File, 0, len(names))
	for _, name := range names {
		files = append(files, NewFile("src", "src/"+name, []byte(name)))
	}
	return files
}

func paths(files []*File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestPipelineKeepsOrder(t *testing.T) {
	upper := func(_ context.Context, f *File) (*File, error) {
		f.Contents = []byte(strings.ToUpper(string(f.Contents)))
		return f, nil
	}
	out, err := New().PipeFunc(upper, Rename("x")).Run(context.Background(), testFiles("a.txt", "b.bin", "c.h"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/x.txt", "src/x.bin", "src/x.h"}, paths(out))
	assert.Equal(t, "A.TXT", string(out[0].Contents))
	assert.Equal(t, "C.H", string(out[2].Contents))
}

func TestPipelineDropsNil(t *testing.T) {
	onlyH := func(_ context.Context, f *File) (*File, error) {
		if f.Ext() != ".h" {
			return nil, nil
		}
		return f, nil
	}
	out, err := New(Transform(onlyH)).Run(context.Background(), testFiles("a.txt", "b.h", "c.h"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/b.h", "src/c.h"}, paths(out))
}

func TestPipelineError(t *testing.T) {
	boom := errors.New("boom")
	seen := 0
	fail := func(_ context.Context, f *File) (*File, error) {
		if f.Basename() == "b.txt" {
			return nil, boom
		}
		return f, nil
	}
	count := func(_ context.Context, f *File) (*File, error) {
		seen++
		return f, nil
	}
	out, err := New().PipeFunc(fail, count).Run(context.Background(), testFiles("a.txt", "b.txt", "c.txt"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "src/b.txt")
	assert.Nil(t, out)
	assert.LessOrEqual(t, seen, 1)
}

func TestPipelineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().PipeFunc(Rename("x")).Run(ctx, testFiles("a.txt"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransformBackpressure(t *testing.T) {
	var (
		mu       sync.Mutex
		received []string
	)
	first := make(chan struct{})
	record := func(_ context.Context, f *File) (*File, error) {
		mu.Lock()
		received = append(received, f.Basename())
		if len(received) == 1 {
			close(first)
		}
		mu.Unlock()
		return f, nil
	}
	var pending []string
	slow := func(_ context.Context, in <-chan *File, out chan<- *File) error {
		<-first
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		pending = append(pending, received...)
		mu.Unlock()
		for f := range in {
			out <- f
		}
		return nil
	}
	out, err := New(Transform(record), slow).Run(context.Background(), testFiles("a.txt", "b.txt", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, pending)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, received)
	assert.Equal(t, []string{"src/a.txt", "src/b.txt", "src/c.txt"}, paths(out))
}

func TestPipelineNoStages(t *testing.T) {
	out, err := New().Run(context.Background(), testFiles("a.txt", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.txt", "src/b.txt"}, paths(out))
}

func TestChain(t *testing.T) {
	drop := func(context.Context, *File) (*File, error) { return nil, nil }
	called := false
	mark := func(_ context.Context, f *File) (*File, error) {
		called = true
		return f, nil
	}
	f, err := Chain(Rename("y"), drop, mark)(context.Background(), testFiles("a.txt")[0])
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.False(t, called)

	f, err = Chain(Rename("y"), mark)(context.Background(), testFiles("a.txt")[0])
	require.NoError(t, err)
	assert.Equal(t, "src/y.txt", f.Path)
	assert.True(t, called)
}
