package codepoints

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhimiaox/iconfont"
)

func keepOnly(names ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func TestParseIntersection(t *testing.T) {
	src := "frown e002\nsmile e001\nwink e003\n"
	m, err := Parse(strings.NewReader(src), keepOnly("smile", "frown", "absent"))
	require.NoError(t, err)
	assert.Equal(t, Map{"smile": 0xe001, "frown": 0xe002}, m)
}

func TestParseSkipsMalformed(t *testing.T) {
	src := strings.Join([]string{
		"",
		"lonely",
		"one two three",
		"  padded   e004  ",
		"badhex zz",
		"surrogate d800",
		"huge 110000",
		"ok e005",
	}, "\n")
	m, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)
	assert.Equal(t, Map{"padded": 0xe004, "ok": 0xe005}, m)
}

func TestParseCRLF(t *testing.T) {
	m, err := Parse(strings.NewReader("a e001\r\nb e002\r\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, Map{"a": 0xe001, "b": 0xe002}, m)
}

func TestParseLongLine(t *testing.T) {
	long := strings.Repeat("x", 70*1024)
	src := "smile e001\n" + long + "\n" + long + " e003 extra\nfrown e002\n"
	m, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)
	assert.Equal(t, Map{"smile": 0xe001, "frown": 0xe002}, m)
}

func TestReadList(t *testing.T) {
	list, err := ReadList(strings.NewReader(" smile \n\nfrown\r\n\t\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"smile", "frown"}, list)
}

func TestReadListLongLine(t *testing.T) {
	long := strings.Repeat("y", 70*1024)
	list, err := ReadList(strings.NewReader("smile\n" + long + "\nfrown\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"smile", long, "frown"}, list)
}

func writeSet(t *testing.T, dir, stem, cps, list string) string {
	t.Helper()
	font := filepath.Join(dir, stem+".ttf")
	require.NoError(t, os.WriteFile(font, []byte("font"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, stem+CodepointsExt), []byte(cps), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, stem+ListExt), []byte(list), 0o644))
	return font
}

func TestSelect(t *testing.T) {
	dir := t.TempDir()
	path := writeSet(t, dir, "icons", "smile e001\nfrown e002\nbroken not-hex\n", "smile\nfrown\n")
	f := iconfont.NewFile(dir, path, []byte("font"))

	out, err := Select()(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, map[string]rune{"smile": 0xe001, "frown": 0xe002}, out.Codepoints)
	assert.Equal(t, []string{"smile", "frown"}, out.List)
	assert.Equal(t, "font", string(out.Contents))
	assert.Equal(t, []rune{0xe001, 0xe002}, Runes(out))
}

func TestSelectPassesOtherFiles(t *testing.T) {
	f := iconfont.NewFile("", "readme.txt", []byte("hi"))
	out, err := Select()(context.Background(), f)
	require.NoError(t, err)
	assert.Same(t, f, out)
	assert.Nil(t, out.Codepoints)
	assert.Nil(t, out.List)
}

func TestSelectExtensions(t *testing.T) {
	dir := t.TempDir()
	path := writeSet(t, dir, "icons", "a e001\n", "a\n")
	out, err := Select(WithExtensions(".woff2"))(context.Background(), iconfont.NewFile(dir, path, nil))
	require.NoError(t, err)
	assert.Nil(t, out.Codepoints)
}

func TestSelectMissingList(t *testing.T) {
	dir := t.TempDir()
	path := writeSet(t, dir, "icons", "a e001\n", "a\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "icons"+ListExt)))
	_, err := Select()(context.Background(), iconfont.NewFile(dir, path, nil))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSelectMissingCodepoints(t *testing.T) {
	dir := t.TempDir()
	path := writeSet(t, dir, "icons", "a e001\n", "a\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "icons"+CodepointsExt)))
	_, err := Select()(context.Background(), iconfont.NewFile(dir, path, nil))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunesListOrder(t *testing.T) {
	f := &iconfont.File{
		Codepoints: map[string]rune{"a": 0xe003, "b": 0xe001, "alias": 0xe001},
		List:       []string{"b", "missing", "a", "alias", "b"},
	}
	assert.Equal(t, []rune{0xe001, 0xe003}, Runes(f))
}
