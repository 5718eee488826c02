package lvgl

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/zhimiaox/iconfont"
)

func parseGoRegular(t *testing.T) *sfnt.Font {
	t.Helper()
	pf, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	return pf
}

func TestNewFontLayout(t *testing.T) {
	bin, err := NewFont(parseGoRegular(t), Options{Size: 16}, []rune("BA"))
	require.NoError(t, err)
	le := binary.LittleEndian

	// head
	require.Greater(t, len(bin), 48)
	assert.Equal(t, uint32(48), le.Uint32(bin[0:]))
	assert.Equal(t, "head", string(bin[4:8]))
	assert.Equal(t, uint16(3), le.Uint16(bin[12:]))
	assert.Equal(t, uint16(16), le.Uint16(bin[14:]))
	assert.Equal(t, byte(4), bin[35+2], "bits per pixel")

	// cmap: one sparse tiny subtable for 'A'..'B'
	cm := bin[48:]
	assert.Equal(t, uint32(32), le.Uint32(cm[0:]))
	assert.Equal(t, "cmap", string(cm[4:8]))
	assert.Equal(t, uint32(1), le.Uint32(cm[8:]))
	assert.Equal(t, uint32(28), le.Uint32(cm[12:]), "data offset")
	assert.Equal(t, uint32('A'), le.Uint32(cm[16:]))
	assert.Equal(t, uint16(2), le.Uint16(cm[20:]), "range length")
	assert.Equal(t, uint16(1), le.Uint16(cm[22:]), "glyph id offset")
	assert.Equal(t, uint16(2), le.Uint16(cm[24:]), "entries")
	assert.Equal(t, byte(formatSparseTiny), cm[26])
	assert.Equal(t, []byte{0, 0, 1, 0}, cm[28:32])

	// loca: glyph 0 plus two glyphs
	loca := bin[48+32:]
	assert.Equal(t, uint32(24), le.Uint32(loca[0:]))
	assert.Equal(t, "loca", string(loca[4:8]))
	assert.Equal(t, uint32(3), le.Uint32(loca[8:]))
	assert.Equal(t, uint32(8), le.Uint32(loca[12:]))
	assert.Equal(t, uint32(8), le.Uint32(loca[16:]))
	second := le.Uint32(loca[20:])
	assert.Greater(t, second, uint32(8))

	glyf := bin[48+32+24:]
	assert.Equal(t, "glyf", string(glyf[4:8]))
	assert.Equal(t, int(le.Uint32(glyf[0:])), len(glyf))
	assert.Less(t, int(second), len(glyf))
}

func TestNewFontSkipsMissing(t *testing.T) {
	bin, err := NewFont(parseGoRegular(t), Options{}, []rune{'A', 0xe001})
	require.NoError(t, err)
	cm := bin[48:]
	assert.Equal(t, uint32('A'), binary.LittleEndian.Uint32(cm[16:]), "range start")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(cm[24:]), "entries")
}

func TestNewFontErrors(t *testing.T) {
	pf := parseGoRegular(t)
	_, err := NewFont(pf, Options{}, nil)
	assert.ErrorIs(t, err, ErrNoRunes)
	_, err = NewFont(pf, Options{}, []rune{0xe001})
	assert.ErrorIs(t, err, ErrNoRunes)
	_, err = NewFont(pf, Options{BPP: 3}, []rune("A"))
	assert.ErrorIs(t, err, ErrBPP)
}

func TestBitWriter(t *testing.T) {
	w := &bitWriter{}
	w.write(0xa, 4)
	w.write(0x1, 2)
	w.align()
	w.write(0xbeef, 16)
	assert.Equal(t, []byte{0xa4, 0xbe, 0xef}, w.buf.Bytes())
}

func TestSplitRanges(t *testing.T) {
	assert.Empty(t, splitRanges(nil))
	got := splitRanges([]rune{0x20, 0x41, 0xe000, 0x1f600})
	assert.Equal(t, [][]rune{{0x20, 0x41, 0xe000}, {0x1f600}}, got)
}

func TestStage(t *testing.T) {
	f := iconfont.NewFile("res", "res/font.ttf", goregular.TTF)
	f.Codepoints = map[string]rune{"a": 'A'}
	f.List = []string{"a"}
	out, err := Stage(Options{Size: 24, BPP: 1})(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "res/font.bin", out.Path)
	assert.Equal(t, "head", string(out.Contents[4:8]))
	assert.Equal(t, byte(1), out.Contents[37])
}
