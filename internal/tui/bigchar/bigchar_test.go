package bigchar

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

func TestHalfBlocks(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	img.SetGray(0, 0, color.Gray{Y: 255})
	img.SetGray(1, 1, color.Gray{Y: 255})
	img.SetGray(2, 0, color.Gray{Y: 255})
	img.SetGray(2, 1, color.Gray{Y: 255})
	img.SetGray(3, 0, color.Gray{Y: threshold})

	assert.Equal(t, "▀▄█ ", halfBlocks(img))
}

func TestHalfBlocksOddHeight(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 3))
	img.SetGray(0, 2, color.Gray{Y: 255})
	assert.Equal(t, " \n▀", halfBlocks(img))
}

func TestScaleAverages(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 2))
	src.SetGray(0, 0, color.Gray{Y: 200})
	src.SetGray(1, 1, color.Gray{Y: 200})

	dst := scale(src, 2, 1)
	assert.Equal(t, uint8(100), dst.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), dst.GrayAt(1, 0).Y)
}

func TestRenderWithFace(t *testing.T) {
	r := NewWithFace(basicfont.Face7x13)
	require.True(t, r.Available())

	art := r.Render('A', 32, 16)
	lines := strings.Split(art, "\n")
	require.Len(t, lines, 16)
	for _, line := range lines {
		assert.Equal(t, 32, utf8.RuneCountInString(line))
	}
	assert.NotEqual(t, strings.Repeat(" ", 32*16), strings.ReplaceAll(art, "\n", ""))

	assert.Equal(t, art, r.Render('A', 32, 16), "cached")
	assert.Empty(t, r.Render('A', 0, 16))
}

func TestRenderWithoutFont(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "missing.ttc"))
	assert.False(t, r.Available())
	assert.Empty(t, r.Render('人', 16, 8))
}
