// Package bigchar draws a character as terminal block art using half-block
// cells, so unknown characters can be inspected at a glance.
package bigchar

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontPaths are the CJK fonts tried when no path is given.
var DefaultFontPaths = []string{
	// macOS
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/STHeiti Light.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	// Windows
	"C:\\Windows\\Fonts\\msyh.ttc",
	"C:\\Windows\\Fonts\\simsun.ttc",
}

const (
	glyphSize = 64
	padding   = 4
	threshold = 40
)

type cacheKey struct {
	ch         rune
	cols, rows int
}

// Renderer draws characters with one font face. The face is loaded on first
// use; a Renderer without a usable font renders nothing.
type Renderer struct {
	paths []string
	once  sync.Once
	face  font.Face

	mu    sync.Mutex
	cache map[cacheKey]string
}

// New returns a renderer that loads the first parseable font in paths, or
// in DefaultFontPaths when none are given.
func New(paths ...string) *Renderer {
	if len(paths) == 0 {
		paths = DefaultFontPaths
	}
	return &Renderer{paths: paths, cache: make(map[cacheKey]string)}
}

// NewWithFace returns a renderer drawing with face.
func NewWithFace(face font.Face) *Renderer {
	r := &Renderer{face: face, cache: make(map[cacheKey]string)}
	r.once.Do(func() {})
	return r
}

func (r *Renderer) load() font.Face {
	r.once.Do(func() {
		for _, path := range r.paths {
			if face := loadFace(path); face != nil {
				r.face = face
				return
			}
		}
	})
	return r.face
}

func loadFace(path string) font.Face {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var fnt *opentype.Font
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		fnt, _ = coll.Font(0)
	}
	if fnt == nil {
		if fnt, err = opentype.Parse(data); err != nil {
			return nil
		}
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: glyphSize, DPI: 72})
	if err != nil {
		return nil
	}
	return face
}

// Available reports whether a font was found.
func (r *Renderer) Available() bool {
	return r.load() != nil
}

// Render draws ch into cols by rows terminal cells. It returns "" when no
// font is available or the font has no glyph for ch.
func (r *Renderer) Render(ch rune, cols, rows int) string {
	face := r.load()
	if face == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	key := cacheKey{ch, cols, rows}
	r.mu.Lock()
	defer r.mu.Unlock()
	if art, ok := r.cache[key]; ok {
		return art
	}

	art := ""
	if img := rasterize(face, ch); img != nil {
		art = halfBlocks(scale(img, cols, rows*2))
	}
	r.cache[key] = art
	return art
}

// rasterize draws ch white on black, centred with some padding.
func rasterize(face font.Face, ch rune) *image.Gray {
	bounds, _, ok := face.GlyphBounds(ch)
	if !ok {
		return nil
	}
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	width := max(w+padding*2, glyphSize)
	height := max(h+padding*2, glyphSize)

	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P((width-w)/2-bounds.Min.X.Floor(), height-padding-bounds.Max.Y.Ceil()),
	}
	d.DrawString(string(ch))
	return img
}

// scale shrinks src to width by height by averaging each source block.
func scale(src *image.Gray, width, height int) *image.Gray {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	for y := range height {
		y0, y1 := y*sh/height, min((y+1)*sh/height, sh)
		for x := range width {
			x0, x1 := x*sw/width, min((x+1)*sw/width, sw)

			sum, n := 0, 0
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					n++
				}
			}
			if n > 0 {
				dst.SetGray(x, y, color.Gray{Y: uint8(sum / n)})
			}
		}
	}
	return dst
}

// halfBlocks maps two vertical pixels to one cell.
func halfBlocks(img *image.Gray) string {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	rows := (height + 1) / 2

	lines := make([]string, 0, rows)
	for row := range rows {
		var sb strings.Builder
		for x := range width {
			top := lit(img, x, row*2)
			bottom := lit(img, x, row*2+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func lit(img *image.Gray, x, y int) bool {
	if !image.Pt(x, y).In(img.Bounds()) {
		return false
	}
	return img.GrayAt(x, y).Y > threshold
}
