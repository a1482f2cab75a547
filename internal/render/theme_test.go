package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"book-sanctuary/internal/domain"
)

func newPage(w, h int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	return img
}

func TestProcess_BypassReturnsCopy(t *testing.T) {
	src := newPage(4, 4, color.RGBA{R: 12, G: 34, B: 56, A: 255})

	out := Process(src, domain.ThemeCozyCabin, Options{Vintage: false, Seed: 1})
	if out == src {
		t.Fatal("expected bypass to return a new pixel buffer")
	}
	if !bytes.Equal(out.Pix, src.Pix) {
		t.Fatal("expected cozy-cabin without vintage to leave the pixels untouched")
	}
	out.Pix[0] = 99
	if src.Pix[0] != 12 {
		t.Fatal("expected writes to the bypass output not to reach the input")
	}

	out = Process(src, domain.ThemeCozyCabin, Options{Vintage: true, Seed: 1})
	if out == src {
		t.Fatal("expected vintage processing to produce a new image")
	}
}

func TestKeyInk_PaperBecomesTransparent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 240, G: 240, B: 240, A: 255})
	src.SetRGBA(2, 0, color.RGBA{R: 239, G: 250, B: 250, A: 255})
	src.SetRGBA(3, 0, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	for _, theme := range []domain.Theme{domain.ThemeCozyCabin, domain.ThemeMidnightLibrary, domain.ThemeRainyDay} {
		ink := KeyInk(src, theme)
		if a := ink.RGBAAt(0, 0).A; a != 0 {
			t.Errorf("%s: expected white pixel alpha 0, got %d", theme, a)
		}
		if a := ink.RGBAAt(1, 0).A; a != 0 {
			t.Errorf("%s: expected pixel at threshold alpha 0, got %d", theme, a)
		}
		if a := ink.RGBAAt(2, 0).A; a != 255 {
			t.Errorf("%s: expected pixel with one channel below threshold to stay opaque, got %d", theme, a)
		}
	}
}

func TestKeyInk_Tint(t *testing.T) {
	src := newPage(1, 1, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	midnight := KeyInk(src, domain.ThemeMidnightLibrary).RGBAAt(0, 0)
	if midnight != (color.RGBA{R: 70, G: 80, B: 110, A: 255}) {
		t.Fatalf("unexpected midnight tint: %+v", midnight)
	}

	sepia := KeyInk(src, domain.ThemeRainyDay).RGBAAt(0, 0)
	if sepia != (color.RGBA{R: 80, G: 80, B: 80, A: 255}) {
		t.Fatalf("unexpected sepia tint: %+v", sepia)
	}

	dark := KeyInk(newPage(1, 1, color.RGBA{R: 5, G: 5, B: 250, A: 255}), domain.ThemeMidnightLibrary).RGBAAt(0, 0)
	if dark != (color.RGBA{R: 0, G: 0, B: 255, A: 255}) {
		t.Fatalf("expected channels clamped to [0,255], got %+v", dark)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	src := newPage(64, 48, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	for x := 10; x < 30; x++ {
		src.SetRGBA(x, 20, color.RGBA{A: 255})
	}

	a := Process(src, domain.ThemeRainyDay, Options{Vintage: true, Seed: 42})
	b := Process(src, domain.ThemeRainyDay, Options{Vintage: true, Seed: 42})
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("expected identical output for identical seeds")
	}

	c := Process(src, domain.ThemeRainyDay, Options{Vintage: true, Seed: 43})
	if bytes.Equal(a.Pix, c.Pix) {
		t.Fatal("expected different grain for a different seed")
	}
}

func TestProcess_OutputShape(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 40, 60))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	out := Process(src, domain.ThemeMidnightLibrary, Options{Vintage: true, Seed: 7})
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 40 {
		t.Fatalf("expected 30x40 output, got %v", out.Bounds())
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 255 {
			t.Fatalf("expected opaque output, found alpha %d", out.Pix[i])
		}
	}
}

func TestProcess_InkSurvivesOnPaper(t *testing.T) {
	src := newPage(200, 200, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetRGBA(5, 5, color.RGBA{A: 255})

	out := Process(src, domain.ThemeRainyDay, Options{Vintage: true, Seed: 3})

	ink := out.RGBAAt(5, 5)
	if ink.R > 10 || ink.G > 10 || ink.B > 10 {
		t.Fatalf("expected black ink to stay dark, got %+v", ink)
	}
	bg := out.RGBAAt(150, 20)
	if bg.R < 200 || bg.G < 190 || bg.B < 160 {
		t.Fatalf("expected paper background, got %+v", bg)
	}
}
