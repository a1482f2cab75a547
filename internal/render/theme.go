package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"

	"book-sanctuary/internal/domain"
)

// KeyThreshold is the channel value at or above which a pixel counts as
// paper and becomes transparent.
const KeyThreshold = 240

var paper = color.RGBA{R: 244, G: 232, B: 208, A: 255}

type gradientStop struct {
	offset  float64
	r, g, b float64
	alpha   float64
}

// Diagonal aging gradient from the top-left to the bottom-right corner.
var agingStops = []gradientStop{
	{offset: 0, r: 244, g: 232, b: 208, alpha: 0},
	{offset: 0.4, r: 232, g: 220, b: 192, alpha: 0.2},
	{offset: 1, r: 212, g: 196, b: 160, alpha: 0.3},
}

type grain struct {
	count   int
	r, g, b float64
}

var (
	midnightGrain = grain{count: 2000, r: 200, g: 200, b: 255}
	sepiaGrain    = grain{count: 3000, r: 139, g: 69, b: 19}
)

const (
	grainMaxAlpha = 0.05
	washAlpha     = 0.1
)

var wash = [3]float64{245, 222, 179}

// Options controls the post-processing pass.
type Options struct {
	Vintage bool
	// Seed drives the grain placement. Equal seeds give identical output.
	Seed uint64
}

// Bypassed reports whether theme and opts leave the raster untouched.
func Bypassed(theme domain.Theme, opts Options) bool {
	return !opts.Vintage && theme == domain.ThemeCozyCabin
}

// Process composes a themed page: paper base, aging gradient, grain, the
// keyed ink layer and a final multiply wash. The result has the same size
// as src and never shares its pixels. When the combination is bypassed the
// result is an unmodified copy of src.
func Process(src *image.RGBA, theme domain.Theme, opts Options) *image.RGBA {
	bounds := src.Bounds()
	if Bypassed(theme, opts) {
		out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(out, out.Bounds(), src, bounds.Min, draw.Src)
		return out
	}

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)

	paintGradient(out)
	paintGrain(out, theme, rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)))

	ink := KeyInk(src, theme)
	draw.Draw(out, out.Bounds(), ink, image.Point{}, draw.Over)

	applyWash(out)
	return out
}

// KeyInk returns a copy of src where paper-white pixels are fully
// transparent and the remaining ink is tinted for theme.
func KeyInk(src *image.RGBA, theme domain.Theme) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			si := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			a := src.Pix[si+3]
			if a == 0 {
				continue
			}
			r := unpremultiply(src.Pix[si], a)
			g := unpremultiply(src.Pix[si+1], a)
			b := unpremultiply(src.Pix[si+2], a)

			if r >= KeyThreshold && g >= KeyThreshold && b >= KeyThreshold {
				continue
			}

			r, g, b = tint(r, g, b, theme)
			di := out.PixOffset(x, y)
			out.Pix[di] = premultiply(r, a)
			out.Pix[di+1] = premultiply(g, a)
			out.Pix[di+2] = premultiply(b, a)
			out.Pix[di+3] = a
		}
	}
	return out
}

func tint(r, g, b int, theme domain.Theme) (int, int, int) {
	if theme == domain.ThemeMidnightLibrary {
		return clamp(r - 30), clamp(g - 20), clamp(b + 10)
	}
	return clamp(r - 20), clamp(g - 20), clamp(b - 20)
}

func paintGradient(img *image.RGBA) {
	w, h := float64(img.Rect.Dx()), float64(img.Rect.Dy())
	norm := w*w + h*h
	if norm == 0 {
		return
	}

	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			t := ((float64(x)+0.5)*w + (float64(y)+0.5)*h) / norm
			r, g, b, alpha := gradientAt(t)
			blendOver(img, x, y, r, g, b, alpha)
		}
	}
}

func gradientAt(t float64) (float64, float64, float64, float64) {
	t = math.Max(0, math.Min(1, t))
	for i := 1; i < len(agingStops); i++ {
		lo, hi := agingStops[i-1], agingStops[i]
		if t <= hi.offset {
			f := (t - lo.offset) / (hi.offset - lo.offset)
			return lerp(lo.r, hi.r, f), lerp(lo.g, hi.g, f), lerp(lo.b, hi.b, f), lerp(lo.alpha, hi.alpha, f)
		}
	}
	last := agingStops[len(agingStops)-1]
	return last.r, last.g, last.b, last.alpha
}

func paintGrain(img *image.RGBA, theme domain.Theme, rng *rand.Rand) {
	grain := sepiaGrain
	if theme == domain.ThemeMidnightLibrary {
		grain = midnightGrain
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}

	for i := 0; i < grain.count; i++ {
		x := int(rng.Float64() * float64(w))
		y := int(rng.Float64() * float64(h))
		alpha := rng.Float64() * grainMaxAlpha
		blendOver(img, x, y, grain.r, grain.g, grain.b, alpha)
	}
}

// applyWash multiplies every pixel with the warm wash color at low opacity.
func applyWash(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			dst := float64(img.Pix[i+c])
			img.Pix[i+c] = toByte(dst * (1 - washAlpha + washAlpha*wash[c]/255))
		}
	}
}

// blendOver draws a straight-alpha color over an opaque pixel.
func blendOver(img *image.RGBA, x, y int, r, g, b, alpha float64) {
	if alpha <= 0 {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i] = toByte(lerp(float64(img.Pix[i]), r, alpha))
	img.Pix[i+1] = toByte(lerp(float64(img.Pix[i+1]), g, alpha))
	img.Pix[i+2] = toByte(lerp(float64(img.Pix[i+2]), b, alpha))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func unpremultiply(c, a uint8) int {
	if a == 255 {
		return int(c)
	}
	return clamp((int(c)*255 + int(a)/2) / int(a))
}

func premultiply(c int, a uint8) uint8 {
	if a == 255 {
		return uint8(c)
	}
	return uint8((c*int(a) + 127) / 255)
}
