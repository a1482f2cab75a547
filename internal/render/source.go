package render

import (
	"context"
	"fmt"
	"image"

	"book-sanctuary/internal/domain"
)

// PageSource is an opened document that can rasterize its pages.
// Pages are numbered from 1.
type PageSource interface {
	NumPages() int
	// PageSize returns the intrinsic page size in points.
	PageSize(page int) (width, height float64, err error)
	Render(ctx context.Context, page int, scale float64) (*image.RGBA, error)
	Close() error
}

// Decoder opens raw PDF bytes.
type Decoder interface {
	Open(data []byte) (PageSource, error)
}

// Raster is one rasterized page together with the geometry used to produce it.
type Raster struct {
	Image          *image.RGBA
	Page           int
	IntrinsicWidth float64
	Scale          float64
}

// Rasterize renders page at the scale that fits containerWidth.
func Rasterize(ctx context.Context, src PageSource, page, containerWidth, maxWidth int) (*Raster, error) {
	if page < 1 || page > src.NumPages() {
		return nil, fmt.Errorf("page %d of %d: %w", page, src.NumPages(), domain.ErrPageOutOfRange)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, _, err := src.PageSize(page)
	if err != nil {
		return nil, err
	}
	scale := ComputeScale(containerWidth, maxWidth, width)

	img, err := src.Render(ctx, page, scale)
	if err != nil {
		return nil, err
	}
	return &Raster{Image: img, Page: page, IntrinsicWidth: width, Scale: scale}, nil
}
