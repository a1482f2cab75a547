package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"book-sanctuary/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const pointsPerInch = 72.0

// FitzDecoder opens documents with MuPDF.
type FitzDecoder struct{}

// NewFitzDecoder creates a MuPDF backed decoder.
func NewFitzDecoder() *FitzDecoder {
	return &FitzDecoder{}
}

// Open decodes data. Encrypted input yields domain.ErrDocumentEncrypted and
// anything MuPDF cannot parse yields domain.ErrDocumentCorrupt.
func (d *FitzDecoder) Open(data []byte) (PageSource, error) {
	if len(data) == 0 {
		return nil, domain.ErrDocumentMissing
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, domain.ErrDocumentEncrypted
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentCorrupt, err)
	}
	if doc.NumPage() < 1 {
		doc.Close()
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrDocumentCorrupt)
	}

	return &fitzSource{doc: doc}, nil
}

// fitzSource serializes access to the MuPDF context, which is not safe for
// concurrent use.
type fitzSource struct {
	mu     sync.Mutex
	doc    *fitz.Document
	closed bool
}

func (s *fitzSource) NumPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return s.doc.NumPage()
}

func (s *fitzSource) PageSize(page int) (float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, 0, domain.ErrSessionClosed
	}
	if page < 1 || page > s.doc.NumPage() {
		return 0, 0, domain.ErrPageOutOfRange
	}

	bounds, err := s.doc.Bound(page - 1)
	if err != nil {
		return 0, 0, fmt.Errorf("bound page %d: %w", page, err)
	}
	return float64(bounds.Dx()), float64(bounds.Dy()), nil
}

func (s *fitzSource) Render(ctx context.Context, page int, scale float64) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if page < 1 || page > s.doc.NumPage() {
		return nil, domain.ErrPageOutOfRange
	}

	img, err := s.doc.ImageDPI(page-1, pointsPerInch*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	// MuPDF cannot be interrupted, so a cancelled render is dropped afterwards.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}

func (s *fitzSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.doc.Close()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
