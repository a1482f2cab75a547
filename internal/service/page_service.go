package service

import (
	"context"
	"image"

	"book-sanctuary/internal/domain"
	"book-sanctuary/internal/render"
)

// DocumentOpener resolves and downloads a readable document.
type DocumentOpener interface {
	OpenContent(ctx context.Context, sess *domain.Session, id string) (*domain.Document, []byte, error)
}

// PageService renders single themed pages without a reading session.
type PageService struct {
	documents DocumentOpener
	decoder   render.Decoder
	maxWidth  int
	logger    domain.Logger
}

func NewPageService(documents DocumentOpener, decoder render.Decoder, maxWidth int, logger domain.Logger) *PageService {
	return &PageService{
		documents: documents,
		decoder:   decoder,
		maxWidth:  maxWidth,
		logger:    logger,
	}
}

func (s *PageService) RenderPage(ctx context.Context, sess *domain.Session, documentID string, page int, opts domain.RenderOptions) (image.Image, error) {
	doc, data, err := s.documents.OpenContent(ctx, sess, documentID)
	if err != nil {
		return nil, err
	}

	source, err := s.decoder.Open(data)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	raster, err := render.Rasterize(ctx, source, page, opts.ContainerWidth, s.maxWidth)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = render.SeedFor(sess.UserID, doc.ID) + uint64(page)
	}
	return render.Process(raster.Image, opts.Theme, render.Options{Vintage: opts.Vintage, Seed: seed}), nil
}
