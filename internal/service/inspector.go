package service

import (
	"bytes"
	"fmt"
	"strings"

	"book-sanctuary/internal/domain"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo is what upload needs to know about a PDF.
type PDFInfo struct {
	PageCount int
}

// PDFInspector validates uploads before they are stored.
type PDFInspector interface {
	Inspect(data []byte) (*PDFInfo, error)
}

// PDFCPUInspector validates PDFs with pdfcpu in relaxed mode.
type PDFCPUInspector struct{}

func NewPDFCPUInspector() *PDFCPUInspector {
	api.DisableConfigDir()
	return &PDFCPUInspector{}
}

func (i *PDFCPUInspector) Inspect(data []byte) (*PDFInfo, error) {
	if len(data) == 0 {
		return nil, domain.ErrDocumentMissing
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if !bytes.Contains(head, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrDocumentCorrupt)
	}

	if err := api.Validate(bytes.NewReader(data), newPDFConfig()); err != nil {
		return nil, classifyPDFError(err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), newPDFConfig())
	if err != nil {
		return nil, classifyPDFError(err)
	}
	if pages < 1 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrDocumentCorrupt)
	}

	return &PDFInfo{PageCount: pages}, nil
}

// pdfcpu mutates the configuration while it works, so every call gets its own.
func newPDFConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func classifyPDFError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "password") {
		return fmt.Errorf("%w: %v", domain.ErrDocumentEncrypted, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrDocumentCorrupt, err)
}
