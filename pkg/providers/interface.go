// Package providers selects the OCR engine that turns a page image into
// positioned words.
package providers

import (
	"context"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
)

// Provider interface that all OCR engines must implement
type Provider interface {
	// Recognize returns the words found on the image and the page size in
	// the same pixel space as their boxes.
	Recognize(ctx context.Context, imagePath string) ([]ocr.Element, ocr.PageSize, error)
	// Name returns the engine name used to select it
	Name() string
}

// Vision recognizes pages with Google Cloud Vision document text detection.
// A client is opened per call, so the zero value with an APIKey is ready to use.
type Vision struct {
	APIKey string
}

func (v Vision) Name() string {
	return "vision"
}

func (v Vision) Recognize(ctx context.Context, imagePath string) ([]ocr.Element, ocr.PageSize, error) {
	client, err := ocr.NewVisionClient(ctx, v.APIKey)
	if err != nil {
		return nil, ocr.PageSize{}, err
	}
	defer client.Close()

	return client.Recognize(ctx, imagePath)
}

// Tesseract recognizes pages with a local libtesseract. Binaries built
// without the tesseract tag report ocr.ErrTesseractNotEnabled.
type Tesseract struct {
	Languages string
}

func (t Tesseract) Name() string {
	return "tesseract"
}

func (t Tesseract) Recognize(ctx context.Context, imagePath string) ([]ocr.Element, ocr.PageSize, error) {
	if err := ctx.Err(); err != nil {
		return nil, ocr.PageSize{}, err
	}

	client, err := ocr.NewTesseract(t.Languages)
	if err != nil {
		return nil, ocr.PageSize{}, err
	}
	defer client.Close()

	return client.Recognize(imagePath)
}
