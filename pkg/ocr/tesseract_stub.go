//go:build !tesseract

package ocr

import "github.com/pkg/errors"

// ErrTesseractNotEnabled is returned when the binary was built without the
// "tesseract" build tag. Rebuild with
//
//	go build -tags tesseract
//
// after installing libtesseract (apt-get install libtesseract-dev).
var ErrTesseractNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags tesseract")

// Tesseract is unavailable in this build.
type Tesseract struct{}

func NewTesseract(languages string) (*Tesseract, error) {
	return nil, ErrTesseractNotEnabled
}

func (t *Tesseract) Close() error {
	return nil
}

func (t *Tesseract) Recognize(path string) ([]Element, PageSize, error) {
	return nil, PageSize{}, ErrTesseractNotEnabled
}
