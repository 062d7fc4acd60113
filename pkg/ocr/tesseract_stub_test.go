//go:build !tesseract

package ocr

import (
	"errors"
	"testing"
)

func TestNewTesseractReturnsError(t *testing.T) {
	client, err := NewTesseract("eng")
	if !errors.Is(err, ErrTesseractNotEnabled) {
		t.Errorf("expected ErrTesseractNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("expected nil client when tesseract is disabled")
	}
}
