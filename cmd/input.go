package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/ocrgrid/internal/utils"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/hocr"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/providers"
	"github.com/spf13/cobra"
)

// source selects where OCR elements come from: a saved file or an image
// recognized on the fly.
type source struct {
	input  string
	image  string
	engine string
	lang   string
}

func addSourceFlags(c *cobra.Command, s *source) {
	c.Flags().StringVarP(&s.input, "input", "i", "", "OCR result to structure (.json, .yaml, .hocr)")
	c.Flags().StringVar(&s.image, "image", "", "Image to recognize instead of reading --input")
	c.Flags().StringVar(&s.engine, "engine", "vision", "OCR engine for --image: vision, tesseract")
	c.Flags().StringVar(&s.lang, "lang", "eng", "Tesseract language(s)")
	c.MarkFlagsOneRequired("input", "image")
	c.MarkFlagsMutuallyExclusive("input", "image")
}

func (s source) load(ctx context.Context) (ocr.Document, error) {
	if s.input != "" {
		return readDocument(s.input)
	}

	if _, err := os.Stat(s.image); os.IsNotExist(err) {
		return ocr.Document{}, fmt.Errorf("input image file does not exist: %s", s.image)
	}

	registry := providers.NewDefaultRegistry(os.Getenv("GOOGLE_API_KEY"), s.lang)
	provider, err := registry.Get(s.engine)
	if err != nil {
		return ocr.Document{}, err
	}

	elements, page, err := provider.Recognize(ctx, s.image)
	if err != nil {
		return ocr.Document{}, utils.MaskSensitiveError(fmt.Errorf("%s recognition failed: %w", provider.Name(), err))
	}

	slog.Info("Recognized image", "image", s.image, "engine", provider.Name(), "word_count", len(elements))
	return ocr.Document{Page: page, Elements: elements}, nil
}

func readDocument(path string) (ocr.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".hocr", ".html", ".htm", ".xhtml":
		f, err := os.Open(path)
		if err != nil {
			return ocr.Document{}, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		return hocr.Parse(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ocr.Document{}, fmt.Errorf("failed to read input: %w", err)
	}

	switch ext {
	case ".json":
		return ocr.DecodeJSON(data)
	case ".yaml", ".yml":
		return ocr.DecodeYAML(data)
	default:
		return ocr.Document{}, fmt.Errorf("unsupported input format: %s", ext)
	}
}

func outputResult(path, content string) error {
	if path != "" {
		return os.WriteFile(path, []byte(content), 0644)
	}
	fmt.Print(content)
	return nil
}
