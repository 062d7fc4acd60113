//go:build tesseract

package ocr

import (
	"image"
	"os"

	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"
)

// Tesseract recognizes words locally through libtesseract.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract client for the given languages
// ("eng", "eng+deu", ...). Close it when done.
func NewTesseract(languages string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if languages != "" {
		if err := client.SetLanguage(languages); err != nil {
			client.Close()
			return nil, errors.Wrap(err, "failed to set tesseract language")
		}
	}
	return &Tesseract{client: client}, nil
}

func (t *Tesseract) Close() error {
	return t.client.Close()
}

// Recognize returns the words found in the image at path.
func (t *Tesseract) Recognize(path string) ([]Element, PageSize, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, PageSize{}, errors.Wrap(err, "failed to read image")
	}
	if err := t.client.SetImageFromBytes(data); err != nil {
		return nil, PageSize{}, errors.Wrap(err, "failed to set image")
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, PageSize{}, errors.Wrap(err, "tesseract recognition failed")
	}

	elements := make([]Element, 0, len(boxes))
	for _, b := range boxes {
		elements = append(elements, NewElement(b.Word, rectBox(b.Box)))
	}

	var page PageSize
	if w, h, err := ImageSize(path); err == nil {
		page = PageSize{Width: float64(w), Height: float64(h)}
	}
	return elements, page, nil
}

func rectBox(r image.Rectangle) Box {
	return Box{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}
