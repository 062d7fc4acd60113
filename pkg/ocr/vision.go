package ocr

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// VisionResponse mirrors the JSON body returned by the Google Vision
// images:annotate endpoint for DOCUMENT_TEXT_DETECTION.
type VisionResponse struct {
	Responses []Response `json:"responses"`
}

type Response struct {
	FullTextAnnotation *FullTextAnnotation `json:"fullTextAnnotation"`
}

type FullTextAnnotation struct {
	Pages []Page `json:"pages"`
	Text  string `json:"text"`
}

type Page struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Blocks []Block `json:"blocks"`
}

type Block struct {
	BoundingBox BoundingPoly `json:"boundingBox"`
	Paragraphs  []Paragraph  `json:"paragraphs"`
	BlockType   string       `json:"blockType"`
}

type Paragraph struct {
	BoundingBox BoundingPoly `json:"boundingBox"`
	Words       []Word       `json:"words"`
}

type Word struct {
	BoundingBox BoundingPoly `json:"boundingBox"`
	Symbols     []Symbol     `json:"symbols"`
}

type Symbol struct {
	BoundingBox BoundingPoly `json:"boundingBox"`
	Text        string       `json:"text"`
}

type BoundingPoly struct {
	Vertices []Vertex `json:"vertices"`
}

// Vertex coordinates are omitted by the API when zero.
type Vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Box returns the axis-aligned box enclosing the polygon.
func (p BoundingPoly) Box() (Box, bool) {
	if len(p.Vertices) == 0 {
		return Box{}, false
	}
	minX, minY := p.Vertices[0].X, p.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range p.Vertices[1:] {
		minX = min(minX, v.X)
		minY = min(minY, v.Y)
		maxX = max(maxX, v.X)
		maxY = max(maxY, v.Y)
	}
	return Box{
		X:      float64(minX),
		Y:      float64(minY),
		Width:  float64(maxX - minX),
		Height: float64(maxY - minY),
	}, true
}

// Text joins the symbols of a word.
func (w Word) Text() string {
	var sb strings.Builder
	for _, s := range w.Symbols {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Elements flattens the first annotated page into word elements in the order
// the API reported them, together with the page size.
func (r VisionResponse) Elements() ([]Element, PageSize) {
	if len(r.Responses) == 0 || r.Responses[0].FullTextAnnotation == nil {
		return nil, PageSize{}
	}
	pages := r.Responses[0].FullTextAnnotation.Pages
	if len(pages) == 0 {
		return nil, PageSize{}
	}

	page := pages[0]
	var elements []Element
	for _, block := range page.Blocks {
		for _, paragraph := range block.Paragraphs {
			for _, word := range paragraph.Words {
				box, ok := word.BoundingBox.Box()
				if !ok {
					continue
				}
				elements = append(elements, NewElement(word.Text(), box))
			}
		}
	}

	return elements, PageSize{Width: float64(page.Width), Height: float64(page.Height)}
}

// ParseVisionJSON decodes a saved images:annotate response.
func ParseVisionJSON(data []byte) (VisionResponse, error) {
	var resp VisionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return VisionResponse{}, errors.Wrap(err, "failed to decode vision response")
	}
	return resp, nil
}
