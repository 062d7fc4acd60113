package ocr

import (
	"context"
	"log/slog"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// VisionClient runs document text detection against Google Cloud Vision.
type VisionClient struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionClient connects to Cloud Vision. An empty apiKey falls back to
// application default credentials.
func NewVisionClient(ctx context.Context, apiKey string) (*VisionClient, error) {
	var opts []option.ClientOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	c, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create vision client")
	}
	return &VisionClient{client: c}, nil
}

func (v *VisionClient) Close() error {
	return v.client.Close()
}

// Recognize annotates the image at path and returns its words as elements
// with the page size reported by the service.
func (v *VisionClient) Recognize(ctx context.Context, path string) ([]Element, PageSize, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, PageSize{}, errors.Wrap(err, "failed to read image")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, PageSize{}, errors.Wrap(err, "vision annotate request failed")
	}
	if len(resp.GetResponses()) == 0 {
		return nil, PageSize{}, errors.New("vision returned no responses")
	}

	r := resp.GetResponses()[0]
	if st := r.GetError(); st != nil && st.GetCode() != 0 {
		return nil, PageSize{}, errors.Errorf("vision error %d: %s", st.GetCode(), st.GetMessage())
	}

	elements, page := elementsFromAnnotation(r.GetFullTextAnnotation())
	if !page.Valid() {
		if w, h, err := ImageSize(path); err == nil {
			page = PageSize{Width: float64(w), Height: float64(h)}
		}
	}

	slog.Debug("Vision annotation completed", "image", path, "word_count", len(elements))
	return elements, page, nil
}

func elementsFromAnnotation(a *visionpb.TextAnnotation) ([]Element, PageSize) {
	if a == nil || len(a.GetPages()) == 0 {
		return nil, PageSize{}
	}

	page := a.GetPages()[0]
	var elements []Element
	for _, block := range page.GetBlocks() {
		for _, paragraph := range block.GetParagraphs() {
			for _, word := range paragraph.GetWords() {
				box, ok := polyBox(word.GetBoundingBox())
				if !ok {
					continue
				}
				var text string
				for _, s := range word.GetSymbols() {
					text += s.GetText()
				}
				elements = append(elements, NewElement(text, box))
			}
		}
	}

	return elements, PageSize{Width: float64(page.GetWidth()), Height: float64(page.GetHeight())}
}

func polyBox(p *visionpb.BoundingPoly) (Box, bool) {
	vs := p.GetVertices()
	if len(vs) == 0 {
		return Box{}, false
	}
	poly := BoundingPoly{Vertices: make([]Vertex, len(vs))}
	for i, v := range vs {
		poly.Vertices[i] = Vertex{X: int(v.GetX()), Y: int(v.GetY())}
	}
	return poly.Box()
}
