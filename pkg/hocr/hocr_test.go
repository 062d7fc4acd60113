package hocr

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/textblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected ocr.Box
		ok       bool
	}{
		{"plain", "bbox 10 20 110 40", ocr.Box{X: 10, Y: 20, Width: 100, Height: 20}, true},
		{"with confidence", "bbox 1 2 3 4; x_wconf 93", ocr.Box{X: 1, Y: 2, Width: 2, Height: 2}, true},
		{"bbox after other property", "image \"p.png\"; bbox 0 0 800 600", ocr.Box{Width: 800, Height: 600}, true},
		{"missing", "x_wconf 93", ocr.Box{}, false},
		{"malformed number", "bbox 1 2 x 4", ocr.Box{}, false},
		{"empty", "", ocr.Box{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, ok := ParseBBox(tt.title)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, box)
		})
	}
}

const sample = `<html><body>
<div class='ocr_page' id='page_1' title='image "scan.png"; bbox 0 0 1000 800'>
 <span class='ocr_line' title='bbox 10 10 300 40'>
  <span class='ocrx_word' title='bbox 10 10 100 40; x_wconf 90'>Name</span>
  <span class='ocrx_word' title='bbox 200 10 300 40'><strong>Price</strong></span>
 </span>
 <span class='ocrx_word'>no box</span>
 <span class='ocrx_word' title='bbox 10 60 100 90'>Tom &amp; Co</span>
</div>
</body></html>`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, ocr.PageSize{Width: 1000, Height: 800}, doc.Page)
	require.Len(t, doc.Elements, 3)

	assert.Equal(t, "Name", doc.Elements[0].Text)
	assert.Equal(t, 55.0, doc.Elements[0].X)
	assert.Equal(t, 25.0, doc.Elements[0].Y)
	assert.Equal(t, "Price", doc.Elements[1].Text)
	assert.Equal(t, "Tom & Co", doc.Elements[2].Text)
}

func TestRenderBlocksRoundTrip(t *testing.T) {
	blocks := []textblock.Block{
		{Elements: []ocr.Element{
			ocr.NewElement("world", ocr.Box{X: 60, Y: 0, Width: 50, Height: 20}),
			ocr.NewElement("<hello>", ocr.Box{X: 0, Y: 0, Width: 50, Height: 20}),
		}},
		{Elements: []ocr.Element{
			ocr.NewElement("A&B", ocr.Box{X: 0, Y: 300, Width: 40, Height: 20}),
		}},
	}

	out := RenderBlocks(blocks, ocr.PageSize{Width: 600, Height: 400})
	assert.Contains(t, out, "<div class='ocr_page' id='page_1' title='bbox 0 0 600 400'>")
	assert.Contains(t, out, "<div class='ocr_carea' id='block_1_1' title='bbox 0 0 110 20'>")
	assert.Contains(t, out, "&lt;hello&gt;")

	doc, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, ocr.PageSize{Width: 600, Height: 400}, doc.Page)
	require.Len(t, doc.Elements, 3)
	assert.Equal(t, "<hello>", doc.Elements[0].Text)
	assert.Equal(t, "world", doc.Elements[1].Text)
	assert.Equal(t, "A&B", doc.Elements[2].Text)
	assert.Equal(t, ocr.Box{X: 0, Y: 300, Width: 40, Height: 20}, doc.Elements[2].Box)
}

func TestWrapInHOCRDocumentWithoutPageSize(t *testing.T) {
	out := WrapInHOCRDocument("", ocr.PageSize{})
	assert.Contains(t, out, "<div class='ocr_page' id='page_1'>")
	assert.Contains(t, out, "<meta name='ocr-system' content='ocrgrid' />")
}
