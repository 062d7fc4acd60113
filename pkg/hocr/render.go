package hocr

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/textblock"
	"golang.org/x/net/html"
)

// RenderBlocks writes each block as an ocr_carea holding one paragraph of
// words in reading order, wrapped in a complete hOCR document.
func RenderBlocks(blocks []textblock.Block, page ocr.PageSize) string {
	var lines []string
	wordIndex := 0

	for i, block := range blocks {
		lines = append(lines, fmt.Sprintf(`<div class='ocr_carea' id='block_1_%d' title='%s'>`, i+1, bboxTitle(block.Bounds())))
		lines = append(lines, fmt.Sprintf(`<p class='ocr_par' id='par_1_%d'>`, i+1))

		for _, e := range readingOrder(block.Elements) {
			wordIndex++
			lines = append(lines, fmt.Sprintf(`<span class='ocrx_word' id='word_1_%d' title='%s'>%s</span>`,
				wordIndex, bboxTitle(e.Box), html.EscapeString(e.Text)))
		}

		lines = append(lines, "</p>", "</div>")
	}

	return WrapInHOCRDocument(strings.Join(lines, "\n"), page)
}

// WrapInHOCRDocument wraps content in a complete hOCR HTML document.
func WrapInHOCRDocument(content string, page ocr.PageSize) string {
	pageTitle := ""
	if page.Valid() {
		pageTitle = fmt.Sprintf(" title='bbox 0 0 %d %d'", round(page.Width), round(page.Height))
	}
	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
<head>
<title></title>
<meta http-equiv="Content-Type" content="text/html;charset=utf-8" />
<meta name='ocr-system' content='ocrgrid' />
<meta name='ocr-capabilities' content='ocr_page ocr_carea ocr_par ocrx_word' />
</head>
<body>
<div class='ocr_page' id='page_1'%s>
%s
</div>
</body>
</html>`, pageTitle, content)
}

func bboxTitle(b ocr.Box) string {
	return fmt.Sprintf("bbox %d %d %d %d", round(b.X), round(b.Y), round(b.X+b.Width), round(b.Y+b.Height))
}

func round(v float64) int {
	return int(math.Round(v))
}

func readingOrder(elements []ocr.Element) []ocr.Element {
	out := make([]ocr.Element, len(elements))
	copy(out, elements)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Box.Y != out[j].Box.Y {
			return out[i].Box.Y < out[j].Box.Y
		}
		return out[i].Box.X < out[j].Box.X
	})
	return out
}
