// Package hocr reads word boxes from hOCR documents and writes text blocks
// back out as hOCR.
package hocr

import (
	"io"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Parse extracts every ocrx_word span as an element. The page size is taken
// from the first ocr_page bbox when present.
func Parse(r io.Reader) (ocr.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return ocr.Document{}, errors.Wrap(err, "failed to parse hOCR")
	}

	var doc ocr.Document
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			classes := strings.Fields(attr(n, "class"))
			switch {
			case hasClass(classes, "ocr_page") && !doc.Page.Valid():
				if box, ok := ParseBBox(attr(n, "title")); ok {
					doc.Page = ocr.PageSize{Width: box.X + box.Width, Height: box.Y + box.Height}
				}
			case hasClass(classes, "ocrx_word"):
				if box, ok := ParseBBox(attr(n, "title")); ok {
					doc.Elements = append(doc.Elements, ocr.NewElement(textContent(n), box))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return doc, nil
}

// ParseBBox reads the "bbox x0 y0 x1 y1" property from an hOCR title
// attribute. Other properties separated by ';' are ignored.
func ParseBBox(title string) (ocr.Box, bool) {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(prop)
		if len(fields) != 5 || fields[0] != "bbox" {
			continue
		}
		var v [4]float64
		for i, f := range fields[1:] {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return ocr.Box{}, false
			}
			v[i] = n
		}
		return ocr.Box{X: v[0], Y: v[1], Width: v[2] - v[0], Height: v[3] - v[1]}, true
	}
	return ocr.Box{}, false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(classes []string, name string) bool {
	for _, c := range classes {
		if c == name {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
