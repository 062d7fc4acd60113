// Package ocr holds the recognized-text model consumed by the structuring
// engine and the adapters that produce it from OCR services and documents.
package ocr

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Box is an axis-aligned bounding box. X and Y are the top-left corner.
type Box struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

func (b Box) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Intersection returns the overlapping region of b and o and whether it has
// a positive area.
func (b Box) Intersection(o Box) (Box, bool) {
	x0 := math.Max(b.X, o.X)
	y0 := math.Max(b.Y, o.Y)
	x1 := math.Min(b.X+b.Width, o.X+o.Width)
	y1 := math.Min(b.Y+b.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Box{}, false
	}
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	x0 := math.Min(b.X, o.X)
	y0 := math.Min(b.Y, o.Y)
	x1 := math.Max(b.X+b.Width, o.X+o.Width)
	y1 := math.Max(b.Y+b.Height, o.Y+o.Height)
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Element is one recognized text fragment. X and Y are the position used
// for row and column clustering; Box is used by block grouping.
type Element struct {
	Text string  `json:"text" yaml:"text"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Box  Box     `json:"box" yaml:"box"`
}

// NewElement builds an element positioned at the center of box.
func NewElement(text string, box Box) Element {
	x, y := box.Center()
	return Element{Text: CleanText(text), X: x, Y: y, Box: box}
}

// PageSize is the coordinate space an element set was measured in.
type PageSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (p PageSize) Valid() bool {
	return p.Width > 0 && p.Height > 0
}

// Normalize rescales positions and boxes into [0,1] relative to page. It
// returns the elements unchanged when page has no usable size.
func Normalize(elements []Element, page PageSize) []Element {
	if !page.Valid() {
		return elements
	}
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = Element{
			Text: e.Text,
			X:    e.X / page.Width,
			Y:    e.Y / page.Height,
			Box: Box{
				X:      e.Box.X / page.Width,
				Y:      e.Box.Y / page.Height,
				Width:  e.Box.Width / page.Width,
				Height: e.Box.Height / page.Height,
			},
		}
	}
	return out
}

// Extent returns the page size spanned by the elements, used when the source
// does not report one.
func Extent(elements []Element) PageSize {
	var p PageSize
	for _, e := range elements {
		p.Width = math.Max(p.Width, math.Max(e.X, e.Box.X+e.Box.Width))
		p.Height = math.Max(p.Height, math.Max(e.Y, e.Box.Y+e.Box.Height))
	}
	return p
}

// CleanText trims recognizer output and puts it in Unicode NFC so that
// visually identical cells compare equal.
func CleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// HasText reports whether any element carries non-whitespace text.
func HasText(elements []Element) bool {
	for _, e := range elements {
		if strings.TrimSpace(e.Text) != "" {
			return true
		}
	}
	return false
}
