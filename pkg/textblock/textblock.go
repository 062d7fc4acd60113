// Package textblock rebuilds free-form text structure by grouping OCR
// elements into connected components of nearby or overlapping boxes.
package textblock

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/tidwall/rtree"
)

// Params controls the adjacency rule. Both values are in the units of the
// element boxes.
type Params struct {
	// DistanceThreshold connects elements whose box centers are closer
	// than this.
	DistanceThreshold float64 `yaml:"distance_threshold"`
	// OverlapThreshold connects intersecting elements whose intersection
	// covers at least this fraction of the smaller box.
	OverlapThreshold float64 `yaml:"overlap_threshold"`
}

// DefaultParams suits word boxes measured in pixels on a 300 dpi scan.
func DefaultParams() Params {
	return Params{
		DistanceThreshold: 50,
		OverlapThreshold:  0.1,
	}
}

// Block is one connected group of elements, kept in input order.
type Block struct {
	Elements []ocr.Element
}

// Bounds returns the union of the member boxes.
func (b Block) Bounds() ocr.Box {
	if len(b.Elements) == 0 {
		return ocr.Box{}
	}
	box := b.Elements[0].Box
	for _, e := range b.Elements[1:] {
		box = box.Union(e.Box)
	}
	return box
}

// Text returns the member texts in reading order (top to bottom, then left
// to right), one per line.
func (b Block) Text() string {
	ordered := make([]ocr.Element, len(b.Elements))
	copy(ordered, b.Elements)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Box.Y != ordered[j].Box.Y {
			return ordered[i].Box.Y < ordered[j].Box.Y
		}
		return ordered[i].Box.X < ordered[j].Box.X
	})

	lines := make([]string, 0, len(ordered))
	for _, e := range ordered {
		if e.Text == "" {
			continue
		}
		lines = append(lines, e.Text)
	}
	return strings.Join(lines, "\n")
}

// Cluster partitions elements into connected components. Two elements are
// adjacent when their centers are closer than p.DistanceThreshold, or when
// their boxes intersect and the overlap ratio (intersection area over the
// smaller box area) is at least p.OverlapThreshold. Blocks are returned in
// the order their first element appears in the input.
func Cluster(elements []ocr.Element, p Params) []Block {
	if len(elements) == 0 {
		return nil
	}

	var tr rtree.RTreeG[int]
	for i, e := range elements {
		lo, hi := bounds(e.Box, 0)
		tr.Insert(lo, hi, i)
	}

	visited := make([]bool, len(elements))
	var blocks []Block

	for seed := range elements {
		if visited[seed] {
			continue
		}
		visited[seed] = true

		members := []int{seed}
		for k := 0; k < len(members); k++ {
			cur := members[k]
			for _, j := range neighbours(&tr, elements, cur, p) {
				if visited[j] {
					continue
				}
				visited[j] = true
				members = append(members, j)
			}
		}

		sort.Ints(members)
		block := Block{Elements: make([]ocr.Element, len(members))}
		for i, idx := range members {
			block.Elements[i] = elements[idx]
		}
		blocks = append(blocks, block)
	}

	return blocks
}

// neighbours returns the indices adjacent to elements[i] in ascending order.
// The search window is the box inflated by the distance threshold, which
// contains every box that intersects it or whose center is close enough.
func neighbours(tr *rtree.RTreeG[int], elements []ocr.Element, i int, p Params) []int {
	lo, hi := bounds(elements[i].Box, math.Max(p.DistanceThreshold, 0))

	var out []int
	tr.Search(lo, hi, func(_, _ [2]float64, j int) bool {
		if j != i && Adjacent(elements[i], elements[j], p) {
			out = append(out, j)
		}
		return true
	})
	sort.Ints(out)
	return out
}

// Adjacent reports whether a and b are connected under p.
func Adjacent(a, b ocr.Element, p Params) bool {
	ax, ay := a.Box.Center()
	bx, by := b.Box.Center()
	if math.Hypot(ax-bx, ay-by) < p.DistanceThreshold {
		return true
	}
	if _, ok := a.Box.Intersection(b.Box); !ok {
		return false
	}
	return OverlapRatio(a.Box, b.Box) >= p.OverlapThreshold
}

// OverlapRatio is the intersection area divided by the smaller box area, or
// 0 when the boxes do not intersect.
func OverlapRatio(a, b ocr.Box) float64 {
	inter, ok := a.Intersection(b)
	if !ok {
		return 0
	}
	smaller := math.Min(a.Area(), b.Area())
	if smaller <= 0 {
		return 0
	}
	return inter.Area() / smaller
}

func bounds(b ocr.Box, pad float64) ([2]float64, [2]float64) {
	x0 := math.Min(b.X, b.X+b.Width)
	y0 := math.Min(b.Y, b.Y+b.Height)
	x1 := math.Max(b.X, b.X+b.Width)
	y1 := math.Max(b.Y, b.Y+b.Height)
	return [2]float64{x0 - pad, y0 - pad}, [2]float64{x1 + pad, y1 + pad}
}

// Format renders blocks as labelled sections separated by blank lines.
func Format(blocks []Block) string {
	sections := make([]string, 0, len(blocks))
	for i, b := range blocks {
		sections = append(sections, fmt.Sprintf("Block %d:\n%s", i+1, b.Text()))
	}
	return strings.Join(sections, "\n\n")
}
