// Package grid places OCR elements into a row/column matrix and serializes it.
package grid

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/cluster"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
)

// DefaultSeparator joins the cells of a row in Format.
const DefaultSeparator = ";"

// Grid is a rectangular matrix of cell texts. Cells no element maps to stay
// empty.
type Grid struct {
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Cells [][]string `json:"cells"`
}

// New returns a rows x cols grid of empty cells.
func New(rows, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	return Grid{Rows: rows, Cols: cols, Cells: cells}
}

// Assemble places each element in the cell of the first row center within
// rowTol of its Y and the first column center within colTol of its X.
// Elements matching no row or no column are dropped; this loss is expected
// for stray marks outside the table and is reported through the second
// return value. Several elements in one cell are joined with a space in
// input order.
func Assemble(elements []ocr.Element, rowCenters, colCenters []float64, rowTol, colTol float64) (Grid, int) {
	rows := make([]int, len(elements))
	cols := make([]int, len(elements))
	for i, e := range elements {
		rows[i] = Match(e.Y, rowCenters, rowTol)
		cols[i] = Match(e.X, colCenters, colTol)
	}
	return Place(elements, rows, cols, len(rowCenters), len(colCenters))
}

// Place puts elements[i] in cell (rows[i], cols[i]) of a nrows x ncols
// grid. An index outside the grid drops the element and is counted in the
// second return value. Texts sharing a cell are joined with a space in input
// order.
func Place(elements []ocr.Element, rows, cols []int, nrows, ncols int) (Grid, int) {
	g := New(nrows, ncols)
	dropped := 0

	for i, e := range elements {
		r, c := -1, -1
		if i < len(rows) {
			r = rows[i]
		}
		if i < len(cols) {
			c = cols[i]
		}
		if r < 0 || r >= g.Rows || c < 0 || c >= g.Cols {
			dropped++
			continue
		}
		if e.Text == "" {
			continue
		}
		if g.Cells[r][c] == "" {
			g.Cells[r][c] = e.Text
		} else {
			g.Cells[r][c] += " " + e.Text
		}
	}

	return g, dropped
}

// Match returns the index of the first center within tol of v, or -1.
func Match(v float64, centers []float64, tol float64) int {
	for i, c := range centers {
		d := v - c
		if d < 0 {
			d = -d
		}
		if d <= tol {
			return i
		}
	}
	return -1
}

// Empty reports whether no cell holds non-whitespace text.
func (g Grid) Empty() bool {
	for _, row := range g.Cells {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return false
			}
		}
	}
	return true
}

// Format joins cells with sep and rows with newlines. The second result is
// false when the grid carries no text, meaning no table was detected and
// nothing should be written.
func (g Grid) Format(sep string) (string, bool) {
	if g.Empty() {
		return "", false
	}
	rows := make([]string, len(g.Cells))
	for i, row := range g.Cells {
		rows[i] = strings.Join(row, sep)
	}
	return strings.Join(rows, "\n"), true
}

// WriteCSV writes the grid as RFC 4180 CSV.
func (g Grid) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(g.Cells); err != nil {
		return err
	}
	return cw.Error()
}

// Parse reads a grid previously produced by Format.
func Parse(text, sep string) Grid {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return Grid{}
	}
	lines := strings.Split(text, "\n")
	g := Grid{Rows: len(lines), Cells: make([][]string, len(lines))}
	for i, line := range lines {
		g.Cells[i] = strings.Split(line, sep)
		g.Cols = max(g.Cols, len(g.Cells[i]))
	}
	for i, row := range g.Cells {
		for len(row) < g.Cols {
			row = append(row, "")
		}
		g.Cells[i] = row
	}
	return g
}

// Centers returns the mean position of every non-noise cluster in labels,
// sorted ascending so rows read top to bottom and columns left to right.
func Centers(values []float64, labels []int) []float64 {
	centers, _ := Positions(values, labels)
	return centers
}

// Positions returns the sorted cluster centers, as Centers does, and for
// every value the index of its own cluster's center. Noise values get -1.
// Placing by label keeps every member of a cluster together even when the
// cluster was chained wider than its radius around the mean.
func Positions(values []float64, labels []int) ([]float64, []int) {
	if len(labels) > len(values) {
		labels = labels[:len(values)]
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, l := range labels {
		if l == cluster.Noise {
			continue
		}
		sums[l] += values[i]
		counts[l]++
	}

	// dense ids first, so the ordering below is over 0..k-1
	dense := cluster.NormalizeLabels(keys(counts))
	means := make([]float64, len(dense))
	for l, id := range dense {
		means[id] = sums[l] / float64(counts[l])
	}

	order := make([]int, len(means))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return means[order[a]] < means[order[b]]
	})

	centers := make([]float64, len(order))
	rankOf := make([]int, len(order))
	for r, id := range order {
		centers[r] = means[id]
		rankOf[id] = r
	}
	rank := make(map[int]int, len(dense))
	for l, id := range dense {
		rank[l] = rankOf[id]
	}

	index := cluster.Relabel(labels, rank)
	for len(index) < len(values) {
		index = append(index, cluster.Noise)
	}
	return centers, index
}

func keys(m map[int]int) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
