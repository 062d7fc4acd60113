// Package structure turns a page of OCR elements into a table grid by
// clustering the row (y) and column (x) axes independently.
package structure

import (
	"log/slog"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/cluster"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/grid"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
)

// Params configures one structuring call. A tolerance of 0 places each
// element by the cluster it was assigned to; a positive tolerance places it
// at the first center within that distance instead.
type Params struct {
	MinSamples       int       `yaml:"min_samples"`
	RowCandidates    []float64 `yaml:"row_candidates"`
	ColumnCandidates []float64 `yaml:"column_candidates"`
	RowTolerance     float64   `yaml:"row_tolerance"`
	ColumnTolerance  float64   `yaml:"column_tolerance"`
	ProximityRadius  float64   `yaml:"proximity_radius"`
	Separator        string    `yaml:"separator"`
	// Normalize rescales coordinates to [0,1] of the page before
	// clustering, so the default candidates apply to any page size.
	Normalize bool `yaml:"normalize"`
}

// DefaultParams returns parameters for page-normalized coordinates.
func DefaultParams() Params {
	return Params{
		MinSamples:       1,
		RowCandidates:    cluster.Candidates(0.005, 0.005, 10),
		ColumnCandidates: cluster.Candidates(0.005, 0.005, 10),
		ProximityRadius:  0.05,
		Separator:        grid.DefaultSeparator,
		Normalize:        true,
	}
}

// Result holds both axis clusterings and the assembled grid. When neither
// axis yields a partition the page is treated as untabulated: Fallback is
// set, Groups holds the proximity grouping and Grid is empty.
type Result struct {
	Rows     cluster.Result[float64]
	Columns  cluster.Result[float64]
	Grid     grid.Grid
	Dropped  int
	Fallback bool
	Groups   [][]ocr.Element
}

// Format serializes the grid with sep; false means no table was detected.
func (r Result) Format(sep string) (string, bool) {
	if sep == "" {
		sep = grid.DefaultSeparator
	}
	return r.Grid.Format(sep)
}

// Build structures elements into a grid. Elements are expected to share one
// coordinate space; normalize them first when p.Normalize is set.
func Build(elements []ocr.Element, p Params) Result {
	if len(elements) == 0 {
		return Result{
			Rows:    cluster.Result[float64]{Score: cluster.NoPartition},
			Columns: cluster.Result[float64]{Score: cluster.NoPartition},
		}
	}

	xs := make([]float64, len(elements))
	ys := make([]float64, len(elements))
	for i, e := range elements {
		xs[i] = e.X
		ys[i] = e.Y
	}

	rows := cluster.BestEps(ys, p.RowCandidates, p.MinSamples)
	cols := cluster.BestEps(xs, p.ColumnCandidates, p.MinSamples)
	slog.Debug("Axis clustering completed",
		"row_eps", rows.Eps, "row_score", rows.Score,
		"column_eps", cols.Eps, "column_score", cols.Score)

	res := Result{Rows: rows, Columns: cols}

	if !rows.Found() && !cols.Found() {
		slog.Info("No row or column partition found, grouping by proximity", "elements", len(elements))
		res.Fallback = true
		res.Groups = GroupElements(elements, p.ProximityRadius)
		return res
	}

	rowIndex, nrows := axis(ys, rows, p.RowTolerance)
	colIndex, ncols := axis(xs, cols, p.ColumnTolerance)

	res.Grid, res.Dropped = grid.Place(elements, rowIndex, colIndex, nrows, ncols)
	if res.Dropped > 0 {
		slog.Info("Dropped elements outside the detected grid", "dropped", res.Dropped)
	}
	return res
}

// BuildDocument is Build with the page normalization requested by p. Pages
// without a reported size are normalized to the extent of their elements.
func BuildDocument(doc ocr.Document, p Params) Result {
	elements := doc.Elements
	if p.Normalize {
		page := doc.Page
		if !page.Valid() {
			page = ocr.Extent(elements)
		}
		elements = ocr.Normalize(elements, page)
	}
	return Build(elements, p)
}

// axis returns, for every value, the row or column it belongs to, and the
// number of rows or columns. Without a partition the axis collapses to a
// single row or column that accepts every element. With an explicit
// tolerance values go to the first center within it. Otherwise each value
// follows its own cluster label, and only noise values are matched to a
// center within the chosen radius.
func axis(values []float64, r cluster.Result[float64], tol float64) ([]int, int) {
	index := make([]int, len(values))
	if !r.Found() {
		return index, 1
	}

	centers, byLabel := grid.Positions(values, r.Labels)
	for i, v := range values {
		switch {
		case tol > 0:
			index[i] = grid.Match(v, centers, tol)
		case byLabel[i] != cluster.Noise:
			index[i] = byLabel[i]
		default:
			index[i] = grid.Match(v, centers, float64(r.Eps))
		}
	}
	return index, len(centers)
}

// GroupElements partitions elements with the seed-based proximity grouper.
func GroupElements(elements []ocr.Element, radius float64) [][]ocr.Element {
	points := make([]cluster.Point[float64], len(elements))
	for i, e := range elements {
		points[i] = cluster.Point[float64]{X: e.X, Y: e.Y}
	}

	var groups [][]ocr.Element
	for _, idx := range cluster.GroupByRadius(points, radius) {
		group := make([]ocr.Element, len(idx))
		for i, j := range idx {
			group[i] = elements[j]
		}
		groups = append(groups, group)
	}
	return groups
}
