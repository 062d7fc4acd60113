package structure

import (
	"sort"
	"testing"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/cluster"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func el(text string, x, y float64) ocr.Element {
	return ocr.Element{Text: text, X: x, Y: y}
}

func TestBuildTwoByTwo(t *testing.T) {
	elements := []ocr.Element{
		el("A", 0, 0), el("1", 0.05, 0), el("B", 0, 1), el("2", 0.05, 1),
	}

	res := Build(elements, DefaultParams())
	require.False(t, res.Fallback)
	assert.True(t, res.Rows.Found())
	assert.True(t, res.Columns.Found())
	assert.Equal(t, 0, res.Dropped)

	text, ok := res.Format(";")
	require.True(t, ok)
	assert.Equal(t, "A;1\nB;2", text)
}

func TestBuildShuffledInputKeepsLayout(t *testing.T) {
	elements := []ocr.Element{
		el("6", 0.803, 0.402), el("Name", 0.1, 0.2), el("3", 0.8, 0.3),
		el("Qty", 0.8, 0.201), el("Apple", 0.103, 0.3), el("Pear", 0.1, 0.4),
		el("Price", 0.5, 0.2), el("1.00", 0.502, 0.301), el("0.50", 0.499, 0.4),
	}

	res := Build(elements, DefaultParams())
	require.False(t, res.Fallback)

	text, ok := res.Format("")
	require.True(t, ok)
	assert.Equal(t, "Name;Price;Qty\nApple;1.00;3\nPear;0.50;6", text)
}

func TestBuildSingleRowFallsBackOnRowAxis(t *testing.T) {
	elements := []ocr.Element{el("a", 0.1, 0.5), el("b", 0.5, 0.5), el("c", 0.9, 0.501)}

	res := Build(elements, DefaultParams())
	assert.False(t, res.Rows.Found())
	assert.True(t, res.Columns.Found())
	assert.False(t, res.Fallback)

	text, ok := res.Format(",")
	require.True(t, ok)
	assert.Equal(t, "a,b,c", text)
}

func TestBuildFallsBackToProximityGroups(t *testing.T) {
	elements := []ocr.Element{el("a", 0.5, 0.5), el("b", 0.501, 0.5), el("c", 0.502, 0.501)}

	res := Build(elements, DefaultParams())
	require.True(t, res.Fallback)
	assert.Equal(t, cluster.NoPartition, res.Rows.Score)
	assert.Equal(t, cluster.NoPartition, res.Columns.Score)
	require.Len(t, res.Groups, 1)
	assert.Len(t, res.Groups[0], 3)

	_, ok := res.Format(";")
	assert.False(t, ok)
}

func TestBuildEmpty(t *testing.T) {
	res := Build(nil, DefaultParams())
	assert.False(t, res.Fallback)
	assert.Equal(t, 0, res.Grid.Rows)
	_, ok := res.Format(";")
	assert.False(t, ok)
}

func TestBuildWhitespaceOnlyIsNoTable(t *testing.T) {
	elements := []ocr.Element{el(" ", 0, 0), el("", 0.5, 0), el("  ", 0, 0.5), el("", 0.5, 0.5)}
	res := Build(elements, DefaultParams())
	require.False(t, res.Fallback)
	assert.Equal(t, 2, res.Grid.Rows)

	_, ok := res.Format(";")
	assert.False(t, ok)
}

func TestBuildDeterministic(t *testing.T) {
	elements := []ocr.Element{
		el("a", 0.1, 0.1), el("b", 0.3, 0.1), el("c", 0.52, 0.12), el("d", 0.1, 0.3),
		el("e", 0.31, 0.29), el("f", 0.5, 0.3), el("g", 0.11, 0.5), el("h", 0.5, 0.52),
	}
	first := Build(elements, DefaultParams())
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Build(elements, DefaultParams()))
	}
}

func TestBuildDocumentNormalizes(t *testing.T) {
	doc := ocr.Document{
		Page: ocr.PageSize{Width: 1000, Height: 1000},
		Elements: []ocr.Element{
			el("A", 100, 100), el("1", 500, 101), el("B", 102, 400), el("2", 500, 400),
		},
	}

	res := BuildDocument(doc, DefaultParams())
	text, ok := res.Format(";")
	require.True(t, ok)
	assert.Equal(t, "A;1\nB;2", text)

	p := DefaultParams()
	p.Normalize = false
	res = BuildDocument(doc, p)
	assert.Equal(t, 3, res.Grid.Rows, "pixel jitter exceeds the normalized candidates")
	assert.Equal(t, 3, res.Grid.Cols)
}

func TestBuildDocumentUsesExtentWithoutPage(t *testing.T) {
	doc := ocr.Document{Elements: []ocr.Element{
		el("A", 10, 10), el("1", 200, 10), el("B", 10, 300), el("2", 200, 300),
	}}
	res := BuildDocument(doc, DefaultParams())
	text, ok := res.Format(";")
	require.True(t, ok)
	assert.Equal(t, "A;1\nB;2", text)
}

func TestGroupElementsPartitions(t *testing.T) {
	elements := []ocr.Element{
		el("a", 0, 0), el("b", 0.01, 0), el("c", 0.5, 0.5), el("d", 0.03, 0.03), el("e", 0.9, 0.9),
	}
	groups := GroupElements(elements, 0.05)

	var texts []string
	for _, g := range groups {
		for _, e := range g {
			texts = append(texts, e.Text)
		}
	}
	sort.Strings(texts)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, texts)
	assert.Equal(t, "a", groups[0][0].Text)
	assert.Len(t, groups[0], 3)
}

func skewedRows() []ocr.Element {
	return []ocr.Element{
		el("a", 0.1, 0.100), el("b", 0.3, 0.104), el("c", 0.5, 0.108), el("d", 0.7, 0.112), el("e", 0.9, 0.116),
		el("1", 0.1, 0.5), el("2", 0.3, 0.5), el("3", 0.5, 0.5), el("4", 0.7, 0.5), el("5", 0.9, 0.5),
	}
}

func TestBuildKeepsEveryWordOfASkewedRow(t *testing.T) {
	res := Build(skewedRows(), DefaultParams())
	require.False(t, res.Fallback)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}, res.Rows.Labels)
	assert.Equal(t, 0, res.Dropped)

	text, ok := res.Format(";")
	require.True(t, ok)
	assert.Equal(t, "a;b;c;d;e\n1;2;3;4;5", text)
}

func TestBuildExplicitToleranceDropsFarMembers(t *testing.T) {
	p := DefaultParams()
	p.RowTolerance = 0.005

	res := Build(skewedRows(), p)
	assert.Equal(t, 2, res.Dropped)

	text, ok := res.Format(";")
	require.True(t, ok)
	assert.Equal(t, ";b;c;d;\n1;2;3;4;5", text)
}

func TestBuildDropsNoiseFarFromEveryCenter(t *testing.T) {
	p := DefaultParams()
	p.MinSamples = 2
	p.RowCandidates = []float64{0.01}
	p.ColumnCandidates = []float64{0.01}

	// at MinSamples 2 "x" is column noise and "far" is noise on both axes;
	// neither lies within the radius of a center
	elements := []ocr.Element{
		el("A", 0.1, 0.1), el("1", 0.5, 0.1), el("x", 0.3, 0.1),
		el("B", 0.1, 0.5), el("2", 0.5, 0.5), el("far", 0.9, 0.9),
	}

	res := Build(elements, p)
	require.False(t, res.Fallback)
	assert.Equal(t, 2, res.Dropped)

	text, ok := res.Format(";")
	require.True(t, ok)
	assert.Equal(t, "A;1\nB;2", text)
}
