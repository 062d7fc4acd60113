package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/structure"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/textblock"
	"github.com/spf13/cobra"
)

var (
	tableSource      source
	tableOutput      string
	tableFormat      string
	tableSeparator   string
	tableMinSamples  int
	tableRowEps      []float64
	tableColumnEps   []float64
	tableRowTol      float64
	tableColumnTol   float64
	tableRadius      float64
	tableNoNormalize bool
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Rebuild a table grid from OCR word positions",
	Long: `Cluster word centers along the y axis into rows and along the x axis into
columns, then place every word in its cell. Pages with no row or column
structure are reported as free-form text and produce no output.`,
	RunE: runTable,
}

func init() {
	RootCmd.AddCommand(tableCmd)

	addSourceFlags(tableCmd, &tableSource)
	tableCmd.Flags().StringVarP(&tableOutput, "output", "o", "", "Output file (default: stdout)")
	tableCmd.Flags().StringVar(&tableFormat, "format", "delimited", "Output format: delimited, csv, json")
	tableCmd.Flags().StringVar(&tableSeparator, "separator", "", "Cell separator for delimited output (default \";\")")
	tableCmd.Flags().IntVar(&tableMinSamples, "min-samples", 1, "Neighbours needed for a dense point")
	tableCmd.Flags().Float64SliceVar(&tableRowEps, "row-eps", nil, "Candidate row radii to search")
	tableCmd.Flags().Float64SliceVar(&tableColumnEps, "column-eps", nil, "Candidate column radii to search")
	tableCmd.Flags().Float64Var(&tableRowTol, "row-tolerance", 0, "Max distance from a row center (default: place words by their row cluster)")
	tableCmd.Flags().Float64Var(&tableColumnTol, "column-tolerance", 0, "Max distance from a column center (default: place words by their column cluster)")
	tableCmd.Flags().Float64Var(&tableRadius, "proximity-radius", 0, "Grouping radius used when no table is found")
	tableCmd.Flags().BoolVar(&tableNoNormalize, "no-normalize", false, "Cluster raw coordinates instead of page fractions")
}

func runTable(cmd *cobra.Command, args []string) error {
	config, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	params := tableParams(cmd, config.Table)

	doc, err := tableSource.load(cmd.Context())
	if err != nil {
		return err
	}
	if !ocr.HasText(doc.Elements) {
		slog.Warn("No table detected, input holds no text", "elements", len(doc.Elements))
		return nil
	}
	slog.Info("Structuring page", "elements", len(doc.Elements), "page_width", doc.Page.Width, "page_height", doc.Page.Height)

	res := structure.BuildDocument(doc, params)
	if res.Fallback {
		slog.Warn("No table detected, page looks like free-form text", "groups", len(res.Groups))
		for i, g := range res.Groups {
			slog.Debug("Proximity group", "group", i+1, "text", textblock.Block{Elements: g}.Text())
		}
		return nil
	}

	content, ok, err := renderTable(res, tableFormat, params.Separator)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("No table detected, every cell is empty")
		return nil
	}

	slog.Info("Table rebuilt",
		"rows", res.Grid.Rows, "columns", res.Grid.Cols, "dropped", res.Dropped,
		"row_score", res.Rows.Score, "column_score", res.Columns.Score)
	return outputResult(tableOutput, content)
}

// tableParams applies the flags the user actually set on top of the
// configuration file.
func tableParams(cmd *cobra.Command, p structure.Params) structure.Params {
	flags := cmd.Flags()
	if flags.Changed("min-samples") {
		p.MinSamples = tableMinSamples
	}
	if flags.Changed("row-eps") {
		p.RowCandidates = tableRowEps
	}
	if flags.Changed("column-eps") {
		p.ColumnCandidates = tableColumnEps
	}
	if flags.Changed("row-tolerance") {
		p.RowTolerance = tableRowTol
	}
	if flags.Changed("column-tolerance") {
		p.ColumnTolerance = tableColumnTol
	}
	if flags.Changed("proximity-radius") {
		p.ProximityRadius = tableRadius
	}
	if flags.Changed("separator") {
		p.Separator = tableSeparator
	}
	if flags.Changed("no-normalize") {
		p.Normalize = !tableNoNormalize
	}
	return p
}

type tableJSON struct {
	Rows        int        `json:"rows"`
	Columns     int        `json:"columns"`
	Cells       [][]string `json:"cells"`
	RowEps      float64    `json:"row_eps"`
	ColumnEps   float64    `json:"column_eps"`
	RowScore    float64    `json:"row_score"`
	ColumnScore float64    `json:"column_score"`
	Dropped     int        `json:"dropped"`
}

func renderTable(res structure.Result, format, sep string) (string, bool, error) {
	if res.Grid.Empty() {
		return "", false, nil
	}

	switch strings.ToLower(format) {
	case "delimited", "text", "":
		content, ok := res.Format(sep)
		if !ok {
			return "", false, nil
		}
		return content + "\n", true, nil
	case "csv":
		var buf bytes.Buffer
		if err := res.Grid.WriteCSV(&buf); err != nil {
			return "", false, fmt.Errorf("failed to write csv: %w", err)
		}
		return buf.String(), true, nil
	case "json":
		data, err := json.MarshalIndent(tableJSON{
			Rows:        res.Grid.Rows,
			Columns:     res.Grid.Cols,
			Cells:       res.Grid.Cells,
			RowEps:      res.Rows.Eps,
			ColumnEps:   res.Columns.Eps,
			RowScore:    res.Rows.Score,
			ColumnScore: res.Columns.Score,
			Dropped:     res.Dropped,
		}, "", "  ")
		if err != nil {
			return "", false, fmt.Errorf("failed to encode json: %w", err)
		}
		return string(data) + "\n", true, nil
	default:
		return "", false, fmt.Errorf("unsupported format: %s", format)
	}
}
