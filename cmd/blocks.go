package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/hocr"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/ocr"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/textblock"
	"github.com/spf13/cobra"
)

var (
	blocksSource   source
	blocksOutput   string
	blocksFormat   string
	blocksDistance float64
	blocksOverlap  float64
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Group OCR words into text blocks",
	Long: `Connect words whose centers are close or whose boxes overlap, and print
each connected group as a block of text in reading order.`,
	RunE: runBlocks,
}

func init() {
	RootCmd.AddCommand(blocksCmd)

	addSourceFlags(blocksCmd, &blocksSource)
	blocksCmd.Flags().StringVarP(&blocksOutput, "output", "o", "", "Output file (default: stdout)")
	blocksCmd.Flags().StringVar(&blocksFormat, "format", "text", "Output format: text, hocr")
	blocksCmd.Flags().Float64Var(&blocksDistance, "distance-threshold", 0, "Center distance below which words connect, in the input's units (pixels for OCR output)")
	blocksCmd.Flags().Float64Var(&blocksOverlap, "overlap-threshold", 0, "Overlap ratio at or above which intersecting words connect")
}

func runBlocks(cmd *cobra.Command, args []string) error {
	config, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	params := config.Blocks
	if cmd.Flags().Changed("distance-threshold") {
		params.DistanceThreshold = blocksDistance
	}
	if cmd.Flags().Changed("overlap-threshold") {
		params.OverlapThreshold = blocksOverlap
	}

	doc, err := blocksSource.load(cmd.Context())
	if err != nil {
		return err
	}

	if thresholdSpansPage(doc, params) {
		slog.Warn("Distance threshold spans the whole page, every word will join one block; thresholds are in the input's units",
			"distance_threshold", params.DistanceThreshold, "page_width", doc.Page.Width, "page_height", doc.Page.Height)
	}

	blocks := textblock.Cluster(doc.Elements, params)
	slog.Info("Grouped words into blocks", "elements", len(doc.Elements), "blocks", len(blocks))

	var content string
	switch strings.ToLower(blocksFormat) {
	case "text":
		content = textblock.Format(blocks)
		if content != "" {
			content += "\n"
		}
	case "hocr":
		content = hocr.RenderBlocks(blocks, doc.Page)
	default:
		return fmt.Errorf("unsupported format: %s", blocksFormat)
	}

	return outputResult(blocksOutput, content)
}

// thresholdSpansPage reports whether the distance threshold is at least the
// longer side of the page, as happens when pixel thresholds meet
// coordinates already given as page fractions.
func thresholdSpansPage(doc ocr.Document, p textblock.Params) bool {
	page := doc.Page
	if !page.Valid() {
		page = ocr.Extent(doc.Elements)
	}
	if !page.Valid() {
		return false
	}
	return p.DistanceThreshold >= max(page.Width, page.Height)
}
