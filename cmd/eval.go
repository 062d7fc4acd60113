package cmd

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/ocrgrid/pkg/grid"
	"github.com/lehigh-university-libraries/ocrgrid/pkg/structure"
	"github.com/spf13/cobra"
	yaml "go.yaml.in/yaml/v3"
)

type EvalConfig struct {
	CSVPath   string           `json:"csv_path" yaml:"csv_path"`
	Dir       string           `json:"dir" yaml:"dir"`
	Params    structure.Params `json:"params" yaml:"params"`
	TestRows  []int            `json:"rows" yaml:"rows"`
	Timestamp string           `json:"timestamp" yaml:"timestamp"`
}

type EvalResult struct {
	Identifier          string  `json:"identifier" yaml:"identifier"`
	InputPath           string  `json:"input_path" yaml:"input_path"`
	ExpectedPath        string  `json:"expected_path" yaml:"expected_path"`
	Detected            bool    `json:"detected" yaml:"detected"`
	Fallback            bool    `json:"fallback" yaml:"fallback"`
	ExpectedRows        int     `json:"expected_rows" yaml:"expected_rows"`
	ExpectedCols        int     `json:"expected_cols" yaml:"expected_cols"`
	Rows                int     `json:"rows" yaml:"rows"`
	Cols                int     `json:"cols" yaml:"cols"`
	ShapeMatch          bool    `json:"shape_match" yaml:"shape_match"`
	TotalCells          int     `json:"total_cells" yaml:"total_cells"`
	CorrectCells        int     `json:"correct_cells" yaml:"correct_cells"`
	CellAccuracy        float64 `json:"cell_accuracy" yaml:"cell_accuracy"`
	CharacterSimilarity float64 `json:"character_similarity" yaml:"character_similarity"`
	Dropped             int     `json:"dropped" yaml:"dropped"`
}

type EvalSummary struct {
	Config  EvalConfig   `json:"config" yaml:"config"`
	Results []EvalResult `json:"results" yaml:"results"`
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate table reconstruction against ground truth tables",
	Long: `Evaluate table reconstruction by comparing rebuilt grids with expected tables.

The CSV manifest lists one page per row: the OCR result to structure and a
delimited file holding the expected table. A header row starting with
"input" is skipped.

You can either provide a manifest or rerun a previous evaluation file.`,
	RunE: runEval,
}

var (
	evalCSVPath    string
	evalRerunPath  string
	evalDir        string
	evalSeparator  string
	evalRows       []int
	evalOutputDir  string
	evalMinSamples int
)

func init() {
	RootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalCSVPath, "csv", "c", "", "Path to CSV manifest of input,expected pairs")
	evalCmd.Flags().StringVar(&evalRerunPath, "rerun", "", "Path to previous evaluation file to rerun")
	evalCmd.Flags().StringVar(&evalDir, "dir", "./", "Prepend your CSV file paths with a directory")
	evalCmd.Flags().StringVar(&evalSeparator, "separator", "", "Cell separator of the expected tables (default \";\")")
	evalCmd.Flags().IntSliceVar(&evalRows, "rows", []int{}, "A list of row numbers to run the test on")
	evalCmd.Flags().StringVar(&evalOutputDir, "evals-dir", "evals", "Directory for evaluation results")
	evalCmd.Flags().IntVar(&evalMinSamples, "min-samples", 1, "Neighbours needed for a dense point")

	evalCmd.MarkFlagsOneRequired("csv", "rerun")
	evalCmd.MarkFlagsMutuallyExclusive("csv", "rerun")
}

func runEval(cmd *cobra.Command, args []string) error {
	var config EvalConfig

	if evalRerunPath != "" {
		var err error
		config, err = loadEvalConfig(evalRerunPath)
		if err != nil {
			return fmt.Errorf("failed to load evaluation: %w", err)
		}
		fmt.Printf("Loaded configuration from %s\n", evalRerunPath)
	} else {
		fileConfig, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		params := fileConfig.Table
		if cmd.Flags().Changed("min-samples") {
			params.MinSamples = evalMinSamples
		}
		if cmd.Flags().Changed("separator") {
			params.Separator = evalSeparator
		}
		config = EvalConfig{
			CSVPath:   evalCSVPath,
			Dir:       evalDir,
			Params:    params,
			Timestamp: time.Now().Format("2006-01-02_15-04-05"),
		}
	}

	testRows, err := cmd.Flags().GetIntSlice("rows")
	if err != nil {
		return fmt.Errorf("failed to fetch rows flag: %w", err)
	}
	config.TestRows = testRows

	if err := os.MkdirAll(evalOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create evals directory: %w", err)
	}

	results, err := processEvaluation(config)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	summary := EvalSummary{
		Config:  config,
		Results: results,
	}

	outputPath := filepath.Join(evalOutputDir, fmt.Sprintf("eval_%s.yaml", config.Timestamp))
	if err := saveEvalResults(summary, outputPath); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Printf("\nEvaluation completed. Results saved to: %s\n", outputPath)
	printSummaryStats(results)

	return nil
}

func loadEvalConfig(path string) (EvalConfig, error) {
	var summary EvalSummary

	data, err := os.ReadFile(path)
	if err != nil {
		return EvalConfig{}, err
	}

	if err := yaml.Unmarshal(data, &summary); err != nil {
		return EvalConfig{}, err
	}

	summary.Config.Timestamp = time.Now().Format("2006-01-02_15-04-05")

	return summary.Config, nil
}

func processEvaluation(config EvalConfig) ([]EvalResult, error) {
	file, err := os.Open(config.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	dataRows := records
	if strings.EqualFold(strings.TrimSpace(records[0][0]), "input") {
		dataRows = records[1:]
	}

	var results []EvalResult
	for i, row := range dataRows {
		if len(config.TestRows) > 0 && !slices.Contains(config.TestRows, i) {
			slog.Debug("Skipping row", "row", i+1)
			continue
		}
		if len(row) < 2 {
			slog.Warn("Insufficient columns", "row", i+1)
			continue
		}

		result, err := processRow(row, config)
		if err != nil {
			slog.Error("Error processing row", "row", i+1, "err", err)
			continue
		}

		results = append(results, result)
		printRowResult(result)
	}

	return results, nil
}

func processRow(row []string, config EvalConfig) (EvalResult, error) {
	inputPath := filepath.Join(config.Dir, strings.TrimSpace(row[0]))
	expectedPath := filepath.Join(config.Dir, strings.TrimSpace(row[1]))

	expectedText, err := os.ReadFile(expectedPath)
	if err != nil {
		return EvalResult{}, fmt.Errorf("failed to read expected table: %w", err)
	}

	doc, err := readDocument(inputPath)
	if err != nil {
		return EvalResult{}, err
	}

	sep := config.Params.Separator
	if sep == "" {
		sep = grid.DefaultSeparator
	}

	res := structure.BuildDocument(doc, config.Params)
	result := CompareGrids(grid.Parse(string(expectedText), sep), res.Grid)
	result.Identifier = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	result.InputPath = inputPath
	result.ExpectedPath = expectedPath
	result.Fallback = res.Fallback
	result.Dropped = res.Dropped

	return result, nil
}

// CompareGrids scores actual against expected cell by cell over the union
// of both shapes, so missing and extra cells both count as errors.
func CompareGrids(expected, actual grid.Grid) EvalResult {
	result := EvalResult{
		Detected:     !actual.Empty(),
		ExpectedRows: expected.Rows,
		ExpectedCols: expected.Cols,
		Rows:         actual.Rows,
		Cols:         actual.Cols,
		ShapeMatch:   expected.Rows == actual.Rows && expected.Cols == actual.Cols,
	}

	rows := max(expected.Rows, actual.Rows)
	cols := max(expected.Cols, actual.Cols)
	result.TotalCells = rows * cols
	if result.TotalCells == 0 {
		result.CellAccuracy = 1.0
		result.CharacterSimilarity = 1.0
		return result
	}

	var similarity float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			want := normalizeText(cell(expected, r, c))
			got := normalizeText(cell(actual, r, c))
			if want == got {
				result.CorrectCells++
			}
			similarity += calculateSimilarity(want, got)
		}
	}

	result.CellAccuracy = float64(result.CorrectCells) / float64(result.TotalCells)
	result.CharacterSimilarity = similarity / float64(result.TotalCells)
	return result
}

func cell(g grid.Grid, r, c int) string {
	if r < len(g.Cells) && c < len(g.Cells[r]) {
		return g.Cells[r][c]
	}
	return ""
}

func saveEvalResults(summary EvalSummary, outputPath string) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, data, 0644)
}

func printRowResult(result EvalResult) {
	fmt.Printf("\n=== Results for %s ===\n", result.Identifier)
	fmt.Printf("Input: %s\n", result.InputPath)
	fmt.Printf("Expected: %s\n", result.ExpectedPath)
	fmt.Printf("Detected: %t\n", result.Detected)
	fmt.Printf("Shape: %dx%d (expected %dx%d)\n", result.Rows, result.Cols, result.ExpectedRows, result.ExpectedCols)
	fmt.Printf("Correct Cells: %d/%d\n", result.CorrectCells, result.TotalCells)
	fmt.Printf("Cell Accuracy: %.3f\n", result.CellAccuracy)
	fmt.Printf("Character Similarity: %.3f\n", result.CharacterSimilarity)
	fmt.Printf("Dropped Elements: %d\n", result.Dropped)
}

func printSummaryStats(results []EvalResult) {
	if len(results) == 0 {
		return
	}

	var totalAcc, totalSim float64
	var detected, shapes int

	for _, result := range results {
		totalAcc += result.CellAccuracy
		totalSim += result.CharacterSimilarity
		if result.Detected {
			detected++
		}
		if result.ShapeMatch {
			shapes++
		}
	}

	count := float64(len(results))

	fmt.Printf("\n=== SUMMARY STATISTICS ===\n")
	fmt.Printf("Total Evaluations: %d\n", len(results))
	fmt.Printf("Tables Detected: %d\n", detected)
	fmt.Printf("Shape Matches: %d\n", shapes)
	fmt.Printf("Average Cell Accuracy: %.3f\n", totalAcc/count)
	fmt.Printf("Average Character Similarity: %.3f\n", totalSim/count)
}

var whitespace = regexp.MustCompile(`\s+`)

func normalizeText(text string) string {
	text = whitespace.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.ToLower(text)
}

func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

func calculateSimilarity(s1, s2 string) float64 {
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}
