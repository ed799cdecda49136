package cmd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yomitoru/yomitoru/internal/pipeline"

	"github.com/spf13/cobra"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image [files...]",
	Short: "Extract text from image files",
	Long: `Process one or more image files and print the recognized text.

Supported formats: JPEG, PNG, BMP, TIFF

Examples:
  yomitoru image scan.jpg
  yomitoru image page1.png page2.png --format json
  yomitoru image scan.jpg --output result.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		format, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")
		if err := validateFormat(format); err != nil {
			return err
		}

		pl, err := buildPipeline()
		if err != nil {
			return fmt.Errorf("failed to initialize pipeline: %w", err)
		}
		defer func() { _ = pl.Close() }()

		return processDocuments(cmd, pl, args, "", format, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().StringP("format", "f", outputFormatText, "output format (text, json)")
	imageCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	imageCmd.Flags().Float64("score-threshold", 0, "override detector score threshold")
	imageCmd.Flags().Float64("escalation-threshold", 0, "override recognizer escalation threshold")
}

func validateFormat(format string) error {
	valid := []string{outputFormatText, outputFormatJSON}
	for _, f := range valid {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(valid, ", "))
}

// buildPipeline constructs a pipeline from the merged configuration.
func buildPipeline() (*pipeline.Pipeline, error) {
	cfg := GetConfig()
	pcfg := cfg.PipelineConfiguration()

	return pipeline.NewBuilder().
		WithModelsDir(pcfg.ModelsDir).
		WithThreads(pcfg.NumThreads).
		WithScoreThreshold(pcfg.Detector.ScoreThreshold).
		WithEscalationThreshold(pcfg.EscalationThreshold).
		WithFetchLimits(pcfg.FetchTimeout, pcfg.FetchMaxMB).
		Build()
}

// processDocuments runs each file through the pipeline and writes results in
// the requested format.
func processDocuments(cmd *cobra.Command, pl *pipeline.Pipeline, files []string, pages, format, outputFile string) error {
	out := cmd.OutOrStdout()
	var sink *os.File
	if outputFile != "" {
		f, err := os.Create(outputFile) //nolint:gosec // G304: user-chosen output path
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		sink = f
		out = f
	}

	for _, file := range files {
		data, err := os.ReadFile(file) //nolint:gosec // G304: user-chosen input path
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		req := pipeline.Request{
			Image: base64.StdEncoding.EncodeToString(data),
			Pages: pages,
		}
		resp := pl.ProcessRequest(context.Background(), req)
		if resp.StatusCode != 200 {
			return fmt.Errorf("%s: %s", file, resp.Body.Error)
		}

		switch format {
		case outputFormatJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp.Body); err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
		default:
			for _, page := range resp.Body.Pages {
				if len(files) > 1 || len(resp.Body.Pages) > 1 {
					fmt.Fprintf(out, "=== %s page %d ===\n", file, page.Page)
				}
				fmt.Fprintln(out, page.Text)
			}
		}
	}

	if sink != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
	}
	return nil
}
