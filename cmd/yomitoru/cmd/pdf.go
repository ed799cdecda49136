package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf [files...]",
	Short: "Extract text from PDF files",
	Long: `Process one or more PDF files and print the recognized text.

Pages are selected with a comma-separated list of page numbers and
inclusive ranges, e.g. "1-3,7". Without a selection, all pages are
processed.

Examples:
  yomitoru pdf book.pdf
  yomitoru pdf book.pdf --pages 1-10
  yomitoru pdf book.pdf --pages 2,5 --format json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		format, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")
		pages, _ := cmd.Flags().GetString("pages")
		if err := validateFormat(format); err != nil {
			return err
		}

		pl, err := buildPipeline()
		if err != nil {
			return fmt.Errorf("failed to initialize pipeline: %w", err)
		}
		defer func() { _ = pl.Close() }()

		return processDocuments(cmd, pl, args, pages, format, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().StringP("format", "f", outputFormatText, "output format (text, json)")
	pdfCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	pdfCmd.Flags().StringP("pages", "p", "", "page selection, e.g. \"1-3,7\" (default all pages)")
}
