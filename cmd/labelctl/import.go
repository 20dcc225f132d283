package main

import (
	"fmt"
	"os"

	"github.com/sizzle/labelpress/internal/csvimport"
	"github.com/spf13/cobra"
)

var csvFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import products from a CSV file",
	Long: `Import products from a CSV file. The header names the columns:
name, description, ingredients, allergens, consumption_guidelines, price,
is_vegan, is_for_storytel, is_only_for_storytel, is_snack, delivery_day,
week_number, due_date, font_size and the translated_* variants of the
text columns. Rows that fail validation are reported and skipped.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&csvFile, "csv", "c", "", "CSV file to import (required)")
	importCmd.MarkFlagRequired("csv")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(csvFile)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	summary, err := csvimport.NewImporter(application.Products, logger.Named("import")).Import(cmd.Context(), f)
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "imported %d products from %s\n", summary.Imported, csvFile)
	for _, rowErr := range summary.Failed {
		fmt.Fprintf(w, "  skipped %v\n", rowErr)
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d rows were not imported", len(summary.Failed))
	}
	return nil
}
