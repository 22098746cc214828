package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tparidae/hap.py/internal/duckdb"
	"github.com/tparidae/hap.py/internal/report"
)

func newExportCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a metrics document to a DuckDB database",
		Long: `Export loads a <prefix>.metrics.json document produced by quantify into
a DuckDB database for querying, appending to any runs already stored.`,
		Example: `  qfy export --input bench.metrics.json --output results.duckdb
  qfy export -i bench.metrics.json -o results.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return fmt.Errorf("--input is required")
			}
			if outputPath == "" {
				return fmt.Errorf("--output is required")
			}
			if ext := filepath.Ext(outputPath); ext != ".duckdb" && ext != ".db" {
				outputPath += ".duckdb"
			}
			return runExport(inputPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Metrics document (<prefix>.metrics.json)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output DuckDB file path")

	return cmd
}

func runExport(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read metrics document: %w", err)
	}

	var doc report.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse metrics document %s: %w", inputPath, err)
	}

	store, err := duckdb.Open(outputPath)
	if err != nil {
		return err
	}
	defer store.Close()

	inserted, err := store.LoadDocument(&doc)
	if err != nil {
		return err
	}

	zap.L().Info("exported metrics document",
		zap.String("run_id", doc.ID),
		zap.Int64("rows", inserted),
		zap.String("output", outputPath))

	fmt.Printf("Exported %d result rows from run %s to %s\n", inserted, doc.ID, outputPath)
	return nil
}
