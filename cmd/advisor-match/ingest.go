// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/advisor-match/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load a professor corpus from YAML into the store",
	Long: `Ingest reads a YAML file of professors and their publications and upserts
it into the SQLite store. Re-running with the same file is a no-op: rows are
keyed by OpenAlex author id and paper id, and existing embeddings are left
untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			return fmt.Errorf("--input is required")
		}

		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}
		var records []store.ProfessorRecord
		if err := yaml.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parsing %s: %w", input, err)
		}
		if len(records) == 0 {
			return fmt.Errorf("%s contains no professor records", input)
		}

		cfg := loadConfig()
		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		summary, err := st.Ingest(cmd.Context(), records, os.Stderr)
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %d professors, %d publications, %d authorships\n",
			summary.Professors, summary.Publications, summary.Authorships)
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("input", "", "YAML corpus file (required)")

	rootCmd.AddCommand(ingestCmd)
}
