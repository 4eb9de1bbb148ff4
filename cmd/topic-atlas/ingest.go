// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/topic-atlas/internal/ingest"
	"github.com/meshintel/topic-atlas/pkg/types"
)

const (
	defaultLanguage  = "eng"
	defaultPubType   = "article"
	defaultCorpusDir = "corpus"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Read publication metadata and select usable records",
	Long: `Ingest reads a CSV of publication records, keeps English journal
articles with at least one abstract, deduplicates by identifier and
normalized title, and writes the surviving records to the corpus
directory. Rows lacking both abstracts are filtered, not errors.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("input", "", "source CSV of publication records (required)")
	ingestCmd.Flags().String("corpus-dir", defaultCorpusDir, "directory for pipeline artifacts")
	ingestCmd.Flags().String("language", defaultLanguage, "language code rows must carry")
	ingestCmd.Flags().String("pub-type", defaultPubType, "publication-type code for journal articles")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return fmt.Errorf("provide the source CSV with --input")
	}
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	language, _ := cmd.Flags().GetString("language")
	pubType, _ := cmd.Flags().GetString("pub-type")

	cfg := types.IngestConfig{
		InputPath: input,
		CorpusDir: corpusDir,
		Language:  language,
		PubType:   pubType,
	}

	_, err := ingest.Run(cfg, os.Stdout)
	return err
}
