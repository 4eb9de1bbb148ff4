// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meshintel/topic-atlas/internal/ingest"
	"github.com/meshintel/topic-atlas/internal/textnorm"
	"github.com/meshintel/topic-atlas/internal/weight"
	"github.com/meshintel/topic-atlas/pkg/types"
)

const (
	weightsFile  = "weights.csv"
	filteredFile = "weights_filtered.csv"

	defaultCutoffQuantile = 0.5
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Normalize text and compute tf-idf term weights",
	Long: `Terms normalizes each publication's title, keywords, and abstracts
into stemmed tokens, computes per-document tf-idf weights, and applies the
quantile cutoff (median by default): entries at or below the cutoff are
discarded before matrix construction. Both the full and the filtered
weight tables are written to the corpus directory.`,
	RunE: runTerms,
}

func init() {
	termsCmd.Flags().String("corpus-dir", defaultCorpusDir, "directory for pipeline artifacts")
	termsCmd.Flags().Float64("cutoff-quantile", defaultCutoffQuantile, "tf-idf quantile at or below which entries are discarded")
	termsCmd.Flags().StringSlice("stopword", nil, "extra stop words (repeatable)")

	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, args []string) error {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	q, _ := cmd.Flags().GetFloat64("cutoff-quantile")
	extraStops, _ := cmd.Flags().GetStringSlice("stopword")

	if q <= 0 || q >= 1 {
		return fmt.Errorf("cutoff quantile %g out of range (0, 1)", q)
	}

	pubs, err := ingest.LoadPublications(corpusDir)
	if err != nil {
		return err
	}

	norm := textnorm.New(extraStops...)
	var tokens []types.Token
	for tok := range norm.Stream(pubs) {
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("no tokens survived normalization")
	}

	weights, _ := weight.Compute(tokens)
	cut, kept := weight.Cutoff(weights, q)
	if len(kept) == 0 {
		return fmt.Errorf("no entries above the %g-quantile cutoff (%g); lower --cutoff-quantile", q, cut)
	}

	if err := writeWeights(filepath.Join(corpusDir, weightsFile), weights); err != nil {
		return err
	}
	if err := writeWeights(filepath.Join(corpusDir, filteredFile), kept); err != nil {
		return err
	}

	fmt.Printf("documents: %d, tokens: %d, weight entries: %d\n", len(pubs), len(tokens), len(weights))
	fmt.Printf("cutoff (q=%g): %g, retained: %d\n", q, cut, len(kept))
	return nil
}

func writeWeights(path string, weights []types.TermWeight) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := weight.WriteCSV(f, weights); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// loadFiltered reads the filtered weight table and rebuilds the sparse
// document-term matrix the model stages consume.
func loadFiltered(corpusDir string) ([]types.TermWeight, error) {
	path := filepath.Join(corpusDir, filteredFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s (run terms first): %w", path, err)
	}
	defer f.Close()
	weights, err := weight.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return weights, nil
}
