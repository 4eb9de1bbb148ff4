// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/topic-atlas/internal/topics"
	"github.com/meshintel/topic-atlas/internal/weight"
	"github.com/meshintel/topic-atlas/pkg/types"
)

const defaultTopTerms = 10

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit topic models at the chosen topic count",
	Long: `Fit trains both estimation procedures (online variational and
collapsed Gibbs) on the same document-term matrix at the chosen k, so
their topic definitions can be cross-checked by comparing top-term lists.
Each fit is written as YAML with the per-document topic distributions,
top terms, log-likelihood, and coherence.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().String("corpus-dir", defaultCorpusDir, "directory with pipeline artifacts")
	fitCmd.Flags().String("analysis-dir", defaultAnalysisDir, "directory for analysis outputs")
	fitCmd.Flags().Int("k", 0, "topic count (required)")
	fitCmd.Flags().Int64("seed", defaultSeed, "random seed for reproducible fits")
	fitCmd.Flags().Int("iterations", 0, "fitting iterations (procedure default when 0)")
	fitCmd.Flags().Int("workers", 1, "worker count for procedures that parallelize internally")
	fitCmd.Flags().Int("top-terms", defaultTopTerms, "top-weighted terms to report per topic")
	fitCmd.Flags().String("procedure", "both", "estimation procedure: gibbs, variational, or both")

	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	analysisDir, _ := cmd.Flags().GetString("analysis-dir")
	k, _ := cmd.Flags().GetInt("k")
	seed, _ := cmd.Flags().GetInt64("seed")
	iterations, _ := cmd.Flags().GetInt("iterations")
	workers, _ := cmd.Flags().GetInt("workers")
	topN, _ := cmd.Flags().GetInt("top-terms")
	procedure, _ := cmd.Flags().GetString("procedure")

	if k < 2 {
		return fmt.Errorf("provide a topic count of at least 2 with --k")
	}

	var fitters []topics.Fitter
	if procedure == "both" {
		fitters = []topics.Fitter{topics.Variational{}, topics.Gibbs{}}
	} else {
		f, err := fitterByName(procedure)
		if err != nil {
			return err
		}
		fitters = []topics.Fitter{f}
	}

	weights, err := loadFiltered(corpusDir)
	if err != nil {
		return err
	}
	docIDs := weight.DocOrder(weights)
	m, vocab := weight.Matrix(weights, docIDs)

	if err := os.MkdirAll(analysisDir, 0o755); err != nil {
		return fmt.Errorf("creating analysis directory: %w", err)
	}

	opts := topics.Options{Seed: seed, Iterations: iterations, Workers: workers}
	for _, f := range fitters {
		r, err := f.Fit(m, k, opts)
		if err != nil {
			return fmt.Errorf("%s procedure: %w", f.Name(), err)
		}
		result := topics.Describe(f.Name(), k, opts, r, m, vocab, docIDs, topN)

		path := filepath.Join(analysisDir, fitFileName(f.Name(), k))
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding %s result: %w", f.Name(), err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Printf("%s k=%d log_lik=%.1f coherence=%.3f -> %s\n",
			f.Name(), k, result.LogLikelihood, result.Coherence, path)
		for t, terms := range result.TopTerms {
			fmt.Printf("  topic %d: %s\n", t, strings.Join(terms, " "))
		}
	}
	return nil
}

func fitFileName(procedure string, k int) string {
	return fmt.Sprintf("fit-%s-k%d.yaml", procedure, k)
}

func loadFit(analysisDir, procedure string, k int) (types.TopicResult, error) {
	path := filepath.Join(analysisDir, fitFileName(procedure, k))
	data, err := os.ReadFile(path)
	if err != nil {
		return types.TopicResult{}, fmt.Errorf("reading %s (run fit first): %w", path, err)
	}
	var result types.TopicResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return types.TopicResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}
