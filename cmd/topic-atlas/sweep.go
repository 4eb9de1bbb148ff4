// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/topic-atlas/internal/report"
	"github.com/meshintel/topic-atlas/internal/topics"
	"github.com/meshintel/topic-atlas/internal/weight"
)

const (
	defaultAnalysisDir = "analysis"
	defaultSeed        = 42

	sweepFile      = "sweep.yaml"
	sweepChartFile = "sweep.html"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Score candidate topic counts with four selection heuristics",
	Long: `Sweep fits a topic model at every candidate count in [min-k, max-k]
and computes four scores per candidate: CaoJuan2009 and Arun2010 (lower is
better), Deveaud2014 and in-sample log-likelihood (higher is better). The
raw series are written as YAML and charted as HTML; picking the final k is
left to the reader, informed by where the curves cross or plateau and by
topic interpretability. A failed candidate is reported and skipped.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().String("corpus-dir", defaultCorpusDir, "directory with pipeline artifacts")
	sweepCmd.Flags().String("analysis-dir", defaultAnalysisDir, "directory for analysis outputs")
	sweepCmd.Flags().Int("min-k", 4, "smallest candidate topic count")
	sweepCmd.Flags().Int("max-k", 20, "largest candidate topic count")
	sweepCmd.Flags().Int("step", 2, "stride through the candidate range")
	sweepCmd.Flags().Int64("seed", defaultSeed, "random seed for reproducible fits")
	sweepCmd.Flags().Int("iterations", 0, "fitting iterations per model (procedure default when 0)")
	sweepCmd.Flags().Int("workers", 1, "worker count for procedures that parallelize internally")
	sweepCmd.Flags().String("procedure", "gibbs", "estimation procedure: gibbs or variational")

	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	analysisDir, _ := cmd.Flags().GetString("analysis-dir")
	minK, _ := cmd.Flags().GetInt("min-k")
	maxK, _ := cmd.Flags().GetInt("max-k")
	step, _ := cmd.Flags().GetInt("step")
	seed, _ := cmd.Flags().GetInt64("seed")
	iterations, _ := cmd.Flags().GetInt("iterations")
	workers, _ := cmd.Flags().GetInt("workers")
	procedure, _ := cmd.Flags().GetString("procedure")

	fitter, err := fitterByName(procedure)
	if err != nil {
		return err
	}

	weights, err := loadFiltered(corpusDir)
	if err != nil {
		return err
	}
	m, _ := weight.Matrix(weights, weight.DocOrder(weights))

	opts := topics.Options{Seed: seed, Iterations: iterations, Workers: workers}
	scores, err := topics.Sweep(m, fitter, minK, maxK, step, opts, os.Stdout)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(analysisDir, 0o755); err != nil {
		return fmt.Errorf("creating analysis directory: %w", err)
	}

	data, err := yaml.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}
	scorePath := filepath.Join(analysisDir, sweepFile)
	if err := os.WriteFile(scorePath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", scorePath, err)
	}
	fmt.Printf("wrote %s\n", scorePath)

	chartPath := filepath.Join(analysisDir, sweepChartFile)
	if err := report.WriteFile(chartPath, func(w io.Writer) error {
		return report.RenderSweep(w, scores)
	}); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", chartPath)
	return nil
}

func fitterByName(name string) (topics.Fitter, error) {
	switch name {
	case "gibbs":
		return topics.Gibbs{}, nil
	case "variational":
		return topics.Variational{}, nil
	default:
		return nil, fmt.Errorf("unknown procedure %q (want gibbs or variational)", name)
	}
}
