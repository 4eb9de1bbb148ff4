// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meshintel/topic-atlas/internal/report"
	"github.com/meshintel/topic-atlas/internal/som"
)

const (
	mapFile       = "map.csv"
	somChartFile  = "som.html"
	defaultRows   = 10
	defaultCols   = 10
	defaultJitter = 7
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project documents onto a self-organizing map",
	Long: `Project scales the per-document topic-probability vectors of a fitted
model to zero mean and unit variance per feature, trains a hexagonal
self-organizing map at each configured pass budget, and charts the mean
distance-to-prototype trajectory so budgets can be compared. Documents
are assigned to their winning node on the last budget's map, jittered
reproducibly, labeled with their dominant topic, and exported as a flat
CSV for the external visualization tool.`,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().String("analysis-dir", defaultAnalysisDir, "directory for analysis outputs")
	projectCmd.Flags().Int("k", 0, "topic count of the fitted model (required)")
	projectCmd.Flags().String("procedure", "gibbs", "fitted procedure to project: gibbs or variational")
	projectCmd.Flags().Int("rows", defaultRows, "map grid rows")
	projectCmd.Flags().Int("cols", defaultCols, "map grid columns")
	projectCmd.Flags().IntSlice("passes", []int{500, 1000}, "training-pass budgets to compare; the last is exported")
	projectCmd.Flags().Int64("seed", defaultSeed, "random seed for map training and jitter")

	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, args []string) error {
	analysisDir, _ := cmd.Flags().GetString("analysis-dir")
	k, _ := cmd.Flags().GetInt("k")
	procedure, _ := cmd.Flags().GetString("procedure")
	rows, _ := cmd.Flags().GetInt("rows")
	cols, _ := cmd.Flags().GetInt("cols")
	passes, _ := cmd.Flags().GetIntSlice("passes")
	seed, _ := cmd.Flags().GetInt64("seed")

	if k < 2 {
		return fmt.Errorf("provide the fitted topic count with --k")
	}
	if len(passes) == 0 {
		return fmt.Errorf("provide at least one pass budget with --passes")
	}
	if _, err := fitterByName(procedure); err != nil {
		return err
	}

	result, err := loadFit(analysisDir, procedure, k)
	if err != nil {
		return err
	}

	scaled := som.Scale(result.Theta)

	series := make(map[int][]float64, len(passes))
	var grid *som.Grid
	for _, p := range passes {
		g, err := som.Train(scaled, rows, cols, p, seed)
		if err != nil {
			return fmt.Errorf("training %d-pass map: %w", p, err)
		}
		series[p] = g.QuantErr
		grid = g
		fmt.Printf("passes=%d final mean distance=%.4f\n", p, g.QuantErr[len(g.QuantErr)-1])
	}

	chartPath := filepath.Join(analysisDir, somChartFile)
	if err := report.WriteFile(chartPath, func(w io.Writer) error {
		return report.RenderConvergence(w, series)
	}); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", chartPath)

	placements, err := som.Place(grid, scaled, result, seed+defaultJitter)
	if err != nil {
		return err
	}

	mapPath := filepath.Join(analysisDir, mapFile)
	f, err := os.Create(mapPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", mapPath, err)
	}
	defer f.Close()
	if err := som.WriteCSV(f, placements); err != nil {
		return fmt.Errorf("writing %s: %w", mapPath, err)
	}
	fmt.Printf("wrote %s (%d documents)\n", mapPath, len(placements))
	return nil
}
