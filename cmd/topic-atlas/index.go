// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/topic-atlas/internal/ingest"
	"github.com/meshintel/topic-atlas/internal/som"
	"github.com/meshintel/topic-atlas/internal/store"
	"github.com/meshintel/topic-atlas/pkg/types"
)

const defaultStoreDir = "store"

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Persist pipeline outputs into the SQLite results store",
	Long: `Index collects whatever artifacts earlier stages have produced --
publications, filtered term weights, fitted model runs, and map
placements -- and upserts them into a SQLite store with full-text search
over titles and abstracts. An export.yaml snapshot is written alongside.`,
	RunE: runIndex,
}

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the results store",
	Long: `Query searches indexed publications with FTS5 full-text search over
title and abstract, optionally filtered by dominant topic.`,
	RunE: runQuery,
}

func init() {
	indexCmd.Flags().String("corpus-dir", defaultCorpusDir, "directory with pipeline artifacts")
	indexCmd.Flags().String("analysis-dir", defaultAnalysisDir, "directory with analysis outputs")
	indexCmd.Flags().String("store-dir", defaultStoreDir, "directory for the results store")

	queryCmd.Flags().String("store-dir", defaultStoreDir, "directory for the results store")
	queryCmd.Flags().Int("topic", -1, "filter by dominant topic")
	queryCmd.Flags().Int("max-results", 0, "maximum results (store default when 0)")
	queryCmd.Flags().Bool("json", false, "emit results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	analysisDir, _ := cmd.Flags().GetString("analysis-dir")
	storeDir, _ := cmd.Flags().GetString("store-dir")

	pubs, err := ingest.LoadPublications(corpusDir)
	if err != nil {
		return err
	}

	// Later-stage artifacts are optional: index whatever exists.
	weights, err := loadFiltered(corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: no weight table indexed: %v\n", err)
		weights = nil
	}
	results := loadFitResults(analysisDir)
	placements := loadPlacements(analysisDir)

	s, err := store.NewStore(types.StoreConfig{StoreDir: storeDir})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	if _, err := s.Index(ctx, pubs, weights, results, placements, os.Stdout); err != nil {
		return err
	}
	if err := s.ExportYAML(ctx, store.QueryOptions{Topic: -1}); err != nil {
		return fmt.Errorf("writing export.yaml: %w", err)
	}
	fmt.Printf("wrote %s\n", filepath.Join(storeDir, "export.yaml"))
	return nil
}

func loadFitResults(analysisDir string) []types.TopicResult {
	matches, _ := filepath.Glob(filepath.Join(analysisDir, "fit-*.yaml"))
	var results []types.TopicResult
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
			continue
		}
		var r types.TopicResult
		if err := yaml.Unmarshal(data, &r); err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
			continue
		}
		results = append(results, r)
	}
	return results
}

func loadPlacements(analysisDir string) []types.Placement {
	path := filepath.Join(analysisDir, mapFile)
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	placements, err := som.ReadCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
		return nil
	}
	return placements
}

func runQuery(cmd *cobra.Command, args []string) error {
	storeDir, _ := cmd.Flags().GetString("store-dir")
	topic, _ := cmd.Flags().GetInt("topic")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	asJSON, _ := cmd.Flags().GetBool("json")

	opts := store.QueryOptions{
		Query:      strings.Join(args, " "),
		Topic:      topic,
		MaxResults: maxResults,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("provide search text or --topic")
	}

	s, err := store.NewStore(types.StoreConfig{StoreDir: storeDir})
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		topicLabel := ""
		if r.DominantTopic >= 0 {
			topicLabel = fmt.Sprintf("  [topic %d @ %d,%d]", r.DominantTopic, r.NodeRow, r.NodeCol)
		}
		fmt.Printf("%-3d %s  %s%s\n", i+1, r.ID, r.Title, topicLabel)
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}
