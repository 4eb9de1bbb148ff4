// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the topic-atlas CLI, a batch
// pipeline that maps academic publication metadata into topics and a 2-D
// self-organizing map for exploratory visualization.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the topic-atlas CLI.
var rootCmd = &cobra.Command{
	Use:   "topic-atlas",
	Short: "Topic modeling and SOM mapping for publication metadata",
	Long: `topic-atlas is a batch analysis pipeline over academic publication
metadata. It ingests a spreadsheet of records, normalizes the free text,
weighs terms by tf-idf, sweeps candidate topic counts with four selection
heuristics, fits topic models with two independent estimation procedures,
and projects documents onto a self-organizing map for export to an
external visualization tool.

Each pipeline stage is a subcommand: ingest, terms, sweep, fit, project,
and index. Stages communicate through files under the corpus and analysis
directories, so any stage can be rerun in isolation.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./topic-atlas.yaml or ~/.config/topic-atlas/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("topic-atlas")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "topic-atlas"))
		}
	}

	viper.SetEnvPrefix("TOPIC_ATLAS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
