// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IngestConfig holds settings for the ingestion stage.
type IngestConfig struct {
	// InputPath is the source CSV of publication records.
	InputPath string `json:"input_path" yaml:"input_path"`

	// CorpusDir is the directory for pipeline artifacts (contains
	// publications.yaml and the weight tables).
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// Language is the language code rows must carry (default "eng").
	Language string `json:"language" yaml:"language"`

	// PubType is the publication-type code identifying journal articles
	// (default "article").
	PubType string `json:"pub_type" yaml:"pub_type"`
}

// TermsConfig holds settings for normalization and term weighting.
type TermsConfig struct {
	// CorpusDir is the directory for pipeline artifacts.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// ExtraStopwords extends the built-in English stop-word set.
	ExtraStopwords []string `json:"extra_stopwords,omitempty" yaml:"extra_stopwords,omitempty"`

	// CutoffQuantile is the tf-idf quantile below or at which entries are
	// discarded before matrix construction. The analysis this tool grew
	// out of hard-codes the median; it is surfaced here because the value
	// needs tuning per corpus (default 0.5).
	CutoffQuantile float64 `json:"cutoff_quantile" yaml:"cutoff_quantile"`
}

// ModelConfig holds shared settings for stages that fit topic models.
type ModelConfig struct {
	// Seed makes the stochastic fitting procedures reproducible.
	Seed int64 `json:"seed" yaml:"seed"`

	// Iterations bounds the fitting iterations per model.
	Iterations int `json:"iterations" yaml:"iterations"`

	// Workers is the worker count handed to fitting procedures that can
	// parallelize internally (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// TopTerms is how many top-weighted terms to report per topic
	// (default 10).
	TopTerms int `json:"top_terms" yaml:"top_terms"`
}

// SweepConfig holds settings for the topic-count heuristic sweep.
type SweepConfig struct {
	ModelConfig `yaml:",inline"`

	// MinK and MaxK bound the inclusive candidate range; Step is the
	// stride through it.
	MinK int `json:"min_k" yaml:"min_k"`
	MaxK int `json:"max_k" yaml:"max_k"`
	Step int `json:"step" yaml:"step"`

	// CorpusDir and AnalysisDir locate input artifacts and outputs.
	CorpusDir   string `json:"corpus_dir" yaml:"corpus_dir"`
	AnalysisDir string `json:"analysis_dir" yaml:"analysis_dir"`
}

// FitConfig holds settings for fitting the final topic models.
type FitConfig struct {
	ModelConfig `yaml:",inline"`

	// K is the chosen topic count.
	K int `json:"k" yaml:"k"`

	CorpusDir   string `json:"corpus_dir" yaml:"corpus_dir"`
	AnalysisDir string `json:"analysis_dir" yaml:"analysis_dir"`
}

// SOMConfig holds settings for the self-organizing map projection.
type SOMConfig struct {
	// Rows and Cols fix the hexagonal grid dimensions.
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`

	// Passes lists the training-pass budgets to train and compare
	// (e.g. 500 and 1000); the last budget's map is the one exported.
	Passes []int `json:"passes" yaml:"passes"`

	// Seed drives prototype initialization, sample order, and jitter.
	Seed int64 `json:"seed" yaml:"seed"`

	AnalysisDir string `json:"analysis_dir" yaml:"analysis_dir"`
}

// StoreConfig holds settings for the SQLite results store.
type StoreConfig struct {
	// StoreDir is the directory holding atlas.db and export.yaml.
	StoreDir string `json:"store_dir" yaml:"store_dir"`

	// MaxResults is the default maximum number of query results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Ingest IngestConfig `json:"ingest" yaml:"ingest"`
	Terms  TermsConfig  `json:"terms" yaml:"terms"`
	Sweep  SweepConfig  `json:"sweep" yaml:"sweep"`
	Fit    FitConfig    `json:"fit" yaml:"fit"`
	SOM    SOMConfig    `json:"som" yaml:"som"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
