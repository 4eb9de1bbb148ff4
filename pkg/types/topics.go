// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TopicResult holds the output of one topic-model fit. Never mutated after
// fitting; reruns produce a fresh value.
type TopicResult struct {
	// Procedure names the estimation procedure ("variational" or "gibbs").
	Procedure string `json:"procedure" yaml:"procedure"`

	// K is the number of topics fitted.
	K int `json:"k" yaml:"k"`

	// Seed is the random seed the fit ran under.
	Seed int64 `json:"seed" yaml:"seed"`

	// DocIDs gives the document order of the Theta rows.
	DocIDs []string `json:"doc_ids" yaml:"doc_ids"`

	// Theta is the per-document topic distribution, docs x K. Each row
	// sums to 1 within floating-point tolerance.
	Theta [][]float64 `json:"theta" yaml:"theta"`

	// Phi is the per-topic term distribution, K x vocabulary size. Each
	// row sums to 1 within floating-point tolerance.
	Phi [][]float64 `json:"phi,omitempty" yaml:"phi,omitempty"`

	// TopTerms lists, per topic, the highest-weighted terms.
	TopTerms [][]string `json:"top_terms" yaml:"top_terms"`

	// LogLikelihood is the in-sample log-likelihood diagnostic.
	LogLikelihood float64 `json:"log_likelihood" yaml:"log_likelihood"`

	// Coherence is the mean UMass topic coherence diagnostic. Surfaced
	// for human interpretation; nothing acts on it automatically.
	Coherence float64 `json:"coherence" yaml:"coherence"`
}

// DominantTopic returns the index of the highest-probability topic for the
// document at row i.
func (r TopicResult) DominantTopic(i int) int {
	best, arg := -1.0, 0
	for k, p := range r.Theta[i] {
		if p > best {
			best, arg = p, k
		}
	}
	return arg
}

// KScores holds the four heuristic scores for one candidate topic count.
// CaoJuan and Arun are oriented toward a minimum, Deveaud and
// LogLikelihood toward a maximum. Selection is advisory: the series are
// surfaced for a human to inspect, never auto-selected from.
type KScores struct {
	K             int     `json:"k" yaml:"k"`
	CaoJuan       float64 `json:"cao_juan" yaml:"cao_juan"`
	Arun          float64 `json:"arun" yaml:"arun"`
	Deveaud       float64 `json:"deveaud" yaml:"deveaud"`
	LogLikelihood float64 `json:"log_likelihood" yaml:"log_likelihood"`

	// Err records a per-candidate fit failure. A failed candidate is
	// skipped; it does not abort the sweep.
	Err string `json:"err,omitempty" yaml:"err,omitempty"`
}
