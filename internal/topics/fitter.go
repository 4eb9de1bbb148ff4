// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics fits probabilistic topic models behind a narrow interface
// and scores candidate topic counts with four selection heuristics.
//
// Two independent estimation procedures are wrapped: an online variational
// fit and a collapsed Gibbs sampler. Both consume the same term-document
// count matrix at the same k so their topic definitions can be
// cross-checked by comparing top-term lists.
package topics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// Options carries the knobs every fitting procedure accepts.
type Options struct {
	// Seed makes the stochastic fit reproducible: the same seed, matrix,
	// and k yield identical output.
	Seed int64

	// Iterations bounds the training iterations (procedure-specific
	// default when zero).
	Iterations int

	// Workers is passed through to procedures that can parallelize
	// internally.
	Workers int
}

// Result holds the raw distributions of one fit. Theta is docs x k, Phi is
// k x vocabulary; every row of each sums to 1 within floating-point
// tolerance.
type Result struct {
	Theta [][]float64
	Phi   [][]float64
}

// Fitter is a topic-model estimation procedure. The input matrix has terms
// as rows and documents as columns, cells holding raw counts.
type Fitter interface {
	Name() string
	Fit(m mat.Matrix, k int, opts Options) (Result, error)
}

// TopTerms returns, per topic, the n highest-weighted terms.
func TopTerms(phi [][]float64, vocab []string, n int) [][]string {
	top := make([][]string, len(phi))
	for k, row := range phi {
		idx := make([]int, len(row))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] > row[idx[b]] })
		m := n
		if m > len(idx) {
			m = len(idx)
		}
		terms := make([]string, m)
		for i := 0; i < m; i++ {
			terms[i] = vocab[idx[i]]
		}
		top[k] = terms
	}
	return top
}

// normalizeRows scales each row to sum to 1. Rows that sum to zero become
// uniform so downstream divergences stay defined.
func normalizeRows(rows [][]float64) {
	for _, row := range rows {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			for i := range row {
				row[i] = 1 / float64(len(row))
			}
			continue
		}
		for i := range row {
			row[i] /= sum
		}
	}
}

// validate checks the distribution invariants on a fit result.
func validate(r Result, k, docs, terms int) error {
	if len(r.Theta) != docs || len(r.Phi) != k {
		return fmt.Errorf("result shape mismatch: theta %d docs, phi %d topics", len(r.Theta), len(r.Phi))
	}
	for i, row := range r.Theta {
		if err := checkSimplex(row, k); err != nil {
			return fmt.Errorf("theta row %d: %w", i, err)
		}
	}
	for i, row := range r.Phi {
		if err := checkSimplex(row, terms); err != nil {
			return fmt.Errorf("phi row %d: %w", i, err)
		}
	}
	return nil
}

func checkSimplex(row []float64, want int) error {
	if len(row) != want {
		return fmt.Errorf("length %d, want %d", len(row), want)
	}
	sum := 0.0
	for _, v := range row {
		if v < 0 {
			return fmt.Errorf("negative probability %g", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("sums to %g, want 1", sum)
	}
	return nil
}

// Describe assembles the exportable TopicResult for one fit.
func Describe(name string, k int, opts Options, r Result, m mat.Matrix, vocab, docIDs []string, topN int) types.TopicResult {
	if topN <= 0 {
		topN = 10
	}
	return types.TopicResult{
		Procedure:     name,
		K:             k,
		Seed:          opts.Seed,
		DocIDs:        docIDs,
		Theta:         r.Theta,
		Phi:           r.Phi,
		TopTerms:      TopTerms(r.Phi, vocab, topN),
		LogLikelihood: LogLikelihood(m, r.Theta, r.Phi),
		Coherence:     Coherence(m, r.Phi, topN),
	}
}
