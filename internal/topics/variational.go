// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"fmt"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// defaultVariationalIterations bounds the online variational fit when the
// caller does not set one.
const defaultVariationalIterations = 100

// Variational wraps the online variational Latent Dirichlet Allocation
// from james-bowman/nlp.
type Variational struct{}

// Name implements Fitter.
func (Variational) Name() string { return "variational" }

// Fit trains the variational model on the term-document count matrix and
// returns normalized document-topic and topic-term distributions.
func (Variational) Fit(m mat.Matrix, k int, opts Options) (Result, error) {
	terms, docs := m.Dims()
	if k < 2 || docs == 0 || terms == 0 {
		return Result{}, fmt.Errorf("degenerate input: %d terms x %d docs at k=%d", terms, docs, k)
	}

	lda := nlp.NewLatentDirichletAllocation(k)
	lda.Rnd = rand.New(rand.NewSource(uint64(opts.Seed)))
	if opts.Iterations > 0 {
		lda.Iterations = opts.Iterations
	} else {
		lda.Iterations = defaultVariationalIterations
	}
	// A single process unless asked otherwise: the library's default is
	// GOMAXPROCS, which breaks same-seed reproducibility.
	lda.Processes = 1
	if opts.Workers > 0 {
		lda.Processes = opts.Workers
	}

	docsOverTopics, err := lda.FitTransform(m)
	if err != nil {
		return Result{}, fmt.Errorf("variational fit (k=%d): %w", k, err)
	}

	// FitTransform yields topics x docs; Components yields topics x terms.
	theta := make([][]float64, docs)
	for j := 0; j < docs; j++ {
		row := make([]float64, k)
		for t := 0; t < k; t++ {
			row[t] = docsOverTopics.At(t, j)
		}
		theta[j] = row
	}

	topicsOverWords := lda.Components()
	phi := make([][]float64, k)
	for t := 0; t < k; t++ {
		row := make([]float64, terms)
		for i := 0; i < terms; i++ {
			row[i] = topicsOverWords.At(t, i)
		}
		phi[t] = row
	}

	normalizeRows(theta)
	normalizeRows(phi)

	r := Result{Theta: theta, Phi: phi}
	if err := validate(r, k, docs, terms); err != nil {
		return Result{}, fmt.Errorf("variational fit (k=%d): %w", k, err)
	}
	return r, nil
}
