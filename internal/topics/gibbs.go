// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// defaultGibbsIterations is the sweep count over every word instance when
// the caller does not set one.
const defaultGibbsIterations = 200

// Gibbs is a collapsed Gibbs sampler for Latent Dirichlet Allocation. It
// is the sampling-based counterpart to the variational procedure; the two
// are fitted on the same matrix so their topic definitions can be compared.
type Gibbs struct {
	// Alpha and Beta are the Dirichlet priors on document-topic and
	// topic-term distributions. Zero values select 50/k and 0.1.
	Alpha float64
	Beta  float64
}

// Name implements Fitter.
func (Gibbs) Name() string { return "gibbs" }

// Fit runs the sampler to completion and estimates theta and phi from the
// final assignment counts.
func (g Gibbs) Fit(m mat.Matrix, k int, opts Options) (Result, error) {
	terms, docs := m.Dims()
	if k < 2 || docs == 0 || terms == 0 {
		return Result{}, fmt.Errorf("degenerate input: %d terms x %d docs at k=%d", terms, docs, k)
	}

	alpha := g.Alpha
	if alpha == 0 {
		alpha = 50 / float64(k)
	}
	beta := g.Beta
	if beta == 0 {
		beta = 0.1
	}
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = defaultGibbsIterations
	}

	// Expand the count matrix into word instances, document-major so the
	// sampling order is deterministic for a given matrix.
	type instance struct{ doc, term int }
	var words []instance
	for j := 0; j < docs; j++ {
		for i := 0; i < terms; i++ {
			for c := 0; c < int(m.At(i, j)); c++ {
				words = append(words, instance{doc: j, term: i})
			}
		}
	}
	if len(words) == 0 {
		return Result{}, fmt.Errorf("empty document-term matrix at k=%d", k)
	}

	rnd := rand.New(rand.NewSource(opts.Seed))

	ndk := make([][]int, docs) // doc -> topic counts
	for j := range ndk {
		ndk[j] = make([]int, k)
	}
	nkw := make([][]int, k) // topic -> term counts
	for t := range nkw {
		nkw[t] = make([]int, terms)
	}
	nk := make([]int, k)         // topic totals
	z := make([]int, len(words)) // current assignment per word instance

	for w, inst := range words {
		t := rnd.Intn(k)
		z[w] = t
		ndk[inst.doc][t]++
		nkw[t][inst.term]++
		nk[t]++
	}

	vBeta := float64(terms) * beta
	probs := make([]float64, k)

	for it := 0; it < iterations; it++ {
		for w, inst := range words {
			t := z[w]
			ndk[inst.doc][t]--
			nkw[t][inst.term]--
			nk[t]--

			total := 0.0
			for c := 0; c < k; c++ {
				p := (float64(ndk[inst.doc][c]) + alpha) *
					(float64(nkw[c][inst.term]) + beta) /
					(float64(nk[c]) + vBeta)
				probs[c] = p
				total += p
			}

			u := rnd.Float64() * total
			t = k - 1
			for c := 0; c < k; c++ {
				u -= probs[c]
				if u < 0 {
					t = c
					break
				}
			}

			z[w] = t
			ndk[inst.doc][t]++
			nkw[t][inst.term]++
			nk[t]++
		}
	}

	theta := make([][]float64, docs)
	for j := 0; j < docs; j++ {
		row := make([]float64, k)
		docLen := 0
		for _, c := range ndk[j] {
			docLen += c
		}
		for t := 0; t < k; t++ {
			row[t] = (float64(ndk[j][t]) + alpha) / (float64(docLen) + float64(k)*alpha)
		}
		theta[j] = row
	}
	phi := make([][]float64, k)
	for t := 0; t < k; t++ {
		row := make([]float64, terms)
		for i := 0; i < terms; i++ {
			row[i] = (float64(nkw[t][i]) + beta) / (float64(nk[t]) + vBeta)
		}
		phi[t] = row
	}

	normalizeRows(theta)
	normalizeRows(phi)

	r := Result{Theta: theta, Phi: phi}
	if err := validate(r, k, docs, terms); err != nil {
		return Result{}, fmt.Errorf("gibbs fit (k=%d): %w", k, err)
	}
	return r, nil
}
