// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// The four topic-count heuristics. CaoJuan and Arun are minimized,
// Deveaud and LogLikelihood are maximized. None of them selects a k on
// its own: the caller surfaces the raw series and a human reads off where
// the curves cross or flatten.

// CaoJuan scores inter-topic similarity density: the mean pairwise cosine
// similarity between topic-term distributions. Lower is better; a high
// value means topics duplicate each other.
func CaoJuan(phi [][]float64) float64 {
	k := len(phi)
	if k < 2 {
		return 0
	}
	sum, pairs := 0.0, 0
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			sum += cosine(phi[a], phi[b])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// Deveaud scores topic separation: the mean pairwise Jensen-Shannon
// divergence between topic-term distributions. Higher is better.
func Deveaud(phi [][]float64) float64 {
	k := len(phi)
	if k < 2 {
		return 0
	}
	sum, pairs := 0.0, 0
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			sum += jensenShannon(phi[a], phi[b])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// Arun scores the symmetric KL divergence between the singular-value
// distribution of the topic-term matrix and the document-length-weighted
// topic marginal of theta. Lower is better.
func Arun(m mat.Matrix, theta, phi [][]float64) float64 {
	k := len(phi)
	if k == 0 {
		return 0
	}
	terms := len(phi[0])

	dense := mat.NewDense(k, terms, nil)
	for t, row := range phi {
		dense.SetRow(t, row)
	}
	var svd mat.SVD
	if !svd.Factorize(dense, mat.SVDNone) {
		return math.NaN()
	}
	// The SVD yields min(k, terms) singular values; pad to k so both
	// distributions have one entry per topic even when k exceeds the
	// vocabulary size.
	sv := svd.Values(nil)
	for len(sv) < k {
		sv = append(sv, 0)
	}
	cm1 := normalized(sv)

	// Topic marginal weighted by document length.
	cm2 := make([]float64, k)
	_, docs := m.Dims()
	for j := 0; j < docs; j++ {
		l := docLength(m, j)
		for t := 0; t < k; t++ {
			cm2[t] += l * theta[j][t]
		}
	}
	cm2 = normalized(cm2)

	return kullbackLeibler(cm1, cm2) + kullbackLeibler(cm2, cm1)
}

// LogLikelihood is the in-sample log-likelihood of the count matrix under
// the fitted mixture. Higher is better.
func LogLikelihood(m mat.Matrix, theta, phi [][]float64) float64 {
	terms, docs := m.Dims()
	ll := 0.0
	for j := 0; j < docs; j++ {
		for i := 0; i < terms; i++ {
			c := m.At(i, j)
			if c == 0 {
				continue
			}
			p := 0.0
			for t := range phi {
				p += theta[j][t] * phi[t][i]
			}
			ll += c * math.Log(p+1e-12)
		}
	}
	return ll
}

// Coherence is the mean UMass coherence over topics: for each topic's top
// n terms, sum log((codoc(wi,wj)+1)/doc(wj)) over ordered pairs, using
// document co-occurrence from the count matrix. A diagnostic only; nothing
// acts on a low value automatically.
func Coherence(m mat.Matrix, phi [][]float64, n int) float64 {
	terms, docs := m.Dims()
	if len(phi) == 0 || terms == 0 || docs == 0 {
		return 0
	}

	// Per-term document sets as bitsets over docs.
	present := make([][]bool, terms)
	df := make([]int, terms)
	for i := 0; i < terms; i++ {
		present[i] = make([]bool, docs)
		for j := 0; j < docs; j++ {
			if m.At(i, j) > 0 {
				present[i][j] = true
				df[i]++
			}
		}
	}

	topIdx := topTermIndices(phi, n)
	total := 0.0
	for _, top := range topIdx {
		score := 0.0
		for a := 1; a < len(top); a++ {
			for b := 0; b < a; b++ {
				co := 0
				for j := 0; j < docs; j++ {
					if present[top[a]][j] && present[top[b]][j] {
						co++
					}
				}
				if df[top[b]] > 0 {
					score += math.Log((float64(co) + 1) / float64(df[top[b]]))
				}
			}
		}
		total += score
	}
	return total / float64(len(topIdx))
}

func topTermIndices(phi [][]float64, n int) [][]int {
	out := make([][]int, len(phi))
	for k, row := range phi {
		idx := make([]int, len(row))
		for i := range idx {
			idx[i] = i
		}
		// partial selection sort keeps this cheap for small n
		m := n
		if m > len(idx) {
			m = len(idx)
		}
		for a := 0; a < m; a++ {
			best := a
			for b := a + 1; b < len(idx); b++ {
				if row[idx[b]] > row[idx[best]] {
					best = b
				}
			}
			idx[a], idx[best] = idx[best], idx[a]
		}
		out[k] = idx[:m]
	}
	return out
}

func cosine(a, b []float64) float64 {
	dot, na, nb := 0.0, 0.0, 0.0
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func kullbackLeibler(p, q []float64) float64 {
	d := 0.0
	for i := range p {
		if p[i] <= 0 {
			continue
		}
		d += p[i] * math.Log(p[i]/(q[i]+1e-12))
	}
	return d
}

func jensenShannon(p, q []float64) float64 {
	m := make([]float64, len(p))
	for i := range p {
		m[i] = (p[i] + q[i]) / 2
	}
	return (kullbackLeibler(p, m) + kullbackLeibler(q, m)) / 2
}

func normalized(v []float64) []float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	out := make([]float64, len(v))
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(len(v))
		}
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}

func docLength(m mat.Matrix, j int) float64 {
	terms, _ := m.Dims()
	l := 0.0
	for i := 0; i < terms; i++ {
		l += m.At(i, j)
	}
	return l
}
