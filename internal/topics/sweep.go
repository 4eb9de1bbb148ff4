// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// Sweep fits a model at every candidate topic count in [minK, maxK] with
// stride step and computes the four heuristic scores per candidate. A
// failed candidate is reported to w with its k and skipped; the sweep
// continues. The returned series are advisory: no k is auto-selected.
func Sweep(m mat.Matrix, fitter Fitter, minK, maxK, step int, opts Options, w io.Writer) ([]types.KScores, error) {
	if minK < 2 || maxK < minK {
		return nil, fmt.Errorf("invalid candidate range [%d, %d]", minK, maxK)
	}
	if step <= 0 {
		step = 1
	}

	var scores []types.KScores
	for k := minK; k <= maxK; k += step {
		r, err := fitter.Fit(m, k, opts)
		if err != nil {
			fmt.Fprintf(w, "warning: k=%d failed: %v\n", k, err)
			scores = append(scores, types.KScores{K: k, Err: err.Error()})
			continue
		}

		s := types.KScores{
			K:             k,
			CaoJuan:       CaoJuan(r.Phi),
			Arun:          Arun(m, r.Theta, r.Phi),
			Deveaud:       Deveaud(r.Phi),
			LogLikelihood: LogLikelihood(m, r.Theta, r.Phi),
		}
		scores = append(scores, s)
		fmt.Fprintf(w, "k=%-3d cao_juan=%.4f arun=%.4f deveaud=%.4f log_lik=%.1f\n",
			k, s.CaoJuan, s.Arun, s.Deveaud, s.LogLikelihood)
	}
	return scores, nil
}
