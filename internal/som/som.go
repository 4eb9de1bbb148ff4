// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package som trains a 2-D hexagonal self-organizing map over per-document
// feature vectors and places documents on it for visualization export.
package som

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Grid is a trained self-organizing map: Rows x Cols prototype vectors of
// dimension Dim on a hexagonal ("odd-r" offset) topology.
type Grid struct {
	Rows, Cols, Dim int

	// Weights holds the prototype vectors, row-major by node.
	Weights [][]float64

	// QuantErr is the mean distance of every training sample to its best
	// matching unit, recorded once per training pass. Comparing this
	// trajectory across pass budgets shows where extra passes stop paying.
	QuantErr []float64
}

// Scale standardizes each feature column to zero mean and unit variance.
// Constant columns become zero. The input is not modified.
func Scale(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return nil
	}
	dim := len(data[0])
	col := make([]float64, len(data))
	out := make([][]float64, len(data))
	for i := range out {
		out[i] = make([]float64, dim)
	}
	for d := 0; d < dim; d++ {
		for i, row := range data {
			col[i] = row[d]
		}
		mean, std := stat.MeanStdDev(col, nil)
		for i, row := range data {
			if std == 0 || math.IsNaN(std) {
				out[i][d] = 0
				continue
			}
			out[i][d] = (row[d] - mean) / std
		}
	}
	return out
}

// Train fits a Rows x Cols map to data over the given number of passes,
// with linearly decaying learning rate and neighborhood radius. The same
// seed, data, and passes produce an identical map.
func Train(data [][]float64, rows, cols, passes int, seed int64) (*Grid, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no feature vectors to train on")
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("invalid grid %dx%d", rows, cols)
	}
	if passes < 1 {
		return nil, fmt.Errorf("invalid pass count %d", passes)
	}
	dim := len(data[0])

	rnd := rand.New(rand.NewSource(seed))
	g := &Grid{Rows: rows, Cols: cols, Dim: dim}
	g.Weights = make([][]float64, rows*cols)
	for i := range g.Weights {
		w := make([]float64, dim)
		// init with a random training sample plus small noise
		src := data[rnd.Intn(len(data))]
		for d := 0; d < dim; d++ {
			w[d] = src[d] + rnd.NormFloat64()*0.01
		}
		g.Weights[i] = w
	}

	const (
		rateStart = 0.5
		rateEnd   = 0.01
	)
	radiusStart := float64(max(rows, cols)) / 2
	if radiusStart < 1 {
		radiusStart = 1
	}

	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}

	g.QuantErr = make([]float64, 0, passes)
	for pass := 0; pass < passes; pass++ {
		frac := float64(pass) / float64(passes)
		rate := rateStart + (rateEnd-rateStart)*frac
		radius := radiusStart + (1-radiusStart)*frac
		twoSigmaSq := 2 * radius * radius

		rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, idx := range order {
			sample := data[idx]
			bmu := g.nearest(sample)
			br, bc := bmu/cols, bmu%cols
			for node := range g.Weights {
				nr, nc := node/cols, node%cols
				d := hexDistance(br, bc, nr, nc)
				h := math.Exp(-d * d / twoSigmaSq)
				if h < 1e-4 {
					continue
				}
				w := g.Weights[node]
				for dd := 0; dd < dim; dd++ {
					w[dd] += rate * h * (sample[dd] - w[dd])
				}
			}
		}

		sum := 0.0
		for _, sample := range data {
			sum += math.Sqrt(g.distSq(g.nearest(sample), sample))
		}
		g.QuantErr = append(g.QuantErr, sum/float64(len(data)))
	}

	return g, nil
}

// Nearest returns the coordinates of the winning prototype for v. Ties
// resolve to the lowest node index, so the assignment is deterministic for
// a fixed trained map (including for all-zero vectors).
func (g *Grid) Nearest(v []float64) (row, col int) {
	n := g.nearest(v)
	return n / g.Cols, n % g.Cols
}

func (g *Grid) nearest(v []float64) int {
	best, bestD := 0, math.Inf(1)
	for i := range g.Weights {
		if d := g.distSq(i, v); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func (g *Grid) distSq(node int, v []float64) float64 {
	w := g.Weights[node]
	d := 0.0
	for i := range w {
		diff := w[i] - v[i]
		d += diff * diff
	}
	return d
}

// hexDistance is the hex-grid distance between two nodes in odd-r offset
// coordinates, via cube coordinates.
func hexDistance(r1, c1, r2, c2 int) float64 {
	x1 := c1 - (r1-(r1&1))/2
	z1 := r1
	y1 := -x1 - z1
	x2 := c2 - (r2-(r2&1))/2
	z2 := r2
	y2 := -x2 - z2
	return float64(abs(x1-x2)+abs(y1-y2)+abs(z1-z2)) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
