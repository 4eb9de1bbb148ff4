// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package som

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// clusteredData builds two tight clusters of 3-D vectors, far apart.
func clusteredData() [][]float64 {
	return [][]float64{
		{0.9, 0.05, 0.05},
		{0.85, 0.1, 0.05},
		{0.92, 0.04, 0.04},
		{0.05, 0.05, 0.9},
		{0.1, 0.05, 0.85},
		{0.04, 0.04, 0.92},
	}
}

func TestScaleStandardizesColumns(t *testing.T) {
	data := [][]float64{
		{1, 5, 7},
		{2, 5, 9},
		{3, 5, 11},
	}
	scaled := Scale(data)
	require.Len(t, scaled, 3)

	for d := 0; d < 3; d++ {
		sum := 0.0
		for i := range scaled {
			sum += scaled[i][d]
		}
		assert.InDelta(t, 0.0, sum, 1e-12, "column %d mean", d)
	}
	// Constant column becomes zero everywhere.
	for i := range scaled {
		assert.Zero(t, scaled[i][1])
	}
	// Input untouched.
	assert.Equal(t, 1.0, data[0][0])
}

func TestScaleEmpty(t *testing.T) {
	assert.Nil(t, Scale(nil))
}

func TestTrainDeterministicUnderSeed(t *testing.T) {
	data := clusteredData()

	a, err := Train(data, 4, 4, 20, 9)
	require.NoError(t, err)
	b, err := Train(data, 4, 4, 20, 9)
	require.NoError(t, err)

	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.QuantErr, b.QuantErr)
}

func TestTrainRecordsQuantErrPerPass(t *testing.T) {
	data := clusteredData()
	g, err := Train(data, 4, 4, 15, 1)
	require.NoError(t, err)

	require.Len(t, g.QuantErr, 15)
	for _, qe := range g.QuantErr {
		assert.False(t, math.IsNaN(qe))
		assert.GreaterOrEqual(t, qe, 0.0)
	}
	// Training should leave the map better fitted than it started.
	assert.Less(t, g.QuantErr[len(g.QuantErr)-1], g.QuantErr[0])
}

func TestTrainSeparatesClusters(t *testing.T) {
	data := clusteredData()
	g, err := Train(data, 5, 5, 60, 3)
	require.NoError(t, err)

	// The two clusters must not collapse onto one node, and every sample's
	// winning prototype must sit closer to its own cluster's centroid than
	// to the other's.
	r0, c0 := g.Nearest(data[0])
	r3, c3 := g.Nearest(data[3])
	assert.False(t, r0 == r3 && c0 == c3, "distant clusters mapped to one node")

	centroid := func(vs [][]float64) []float64 {
		c := make([]float64, len(vs[0]))
		for _, v := range vs {
			for d := range v {
				c[d] += v[d] / float64(len(vs))
			}
		}
		return c
	}
	dist := func(a, b []float64) float64 {
		s := 0.0
		for i := range a {
			s += (a[i] - b[i]) * (a[i] - b[i])
		}
		return s
	}
	centA, centB := centroid(data[:3]), centroid(data[3:])
	for i, v := range data {
		r, c := g.Nearest(v)
		proto := g.Weights[r*g.Cols+c]
		own, other := centA, centB
		if i >= 3 {
			own, other = centB, centA
		}
		assert.Less(t, dist(proto, own), dist(proto, other), "sample %d won a prototype nearer the wrong cluster", i)
	}
}

func TestTrainRejectsBadArguments(t *testing.T) {
	data := clusteredData()

	_, err := Train(nil, 4, 4, 10, 1)
	assert.Error(t, err)
	_, err = Train(data, 0, 4, 10, 1)
	assert.Error(t, err)
	_, err = Train(data, 4, 4, 0, 1)
	assert.Error(t, err)
}

func TestNearestTieBreaksToLowestIndex(t *testing.T) {
	// All prototypes identical: every vector ties everywhere and must land
	// on node 0. This is the all-zero input-vector case too.
	g := &Grid{Rows: 2, Cols: 2, Dim: 2}
	g.Weights = [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}}

	row, col := g.Nearest([]float64{0, 0})
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
}

func TestHexDistanceNeighbors(t *testing.T) {
	// In odd-r offset coordinates, (1,1) touches all six of these.
	neighbors := [][2]int{{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}
	for _, n := range neighbors {
		assert.Equal(t, 1.0, hexDistance(1, 1, n[0], n[1]), "node %v", n)
	}
	assert.Equal(t, 0.0, hexDistance(1, 1, 1, 1))
	assert.Equal(t, 2.0, hexDistance(0, 0, 0, 2))
}

func TestPlaceJitterReproducibleAndBounded(t *testing.T) {
	data := clusteredData()
	g, err := Train(data, 4, 4, 30, 5)
	require.NoError(t, err)

	result := types.TopicResult{
		DocIDs: []string{"d0", "d1", "d2", "d3", "d4", "d5"},
		Theta: [][]float64{
			{0.9, 0.1}, {0.8, 0.2}, {0.7, 0.3},
			{0.1, 0.9}, {0.2, 0.8}, {0.3, 0.7},
		},
	}

	a, err := Place(g, data, result, 11)
	require.NoError(t, err)
	b, err := Place(g, data, result, 11)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same jitter seed reproduces coordinates exactly")

	c, err := Place(g, data, result, 12)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "a different jitter seed moves points")

	for i, p := range a {
		assert.Equal(t, result.DocIDs[i], p.DocID)
		assert.LessOrEqual(t, math.Abs(p.X-float64(p.Col)), jitterSpread)
		assert.LessOrEqual(t, math.Abs(p.Y-float64(p.Row)), jitterSpread)
	}

	// Dominant topics follow theta.
	assert.Equal(t, 0, a[0].DominantTopic)
	assert.Equal(t, 1, a[3].DominantTopic)
}

func TestPlaceRejectsMismatchedRows(t *testing.T) {
	g := &Grid{Rows: 1, Cols: 1, Dim: 2, Weights: [][]float64{{0, 0}}}
	_, err := Place(g, [][]float64{{1, 2}}, types.TopicResult{DocIDs: []string{"a", "b"}}, 1)
	assert.Error(t, err)
}

func TestPlacementCSVRoundTrip(t *testing.T) {
	placements := []types.Placement{
		{DocID: "d0", Row: 1, Col: 2, X: 2.125, Y: 0.75, DominantTopic: 3},
		{DocID: "d1", Row: 0, Col: 0, X: -0.25, Y: 0.375, DominantTopic: -1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, placements))
	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, placements, back)
}

func TestReadCSVRejectsBadHeader(t *testing.T) {
	_, err := ReadCSV(bytes.NewBufferString("nope,header\n"))
	assert.Error(t, err)
}
