// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weight

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/topic-atlas/internal/textnorm"
	"github.com/meshintel/topic-atlas/pkg/types"
)

func tok(doc, term string) types.Token {
	return types.Token{DocID: doc, Term: term}
}

func TestComputeTFIDFInvariants(t *testing.T) {
	tokens := []types.Token{
		tok("a", "labour"), tok("a", "growth"), tok("a", "labour"),
		tok("b", "labour"), tok("b", "market"),
	}
	weights, docIDs := Compute(tokens)

	assert.Equal(t, []string{"a", "b"}, docIDs)
	for _, w := range weights {
		assert.GreaterOrEqual(t, w.TFIDF, 0.0, "tfidf must be non-negative for %s/%s", w.DocID, w.Term)
		assert.Positive(t, w.Count, "only observed (doc, term) pairs are emitted")
	}

	// Absent pairs are not emitted at all: zero tfidf iff term absent.
	for _, w := range weights {
		if w.DocID == "b" {
			assert.NotEqual(t, "growth", w.Term)
		}
	}
}

func TestComputeIDFOrdering(t *testing.T) {
	// Doc A: "Economic growth in labour economics", doc B: "Labour market
	// economics policy". "labour" appears in both; its idf must be
	// strictly less than that of single-document terms.
	n := textnorm.New()
	var tokens []types.Token
	for _, p := range []types.Publication{
		{ID: "a", Title: "Economic growth in labour economics"},
		{ID: "b", Title: "Labour market economics policy"},
	} {
		tokens = append(tokens, n.Tokens(p)...)
	}

	weights, _ := Compute(tokens)
	byTerm := make(map[string]types.TermWeight)
	docsWith := make(map[string]int)
	for _, w := range weights {
		byTerm[w.Term] = w
		docsWith[w.Term]++
	}

	labour, ok := byTerm["labour"]
	require.True(t, ok, "stem labour must survive normalization")
	assert.Equal(t, 2, docsWith["labour"])
	assert.InDelta(t, 0.0, labour.IDF, 1e-12, "idf of a term in every document is ln(2/2)=0")

	growth, ok := byTerm["growth"]
	require.True(t, ok)
	assert.Equal(t, 1, docsWith["growth"])
	assert.Less(t, labour.IDF, growth.IDF)
	assert.InDelta(t, math.Log(2), growth.IDF, 1e-12)

	// Both documents carry labour with nonzero term frequency.
	count := 0
	for _, w := range weights {
		if w.Term == "labour" {
			assert.Positive(t, w.TF)
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestComputeTFSumsToOnePerDocument(t *testing.T) {
	tokens := []types.Token{
		tok("a", "x"), tok("a", "y"), tok("a", "y"), tok("a", "z"),
	}
	weights, _ := Compute(tokens)
	sum := 0.0
	for _, w := range weights {
		sum += w.TF
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestCutoffDiscardsAtOrBelowMedian(t *testing.T) {
	// Two docs sharing "common" (idf 0, so tfidf 0) plus distinct terms.
	tokens := []types.Token{
		tok("a", "common"), tok("a", "alpha"),
		tok("b", "common"), tok("b", "beta"), tok("b", "beta"),
	}
	weights, _ := Compute(tokens)
	cut, kept := Cutoff(weights, 0.5)

	assert.Less(t, len(kept), len(weights), "ties at or below the median must shrink the table")
	for _, w := range kept {
		assert.Greater(t, w.TFIDF, cut)
	}
	// The zero-tfidf shared term never survives a median cutoff here.
	for _, w := range kept {
		assert.NotEqual(t, "common", w.Term)
	}
}

func TestCutoffEmptyInput(t *testing.T) {
	cut, kept := Cutoff(nil, 0.5)
	assert.Zero(t, cut)
	assert.Empty(t, kept)
}

func TestMatrixShapeAndCounts(t *testing.T) {
	tokens := []types.Token{
		tok("a", "labour"), tok("a", "labour"), tok("a", "growth"),
		tok("b", "market"),
	}
	weights, docIDs := Compute(tokens)
	m, vocab := Matrix(weights, docIDs)

	rows, cols := m.Dims()
	assert.Equal(t, len(vocab), rows)
	assert.Equal(t, 2, cols)

	termRow := make(map[string]int, len(vocab))
	for i, term := range vocab {
		termRow[term] = i
	}
	assert.Equal(t, 2.0, m.At(termRow["labour"], 0))
	assert.Equal(t, 1.0, m.At(termRow["growth"], 0))
	assert.Equal(t, 0.0, m.At(termRow["growth"], 1))
	assert.Equal(t, 1.0, m.At(termRow["market"], 1))
}

func TestDocOrderAfterCutoff(t *testing.T) {
	weights := []types.TermWeight{
		{DocID: "b", Term: "x"},
		{DocID: "a", Term: "y"},
		{DocID: "b", Term: "z"},
	}
	assert.Equal(t, []string{"b", "a"}, DocOrder(weights))
}

func TestCSVRoundTrip(t *testing.T) {
	tokens := []types.Token{
		tok("a", "labour"), tok("a", "growth"), tok("b", "market"),
	}
	weights, _ := Compute(tokens)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, weights))
	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, weights, back)
}
