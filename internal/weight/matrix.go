// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weight

import (
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// Matrix builds the sparse document-term count matrix from retained weight
// entries. Rows are terms (sorted), columns are documents (given order),
// cells are raw counts. The orientation matches what the topic-model
// fitting procedures expect.
func Matrix(weights []types.TermWeight, docIDs []string) (*sparse.CSR, []string) {
	vocabSet := make(map[string]struct{})
	for _, w := range weights {
		vocabSet[w.Term] = struct{}{}
	}
	vocab := make([]string, 0, len(vocabSet))
	for t := range vocabSet {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	termIdx := make(map[string]int, len(vocab))
	for i, t := range vocab {
		termIdx[t] = i
	}
	docIdx := make(map[string]int, len(docIDs))
	for j, d := range docIDs {
		docIdx[d] = j
	}

	dok := sparse.NewDOK(len(vocab), len(docIDs))
	for _, w := range weights {
		j, ok := docIdx[w.DocID]
		if !ok {
			continue
		}
		dok.Set(termIdx[w.Term], j, float64(w.Count))
	}
	return dok.ToCSR(), vocab
}

// DocOrder returns the distinct document ids of a weight table in
// first-appearance order. Useful after a cutoff has removed every entry of
// some documents.
func DocOrder(weights []types.TermWeight) []string {
	seen := make(map[string]struct{})
	var docIDs []string
	for _, w := range weights {
		if _, ok := seen[w.DocID]; !ok {
			seen[w.DocID] = struct{}{}
			docIDs = append(docIDs, w.DocID)
		}
	}
	return docIDs
}
