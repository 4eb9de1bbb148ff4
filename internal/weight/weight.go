// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package weight computes term-document tf-idf weights and builds the
// document-term matrix the topic models consume.
package weight

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// Compute derives one TermWeight per distinct (document, term) pair from
// the normalized token multiset. tf is the raw count over the document's
// token total; idf is ln(N / document frequency), computed only for
// observed terms so it is always defined. Documents keep first-appearance
// order; terms are sorted within a document.
func Compute(tokens []types.Token) ([]types.TermWeight, []string) {
	counts := make(map[string]map[string]int) // doc -> term -> count
	docLens := make(map[string]int)
	var docIDs []string

	for _, tok := range tokens {
		if _, ok := counts[tok.DocID]; !ok {
			counts[tok.DocID] = make(map[string]int)
			docIDs = append(docIDs, tok.DocID)
		}
		counts[tok.DocID][tok.Term]++
		docLens[tok.DocID]++
	}

	df := make(map[string]int)
	for _, terms := range counts {
		for t := range terms {
			df[t]++
		}
	}

	n := float64(len(docIDs))
	var weights []types.TermWeight
	for _, doc := range docIDs {
		terms := make([]string, 0, len(counts[doc]))
		for t := range counts[doc] {
			terms = append(terms, t)
		}
		sort.Strings(terms)
		for _, t := range terms {
			c := counts[doc][t]
			tf := float64(c) / float64(docLens[doc])
			idf := math.Log(n / float64(df[t]))
			weights = append(weights, types.TermWeight{
				DocID: doc,
				Term:  t,
				Count: c,
				TF:    tf,
				IDF:   idf,
				TFIDF: tf * idf,
			})
		}
	}
	return weights, docIDs
}

// Cutoff applies the quantile cutoff rule: entries whose tf-idf is at or
// below the q-quantile of the full multiset are discarded. q = 0.5 is the
// median cutoff the original analysis hard-codes. Returns the cutoff value
// and the retained entries.
func Cutoff(weights []types.TermWeight, q float64) (float64, []types.TermWeight) {
	if len(weights) == 0 {
		return 0, nil
	}
	vals := make([]float64, len(weights))
	for i, w := range weights {
		vals[i] = w.TFIDF
	}
	sort.Float64s(vals)
	cut := stat.Quantile(q, stat.Empirical, vals, nil)

	kept := make([]types.TermWeight, 0, len(weights)/2)
	for _, w := range weights {
		if w.TFIDF > cut {
			kept = append(kept, w)
		}
	}
	return cut, kept
}

// WriteCSV writes the weight table in its dense, term-indexed form for
// external consumption.
func WriteCSV(w io.Writer, weights []types.TermWeight) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"doc_id", "term", "count", "tf", "idf", "tfidf"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, tw := range weights {
		rec := []string{
			tw.DocID,
			tw.Term,
			strconv.Itoa(tw.Count),
			strconv.FormatFloat(tw.TF, 'g', -1, 64),
			strconv.FormatFloat(tw.IDF, 'g', -1, 64),
			strconv.FormatFloat(tw.TFIDF, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a weight table previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]types.TermWeight, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != 6 || header[0] != "doc_id" {
		return nil, fmt.Errorf("unexpected weight table header %v", header)
	}

	var weights []types.TermWeight
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		count, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: count: %w", line, err)
		}
		tf, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: tf: %w", line, err)
		}
		idf, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: idf: %w", line, err)
		}
		tfidf, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: tfidf: %w", line, err)
		}
		weights = append(weights, types.TermWeight{
			DocID: rec[0], Term: rec[1], Count: count,
			TF: tf, IDF: idf, TFIDF: tfidf,
		})
	}
	return weights, nil
}
