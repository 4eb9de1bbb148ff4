// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm turns raw publication text into cleaned, stemmed tokens.
//
// The pipeline per token: lowercase, exact-match stop-word removal, retain
// the longest contiguous run of lowercase letters or apostrophes, stem
// (English), then drop empties and missing-data artifacts ("na") that
// upstream spreadsheets miscode as text.
package textnorm

import (
	"iter"
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// wordRun matches one contiguous run of lowercase letters or apostrophes.
var wordRun = regexp.MustCompile(`[a-z']+`)

// Normalizer tokenizes and stems document text against a stop-word set.
type Normalizer struct {
	stops map[string]struct{}
}

// New returns a Normalizer with the built-in English stop-word set plus
// any extras.
func New(extraStops ...string) *Normalizer {
	stops := englishStops()
	for _, s := range extraStops {
		stops[strings.ToLower(s)] = struct{}{}
	}
	return &Normalizer{stops: stops}
}

// Terms normalizes raw text into an ordered sequence of stemmed terms.
// Normalization is idempotent: feeding the output back in reproduces it.
func (n *Normalizer) Terms(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	terms := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, stop := n.stops[tok]; stop {
			continue
		}
		run := longestRun(tok)
		if len(run) < 2 {
			continue
		}
		stem := english.Stem(run, false)
		if stem == "" || stem == "na" || types.IsMissing(stem) {
			continue
		}
		// A stem can collapse onto a stop word ("cans" -> "can"); dropping
		// it here keeps normalization idempotent.
		if _, stop := n.stops[stem]; stop {
			continue
		}
		terms = append(terms, stem)
	}
	return terms
}

// longestRun returns the longest [a-z']+ run in tok, or "" if none.
func longestRun(tok string) string {
	best := ""
	for _, run := range wordRun.FindAllString(tok, -1) {
		if len(run) > len(best) {
			best = run
		}
	}
	return best
}

// Tokens normalizes one publication's concatenated text fields into
// (document id, term) pairs.
func (n *Normalizer) Tokens(p types.Publication) []types.Token {
	terms := n.Terms(p.Text())
	tokens := make([]types.Token, len(terms))
	for i, t := range terms {
		tokens[i] = types.Token{DocID: p.ID, Term: t}
	}
	return tokens
}

// Stream yields (document id, term) pairs across all publications. The
// sequence is finite and restartable: ranging over it again re-normalizes
// from the start.
func (n *Normalizer) Stream(pubs []types.Publication) iter.Seq[types.Token] {
	return func(yield func(types.Token) bool) {
		for _, p := range pubs {
			for _, t := range n.Terms(p.Text()) {
				if !yield(types.Token{DocID: p.ID, Term: t}) {
					return
				}
			}
		}
	}
}
