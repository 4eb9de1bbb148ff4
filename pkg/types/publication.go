// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// missing markers that upstream spreadsheet exports miscode as real text.
var missingMarkers = map[string]bool{
	"":    true,
	"na":  true,
	"NA":  true,
	"n/a": true,
	"N/A": true,
}

// IsMissing reports whether a raw cell value is a missing-data artifact
// rather than real text.
func IsMissing(s string) bool {
	return missingMarkers[strings.TrimSpace(s)]
}

// Publication holds the metadata of one academic publication as ingested
// from the source spreadsheet. Records are immutable after ingestion;
// selection filters rows, it never rewrites them.
type Publication struct {
	// ID is the publication identifier from the source registry.
	ID string `json:"id" yaml:"id"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title"`

	// Keywords and KeywordsEng are the native-language and English
	// keyword strings (semicolon-separated in the source).
	Keywords    string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	KeywordsEng string `json:"keywords_eng,omitempty" yaml:"keywords_eng,omitempty"`

	// Abstract and AbstractEng are the native-language and English
	// abstracts. At least one must be non-missing for a row to survive
	// ingestion.
	Abstract    string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	AbstractEng string `json:"abstract_eng,omitempty" yaml:"abstract_eng,omitempty"`

	// Journal and JournalEng are the journal name in both languages.
	Journal    string `json:"journal,omitempty" yaml:"journal,omitempty"`
	JournalEng string `json:"journal_eng,omitempty" yaml:"journal_eng,omitempty"`

	// Language is the language code (e.g. "eng").
	Language string `json:"language" yaml:"language"`

	// PubType is the publication-type code (e.g. "article").
	PubType string `json:"pub_type" yaml:"pub_type"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors" yaml:"authors"`
}

// Text returns the concatenated free-text fields used for topic modeling:
// title, keywords, and abstracts, preferring whichever language variants
// are present.
func (p Publication) Text() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.Title, p.Keywords, p.KeywordsEng, p.Abstract, p.AbstractEng} {
		if !IsMissing(s) {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// HasAbstract reports whether either abstract field carries real text.
func (p Publication) HasAbstract() bool {
	return !IsMissing(p.Abstract) || !IsMissing(p.AbstractEng)
}
