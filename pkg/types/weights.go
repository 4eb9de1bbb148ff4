// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Token is one normalized (document, stemmed word) pair. Many tokens per
// document; ordering within a document carries no meaning downstream.
type Token struct {
	DocID string
	Term  string
}

// TermWeight is the weight tuple for one distinct term in one document.
// Derived entirely from the normalized token multiset.
type TermWeight struct {
	// DocID is the owning document.
	DocID string `json:"doc_id" yaml:"doc_id"`

	// Term is the stemmed term.
	Term string `json:"term" yaml:"term"`

	// Count is the raw occurrence count of Term in DocID.
	Count int `json:"count" yaml:"count"`

	// TF is Count divided by the document's total token count.
	TF float64 `json:"tf" yaml:"tf"`

	// IDF is ln(total documents / documents containing Term).
	IDF float64 `json:"idf" yaml:"idf"`

	// TFIDF is TF * IDF. Non-negative; zero exactly when the term does
	// not occur in the document (absent rows are simply not emitted).
	TFIDF float64 `json:"tfidf" yaml:"tfidf"`
}
