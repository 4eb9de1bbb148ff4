// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Placement is one document's position on a trained self-organizing map,
// ready for export to the external visualization tool.
type Placement struct {
	// DocID is the document identifier.
	DocID string `json:"doc_id" yaml:"doc_id"`

	// Row and Col are the coordinates of the winning prototype node.
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`

	// X and Y are the node coordinates with a small reproducible jitter
	// applied so co-located documents do not overlap when plotted.
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`

	// DominantTopic is the index of the document's highest-probability
	// topic.
	DominantTopic int `json:"dominant_topic" yaml:"dominant_topic"`
}
