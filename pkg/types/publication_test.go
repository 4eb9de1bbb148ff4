// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "  ", "na", "NA", "n/a", "N/A", " NA "} {
		assert.True(t, IsMissing(s), "%q", s)
	}
	for _, s := range []string{"nan", "navy", "text", "0"} {
		assert.False(t, IsMissing(s), "%q", s)
	}
}

func TestPublicationText(t *testing.T) {
	p := Publication{
		Title:       "Labour markets",
		Keywords:    "NA",
		KeywordsEng: "labour; wages",
		Abstract:    "n/a",
		AbstractEng: "Wage growth.",
	}
	assert.Equal(t, "Labour markets labour; wages Wage growth.", p.Text())
}

func TestHasAbstract(t *testing.T) {
	assert.False(t, Publication{}.HasAbstract())
	assert.False(t, Publication{Abstract: "NA", AbstractEng: "n/a"}.HasAbstract())
	assert.True(t, Publication{Abstract: "Sazetak"}.HasAbstract())
	assert.True(t, Publication{AbstractEng: "Text"}.HasAbstract())
}

func TestDominantTopic(t *testing.T) {
	r := TopicResult{Theta: [][]float64{
		{0.2, 0.5, 0.3},
		{0.6, 0.2, 0.2},
	}}
	assert.Equal(t, 1, r.DominantTopic(0))
	assert.Equal(t, 0, r.DominantTopic(1))
}
