// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/topic-atlas/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{StoreDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPublications() []types.Publication {
	return []types.Publication{
		{
			ID: "p1", Title: "Labour market dynamics", AbstractEng: "Wage growth in labour markets.",
			Journal: "J. Econ.", Language: "eng", PubType: "article", Authors: []string{"Smith", "Jones"},
		},
		{
			ID: "p2", Title: "Monetary policy rules", AbstractEng: "Inflation targeting and interest rates.",
			Journal: "J. Macro.", Language: "eng", PubType: "article", Authors: []string{"Brown"},
		},
		{
			ID: "p3", Title: "Fiscal policy review", Abstract: "Porezna politika", AbstractEng: "NA",
			Journal: "J. Fisc.", Language: "eng", PubType: "article",
		},
	}
}

func testIndex(t *testing.T, s *Store) IndexSummary {
	t.Helper()
	weights := []types.TermWeight{
		{DocID: "p1", Term: "labour", Count: 3, TF: 0.3, IDF: 0.4, TFIDF: 0.12},
		{DocID: "p2", Term: "inflat", Count: 2, TF: 0.2, IDF: 1.1, TFIDF: 0.22},
	}
	results := []types.TopicResult{
		{Procedure: "gibbs", K: 8, Seed: 42, LogLikelihood: -1234.5, Coherence: -2.1,
			TopTerms: [][]string{{"labour", "wage"}, {"inflat", "rate"}}},
	}
	placements := []types.Placement{
		{DocID: "p1", Row: 2, Col: 3, X: 3.1, Y: 1.9, DominantTopic: 0},
		{DocID: "p2", Row: 7, Col: 1, X: 0.8, Y: 7.2, DominantTopic: 1},
	}

	var buf bytes.Buffer
	summary, err := s.Index(context.Background(), testPublications(), weights, results, placements, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "indexed: 3 publications")
	return summary
}

func TestIndexCounts(t *testing.T) {
	s := newTestStore(t)
	summary := testIndex(t, s)
	assert.Equal(t, IndexSummary{Publications: 3, Weights: 2, Runs: 1, Placements: 2}, summary)
}

func TestIndexIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	testIndex(t, s)
	testIndex(t, s) // upserts, not duplicate rows

	results, err := s.Query(context.Background(), QueryOptions{Topic: -1, MaxResults: 100})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestQueryFullText(t *testing.T) {
	s := newTestStore(t)
	testIndex(t, s)

	results, err := s.Query(context.Background(), QueryOptions{Query: "labour", Topic: -1})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "p1", r.ID)
	assert.Equal(t, "Labour market dynamics", r.Title)
	assert.Equal(t, []string{"Smith", "Jones"}, r.Authors)
	assert.Equal(t, 0, r.DominantTopic)
	assert.Equal(t, 2, r.NodeRow)
	assert.Equal(t, 3, r.NodeCol)
}

func TestQueryMatchesAbstract(t *testing.T) {
	s := newTestStore(t)
	testIndex(t, s)

	results, err := s.Query(context.Background(), QueryOptions{Query: "inflation", Topic: -1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ID)
}

func TestQueryNativeAbstractFallback(t *testing.T) {
	s := newTestStore(t)
	testIndex(t, s)

	// p3 has a missing English abstract; the native one is indexed instead.
	results, err := s.Query(context.Background(), QueryOptions{Query: "porezna", Topic: -1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p3", results[0].ID)
	assert.Equal(t, "Porezna politika", results[0].Abstract)
}

func TestQueryTopicFilter(t *testing.T) {
	s := newTestStore(t)
	testIndex(t, s)

	results, err := s.Query(context.Background(), QueryOptions{Topic: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ID)

	results, err = s.Query(context.Background(), QueryOptions{Query: "labour", Topic: 1})
	require.NoError(t, err)
	assert.Empty(t, results, "text match with a non-matching topic filter yields nothing")
}

func TestQueryUnplacedPublication(t *testing.T) {
	s := newTestStore(t)
	testIndex(t, s)

	results, err := s.Query(context.Background(), QueryOptions{Query: "fiscal", Topic: -1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, -1, results[0].DominantTopic, "no placement reads back as -1")
}

func TestQueryMaxResults(t *testing.T) {
	s := newTestStore(t)
	testIndex(t, s)

	results, err := s.Query(context.Background(), QueryOptions{Topic: -1, MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{Topic: -1}.IsEmpty())
	assert.False(t, QueryOptions{Query: "x", Topic: -1}.IsEmpty())
	assert.False(t, QueryOptions{Topic: 0}.IsEmpty())
}

func TestExportYAML(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{StoreDir: dir})
	require.NoError(t, err)
	defer s.Close()
	testIndex(t, s)

	require.NoError(t, s.ExportYAML(context.Background(), QueryOptions{Topic: -1}))

	data, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "p1")
	assert.Contains(t, string(data), "Labour market dynamics")
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{StoreDir: dir})
	require.NoError(t, err)
	testIndex(t, s)
	require.NoError(t, s.Close())

	s2, err := NewStore(types.StoreConfig{StoreDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	results, err := s2.Query(context.Background(), QueryOptions{Query: "labour", Topic: -1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
