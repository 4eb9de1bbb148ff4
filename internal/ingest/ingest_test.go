// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/topic-atlas/pkg/types"
)

const testHeader = "id,title,keywords,keywords_eng,abstract,abstract_eng,journal,journal_eng,language,pub_type,authors"

func TestReadCSVMapsColumns(t *testing.T) {
	csv := testHeader + "\n" +
		"p1,Labour markets,trg rada,labour market,Sazetak,An abstract,Casopis,Journal,eng,article,Smith; Jones\n"

	pubs, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, pubs, 1)

	p := pubs[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Labour markets", p.Title)
	assert.Equal(t, "labour market", p.KeywordsEng)
	assert.Equal(t, "An abstract", p.AbstractEng)
	assert.Equal(t, "eng", p.Language)
	assert.Equal(t, "article", p.PubType)
	assert.Equal(t, []string{"Smith", "Jones"}, p.Authors)
}

func TestReadCSVHeaderCaseInsensitive(t *testing.T) {
	csv := strings.ToUpper(testHeader) + "\n" +
		"p1,T,,,,a,,,eng,article,\n"
	pubs, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, pubs, 1)
}

func TestReadCSVMissingColumn(t *testing.T) {
	csv := "id,title\np1,T\n"
	_, err := ReadCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestReadCSVIgnoresExtraColumns(t *testing.T) {
	csv := testHeader + ",extra\n" +
		"p1,T,,,,a,,,eng,article,,ignored\n"
	pubs, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "p1", pubs[0].ID)
}

func TestSplitAuthors(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitAuthors("A; B;"))
	assert.Nil(t, splitAuthors("NA"))
	assert.Nil(t, splitAuthors("n/a"))
	assert.Empty(t, splitAuthors(""))
}

func TestFilterRules(t *testing.T) {
	cfg := types.IngestConfig{Language: "eng", PubType: "article"}
	pubs := []types.Publication{
		{ID: "keep", Language: "eng", PubType: "article", AbstractEng: "text"},
		{ID: "keep-casefold", Language: "ENG", PubType: "Article", Abstract: "text"},
		{ID: "wrong-lang", Language: "hrv", PubType: "article", AbstractEng: "text"},
		{ID: "wrong-type", Language: "eng", PubType: "review", AbstractEng: "text"},
		{ID: "no-abstract", Language: "eng", PubType: "article"},
		{ID: "na-abstract", Language: "eng", PubType: "article", Abstract: "NA", AbstractEng: "n/a"},
	}

	kept := Filter(pubs, cfg)
	ids := make([]string, len(kept))
	for i, p := range kept {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"keep", "keep-casefold"}, ids)
}

func TestDeduplicateByID(t *testing.T) {
	pubs := []types.Publication{
		{ID: "p1", Title: "First title", AbstractEng: ""},
		{ID: "p1", Title: "Different title", AbstractEng: "filled in from duplicate"},
	}
	deduped, removed := Deduplicate(pubs)
	require.Len(t, deduped, 1)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "First title", deduped[0].Title, "first occurrence wins")
	assert.Equal(t, "filled in from duplicate", deduped[0].AbstractEng, "duplicate fills empty fields")
}

func TestDeduplicateByNormalizedTitle(t *testing.T) {
	pubs := []types.Publication{
		{ID: "a", Title: "Labour Markets: A Survey!"},
		{ID: "b", Title: "labour markets   a survey", Authors: []string{"Smith"}},
		{ID: "c", Title: "An unrelated study"},
	}
	deduped, removed := Deduplicate(pubs)
	require.Len(t, deduped, 2)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "a", deduped[0].ID)
	assert.Equal(t, []string{"Smith"}, deduped[0].Authors)
	assert.Equal(t, "c", deduped[1].ID)
}

func TestDeduplicateEmptyKeysNeverCollide(t *testing.T) {
	pubs := []types.Publication{
		{Title: ""},
		{Title: ""},
	}
	deduped, removed := Deduplicate(pubs)
	assert.Len(t, deduped, 2, "records without id or title are kept as-is")
	assert.Zero(t, removed)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "labour markets a survey",
		normalizeTitle("  Labour Markets: A Survey!  "))
	assert.Equal(t, "", normalizeTitle("..."))
}

func TestRunWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	csv := testHeader + "\n" +
		"p1,Labour markets,,,,An abstract,,,eng,article,Smith\n" +
		"p1,Labour markets,,,,An abstract,,,eng,article,Smith\n" +
		"p2,Monetary policy,,,,Another,,,eng,article,Jones\n" +
		"p3,Filtered out,,,,Text,,,hrv,article,\n"
	require.NoError(t, os.WriteFile(input, []byte(csv), 0o644))

	cfg := types.IngestConfig{
		InputPath: input,
		CorpusDir: filepath.Join(dir, "corpus"),
		Language:  "eng",
		PubType:   "article",
	}
	var buf bytes.Buffer
	summary, err := Run(cfg, &buf)
	require.NoError(t, err)

	assert.Equal(t, Summary{Read: 4, Kept: 2, Filtered: 1, Deduped: 1}, summary)
	assert.Contains(t, buf.String(), "read: 4")

	pubs, err := LoadPublications(cfg.CorpusDir)
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	assert.Equal(t, "p1", pubs[0].ID)
	assert.Equal(t, "p2", pubs[1].ID)
}

func TestLoadPublicationsMissingArtifact(t *testing.T) {
	_, err := LoadPublications(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run ingest first")
}
