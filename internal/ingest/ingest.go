// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads tabular publication metadata, selects the rows the
// analysis can use, and deduplicates them.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// PublicationsFile is the ingestion artifact written under CorpusDir.
const PublicationsFile = "publications.yaml"

// columns maps required CSV header names to Publication fields. Header
// matching is case-insensitive.
var columns = []string{
	"id", "title", "keywords", "keywords_eng", "abstract", "abstract_eng",
	"journal", "journal_eng", "language", "pub_type", "authors",
}

// Summary holds counts from one ingestion run.
type Summary struct {
	Read     int
	Kept     int
	Filtered int
	Deduped  int
}

// ReadCSV parses publication records from r. The first row must be a
// header naming at least the required columns; extra columns are ignored.
func ReadCSV(r io.Reader) ([]types.Publication, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("input is missing required column %q", c)
		}
	}

	field := func(row []string, name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var pubs []types.Publication
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		pubs = append(pubs, types.Publication{
			ID:          field(row, "id"),
			Title:       field(row, "title"),
			Keywords:    field(row, "keywords"),
			KeywordsEng: field(row, "keywords_eng"),
			Abstract:    field(row, "abstract"),
			AbstractEng: field(row, "abstract_eng"),
			Journal:     field(row, "journal"),
			JournalEng:  field(row, "journal_eng"),
			Language:    field(row, "language"),
			PubType:     field(row, "pub_type"),
			Authors:     splitAuthors(field(row, "authors")),
		})
	}
	return pubs, nil
}

func splitAuthors(s string) []string {
	if types.IsMissing(s) {
		return nil
	}
	parts := strings.Split(s, ";")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// Filter keeps rows with the configured language code, the configured
// publication-type code, and at least one non-missing abstract. Rows
// lacking both abstracts are a filtering rule, not an error.
func Filter(pubs []types.Publication, cfg types.IngestConfig) []types.Publication {
	kept := make([]types.Publication, 0, len(pubs))
	for _, p := range pubs {
		if !strings.EqualFold(p.Language, cfg.Language) {
			continue
		}
		if !strings.EqualFold(p.PubType, cfg.PubType) {
			continue
		}
		if !p.HasAbstract() {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Deduplicate merges records that share an identifier or a normalized
// title. The first occurrence wins; later duplicates fill its empty fields.
func Deduplicate(pubs []types.Publication) ([]types.Publication, int) {
	seen := make(map[string]int) // dedup key -> index in deduped
	var deduped []types.Publication
	removed := 0

	for _, p := range pubs {
		key := ""
		if p.ID != "" {
			key = "id:" + p.ID
		}
		titleKey := "title:" + normalizeTitle(p.Title)

		if idx, ok := seen[key]; key != "" && ok {
			mergeInto(&deduped[idx], p)
			removed++
			continue
		}
		if idx, ok := seen[titleKey]; titleKey != "title:" && ok {
			mergeInto(&deduped[idx], p)
			removed++
			continue
		}

		idx := len(deduped)
		deduped = append(deduped, p)
		if key != "" {
			seen[key] = idx
		}
		if titleKey != "title:" {
			seen[titleKey] = idx
		}
	}
	return deduped, removed
}

// mergeInto fills empty fields of dst from src.
func mergeInto(dst *types.Publication, src types.Publication) {
	if types.IsMissing(dst.Abstract) && !types.IsMissing(src.Abstract) {
		dst.Abstract = src.Abstract
	}
	if types.IsMissing(dst.AbstractEng) && !types.IsMissing(src.AbstractEng) {
		dst.AbstractEng = src.AbstractEng
	}
	if types.IsMissing(dst.Keywords) && !types.IsMissing(src.Keywords) {
		dst.Keywords = src.Keywords
	}
	if types.IsMissing(dst.KeywordsEng) && !types.IsMissing(src.KeywordsEng) {
		dst.KeywordsEng = src.KeywordsEng
	}
	if len(dst.Authors) == 0 {
		dst.Authors = src.Authors
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the
// title for duplicate detection.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Run reads cfg.InputPath, filters and deduplicates the rows, and writes
// the surviving records to CorpusDir/publications.yaml. Progress goes to w.
func Run(cfg types.IngestConfig, w io.Writer) (Summary, error) {
	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	pubs, err := ReadCSV(f)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing %s: %w", cfg.InputPath, err)
	}

	kept := Filter(pubs, cfg)
	deduped, removed := Deduplicate(kept)

	summary := Summary{
		Read:     len(pubs),
		Kept:     len(deduped),
		Filtered: len(pubs) - len(kept),
		Deduped:  removed,
	}

	if err := os.MkdirAll(cfg.CorpusDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating corpus directory: %w", err)
	}
	data, err := yaml.Marshal(deduped)
	if err != nil {
		return summary, fmt.Errorf("encoding publications: %w", err)
	}
	out := filepath.Join(cfg.CorpusDir, PublicationsFile)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return summary, fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Fprintf(w, "read: %d, filtered: %d, duplicates removed: %d, kept: %d\n",
		summary.Read, summary.Filtered, summary.Deduped, summary.Kept)
	fmt.Fprintf(w, "wrote %s\n", out)
	return summary, nil
}

// LoadPublications reads the ingestion artifact back from corpusDir.
func LoadPublications(corpusDir string) ([]types.Publication, error) {
	path := filepath.Join(corpusDir, PublicationsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s (run ingest first): %w", path, err)
	}
	var pubs []types.Publication
	if err := yaml.Unmarshal(data, &pubs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pubs, nil
}
