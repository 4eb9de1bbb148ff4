// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// QueryOptions holds parameters for store queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title and abstract.
	Query string

	// Topic filters by dominant topic; negative means no filter.
	Topic int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Topic < 0
}

// QueryResult is one indexed publication with its map placement, if any.
type QueryResult struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Abstract      string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Journal       string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	Authors       []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	DominantTopic int      `json:"dominant_topic" yaml:"dominant_topic"`
	NodeRow       int      `json:"node_row" yaml:"node_row"`
	NodeCol       int      `json:"node_col" yaml:"node_col"`
}

// Query searches indexed publications with optional full-text search and
// a dominant-topic filter. Full-text queries are ranked by relevance,
// structured-only queries sort by id.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		q    string
		args []any
	)
	if opts.Query != "" {
		q = `SELECT p.id, p.title, p.abstract, p.journal, p.authors,
				COALESCE(pl.dominant_topic, -1), COALESCE(pl.node_row, -1), COALESCE(pl.node_col, -1)
			FROM publications_fts
			JOIN publications p ON p.rowid = publications_fts.rowid
			LEFT JOIN placements pl ON pl.doc_id = p.id
			WHERE publications_fts MATCH ?`
		args = append(args, opts.Query)
	} else {
		q = `SELECT p.id, p.title, p.abstract, p.journal, p.authors,
				COALESCE(pl.dominant_topic, -1), COALESCE(pl.node_row, -1), COALESCE(pl.node_col, -1)
			FROM publications p
			LEFT JOIN placements pl ON pl.doc_id = p.id
			WHERE 1=1`
	}

	if opts.Topic >= 0 {
		q += ` AND pl.dominant_topic = ?`
		args = append(args, opts.Topic)
	}

	if opts.Query != "" {
		q += ` ORDER BY publications_fts.rank`
	} else {
		q += ` ORDER BY p.id`
	}
	q += ` LIMIT ?`
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr          QueryResult
			abstract    sql.NullString
			journal     sql.NullString
			authorsJSON sql.NullString
		)
		if err := rows.Scan(
			&qr.ID, &qr.Title, &abstract, &journal, &authorsJSON,
			&qr.DominantTopic, &qr.NodeRow, &qr.NodeCol,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if abstract.Valid {
			qr.Abstract = abstract.String
		}
		if journal.Valid {
			qr.Journal = journal.String
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &qr.Authors)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}

const exportLimit = 100000

// ExportYAML writes the indexed publications, with placements, to
// storeDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	opts.MaxResults = exportLimit
	results, err := s.Query(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	path := filepath.Join(s.storeDir, "export.yaml")
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
