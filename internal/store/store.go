// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline outputs in a SQLite results store and
// answers full-text queries over the indexed publications.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/topic-atlas/pkg/types"
)

const dbFile = "atlas.db"

// Store manages the results SQLite database.
type Store struct {
	db         *sql.DB
	storeDir   string
	maxResults int
}

// NewStore opens or creates the results database at storeDir/atlas.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.StoreDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.StoreDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, storeDir: cfg.StoreDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			journal TEXT,
			language TEXT,
			pub_type TEXT,
			authors TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS term_weights (
			doc_id TEXT NOT NULL REFERENCES publications(id),
			term TEXT NOT NULL,
			count INTEGER,
			tf REAL,
			idf REAL,
			tfidf REAL,
			PRIMARY KEY (doc_id, term)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_weights_term ON term_weights(term)`,
		`CREATE TABLE IF NOT EXISTS model_runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			procedure TEXT NOT NULL,
			k INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			log_likelihood REAL,
			coherence REAL,
			top_terms TEXT,
			UNIQUE (procedure, k, seed)
		)`,
		`CREATE TABLE IF NOT EXISTS placements (
			doc_id TEXT PRIMARY KEY REFERENCES publications(id),
			node_row INTEGER,
			node_col INTEGER,
			x REAL,
			y REAL,
			dominant_topic INTEGER
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over title+abstract with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='publications_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE publications_fts USING fts5(title, abstract, content=publications, content_rowid=rowid)`,
			`CREATE TRIGGER publications_ai AFTER INSERT ON publications BEGIN
				INSERT INTO publications_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER publications_ad AFTER DELETE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER publications_au AFTER UPDATE ON publications BEGIN
				INSERT INTO publications_fts(publications_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO publications_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// IndexSummary holds counts from one indexing run.
type IndexSummary struct {
	Publications int
	Weights      int
	Runs         int
	Placements   int
}

// Index upserts pipeline outputs into the store inside one transaction.
// Any of weights, results, and placements may be empty when earlier stages
// have not run yet.
func (s *Store) Index(ctx context.Context, pubs []types.Publication, weights []types.TermWeight,
	results []types.TopicResult, placements []types.Placement, w io.Writer) (IndexSummary, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IndexSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary IndexSummary

	pubStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO publications (id, title, abstract, journal, language, pub_type, authors)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, journal=excluded.journal,
			language=excluded.language, pub_type=excluded.pub_type, authors=excluded.authors`)
	if err != nil {
		return summary, fmt.Errorf("preparing publication insert: %w", err)
	}
	defer pubStmt.Close()

	for _, p := range pubs {
		abstract := p.AbstractEng
		if types.IsMissing(abstract) {
			abstract = p.Abstract
		}
		authorsJSON, _ := json.Marshal(p.Authors)
		if _, err := pubStmt.ExecContext(ctx,
			p.ID, p.Title, abstract, p.Journal, p.Language, p.PubType, string(authorsJSON),
		); err != nil {
			return summary, fmt.Errorf("inserting publication %s: %w", p.ID, err)
		}
		summary.Publications++
	}

	if len(weights) > 0 {
		wStmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO term_weights (doc_id, term, count, tf, idf, tfidf)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return summary, fmt.Errorf("preparing weight insert: %w", err)
		}
		defer wStmt.Close()
		for _, tw := range weights {
			if _, err := wStmt.ExecContext(ctx,
				tw.DocID, tw.Term, tw.Count, tw.TF, tw.IDF, tw.TFIDF,
			); err != nil {
				return summary, fmt.Errorf("inserting weight (%s, %s): %w", tw.DocID, tw.Term, err)
			}
			summary.Weights++
		}
	}

	for _, r := range results {
		topJSON, _ := json.Marshal(r.TopTerms)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO model_runs (procedure, k, seed, log_likelihood, coherence, top_terms)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(procedure, k, seed) DO UPDATE SET
				log_likelihood=excluded.log_likelihood, coherence=excluded.coherence,
				top_terms=excluded.top_terms`,
			r.Procedure, r.K, r.Seed, r.LogLikelihood, r.Coherence, string(topJSON),
		); err != nil {
			return summary, fmt.Errorf("inserting model run %s k=%d: %w", r.Procedure, r.K, err)
		}
		summary.Runs++
	}

	for _, p := range placements {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO placements (doc_id, node_row, node_col, x, y, dominant_topic)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.DocID, p.Row, p.Col, p.X, p.Y, p.DominantTopic,
		); err != nil {
			return summary, fmt.Errorf("inserting placement %s: %w", p.DocID, err)
		}
		summary.Placements++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "indexed: %d publications, %d weights, %d runs, %d placements\n",
		summary.Publications, summary.Weights, summary.Runs, summary.Placements)
	return summary, nil
}
