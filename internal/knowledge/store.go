// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge keeps extraction results of many export archives in a
// local SQLite database so their phrases can be searched and re-exported.
package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/intent-report/pkg/types"
)

const dbFile = "intents.db"

// PhraseKind identifies where a stored phrase came from.
type PhraseKind string

const (
	KindUserSays    PhraseKind = "user_says"
	KindAnswer      PhraseKind = "answer"
	KindAlternative PhraseKind = "alternative"
	KindQuickAnswer PhraseKind = "quick_answer"
)

// Valid reports whether k is a known phrase kind.
func (k PhraseKind) Valid() bool {
	switch k {
	case KindUserSays, KindAnswer, KindAlternative, KindQuickAnswer:
		return true
	}
	return false
}

// IndexStatus is the outcome of indexing one archive.
type IndexStatus string

const (
	StatusIndexed IndexStatus = "indexed"
	StatusUpdated IndexStatus = "updated"
	StatusSkipped IndexStatus = "skipped"
)

// Store manages the intent index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index database at cfg.Dir/intents.db and
// creates the schema if it does not exist.
func NewStore(cfg types.KnowledgeBaseConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS intents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			archive TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			UNIQUE(archive, name)
		)`,
		`CREATE TABLE IF NOT EXISTS phrases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			intent_id INTEGER NOT NULL REFERENCES intents(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			slot INTEGER NOT NULL,
			content TEXT NOT NULL,
			content_fold TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_phrases_intent_id ON phrases(intent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_phrases_kind ON phrases(kind)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			archive TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Index stores the results converted from archive. Archives whose modTime
// matches the stored one are skipped; otherwise the archive's previous rows
// are replaced in a single transaction.
func (s *Store) Index(ctx context.Context, archive, modTime string, results []types.Result) (IndexStatus, error) {
	var storedModTime string
	err := s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM indexing_status WHERE archive = ?`, archive,
	).Scan(&storedModTime)

	switch {
	case err == nil && storedModTime == modTime:
		return StatusSkipped, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("reading indexing status: %w", err)
	}

	isUpdate := err == nil
	if err := s.indexArchive(ctx, archive, modTime, results); err != nil {
		return "", err
	}
	if isUpdate {
		return StatusUpdated, nil
	}
	return StatusIndexed, nil
}

func (s *Store) indexArchive(ctx context.Context, archive, modTime string, results []types.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM phrases WHERE intent_id IN (SELECT id FROM intents WHERE archive = ?)`, archive,
	); err != nil {
		return fmt.Errorf("deleting old phrases: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM intents WHERE archive = ?`, archive); err != nil {
		return fmt.Errorf("deleting old intents: %w", err)
	}

	phraseStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO phrases (intent_id, kind, slot, content, content_fold) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer phraseStmt.Close()

	for pos, r := range results {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO intents (archive, name, position) VALUES (?, ?, ?)`,
			archive, r.Name, pos,
		)
		if err != nil {
			return fmt.Errorf("inserting intent %s: %w", r.Name, err)
		}
		intentID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading id of intent %s: %w", r.Name, err)
		}

		for _, p := range phrasesOf(r) {
			if _, err := phraseStmt.ExecContext(ctx, intentID, string(p.kind), p.slot, p.content, foldCase(p.content)); err != nil {
				return fmt.Errorf("inserting phrase of intent %s: %w", r.Name, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (archive, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(archive) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		archive, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

type phrase struct {
	kind    PhraseKind
	slot    int
	content string
}

// phrasesOf flattens r into rows. Answers keep their slot index so that the
// alternatives of one answer can be regrouped; an empty alternatives list
// stores no rows.
func phrasesOf(r types.Result) []phrase {
	var out []phrase
	for i, s := range r.UserSays {
		out = append(out, phrase{kind: KindUserSays, slot: i, content: s})
	}
	for i, a := range r.Answers {
		switch a := a.(type) {
		case types.PlainAnswer:
			out = append(out, phrase{kind: KindAnswer, slot: i, content: string(a)})
		case types.AlternativesAnswer:
			for _, alt := range a {
				out = append(out, phrase{kind: KindAlternative, slot: i, content: alt})
			}
		}
	}
	for i, q := range r.QuickAnswers {
		out = append(out, phrase{kind: KindQuickAnswer, slot: i, content: q})
	}
	return out
}

// foldCase is the form phrases are searched in. SQLite LIKE folds only ASCII
// letters, so both stored phrases and queries are lowercased in Go.
func foldCase(s string) string {
	return strings.ToLower(s)
}
