// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/intent-report/pkg/types"
)

// QueryOptions holds parameters for phrase queries.
type QueryOptions struct {
	// Query is matched as a case-insensitive substring of the phrase.
	Query string

	// Kind filters by phrase kind.
	Kind PhraseKind

	// Intent filters by intent entry name.
	Intent string

	// Archive filters by archive path as it was indexed.
	Archive string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search text or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Kind == "" && q.Intent == "" && q.Archive == ""
}

// QueryResult is one stored phrase with its intent.
type QueryResult struct {
	Archive string     `json:"archive" yaml:"archive"`
	Intent  string     `json:"intent" yaml:"intent"`
	Kind    PhraseKind `json:"kind" yaml:"kind"`
	Slot    int        `json:"slot" yaml:"slot"`
	Content string     `json:"content" yaml:"content"`
}

// Query returns phrases matching opts, ordered by archive, intent position,
// and phrase order within the intent.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT i.archive, i.name, p.kind, p.slot, p.content
		FROM phrases p
		JOIN intents i ON i.id = p.intent_id
		WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND p.content_fold LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(foldCase(opts.Query))+"%")
	}
	if opts.Kind != "" {
		qb.WriteString(` AND p.kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.Intent != "" {
		qb.WriteString(` AND i.name = ?`)
		args = append(args, opts.Intent)
	}
	if opts.Archive != "" {
		qb.WriteString(` AND i.archive = ?`)
		args = append(args, opts.Archive)
	}

	qb.WriteString(` ORDER BY i.archive, i.position, p.id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying intent index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr   QueryResult
			kind string
		)
		if err := rows.Scan(&qr.Archive, &qr.Intent, &kind, &qr.Slot, &qr.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		qr.Kind = PhraseKind(kind)
		results = append(results, qr)
	}
	return results, rows.Err()
}

// Results rebuilds the extraction results stored for archive, or for every
// archive when archive is empty, in their original order.
func (s *Store) Results(ctx context.Context, archive string) ([]types.Result, error) {
	query := `SELECT i.id, i.name, p.kind, p.slot, p.content
		FROM intents i
		LEFT JOIN phrases p ON p.intent_id = i.id`
	var args []any
	if archive != "" {
		query += ` WHERE i.archive = ?`
		args = append(args, archive)
	}
	query += ` ORDER BY i.archive, i.position, p.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading intents: %w", err)
	}
	defer rows.Close()

	results := []types.Result{}
	var (
		currentID int64 = -1
		lastSlot        = -1
	)
	for rows.Next() {
		var (
			id      int64
			name    string
			kind    *string
			slot    *int
			content *string
		)
		if err := rows.Scan(&id, &name, &kind, &slot, &content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if id != currentID {
			results = append(results, types.Result{
				Name:         name,
				UserSays:     []string{},
				Answers:      []types.Answer{},
				QuickAnswers: []string{},
			})
			currentID = id
			lastSlot = -1
		}
		if kind == nil {
			continue
		}

		r := &results[len(results)-1]
		switch PhraseKind(*kind) {
		case KindUserSays:
			r.UserSays = append(r.UserSays, *content)
		case KindQuickAnswer:
			r.QuickAnswers = append(r.QuickAnswers, *content)
		case KindAnswer:
			r.Answers = append(r.Answers, types.PlainAnswer(*content))
			lastSlot = *slot
		case KindAlternative:
			if lastSlot == *slot {
				last := len(r.Answers) - 1
				r.Answers[last] = append(r.Answers[last].(types.AlternativesAnswer), *content)
			} else {
				r.Answers = append(r.Answers, types.AlternativesAnswer{*content})
				lastSlot = *slot
			}
		}
	}
	return results, rows.Err()
}

// escapeLike escapes the LIKE wildcards of s for use with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
