package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// VocabularyEntry is one stored skill phrase.
type VocabularyEntry struct {
	ID        uuid.UUID `json:"id"`
	Phrase    string    `json:"phrase"`
	Position  int       `json:"position"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// ListVocabulary returns the stored phrases in their import order.
func (db *DB) ListVocabulary(ctx context.Context) ([]string, error) {
	entries, err := db.ListVocabularyEntries(ctx)
	if err != nil {
		return nil, err
	}
	phrases := make([]string, len(entries))
	for i, e := range entries {
		phrases[i] = e.Phrase
	}
	return phrases, nil
}

// ListVocabularyEntries returns the stored vocabulary rows in import order.
func (db *DB) ListVocabularyEntries(ctx context.Context) ([]VocabularyEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, phrase, position, source, created_at
		 FROM skill_vocabulary ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	defer rows.Close()

	var entries []VocabularyEntry
	for rows.Next() {
		var e VocabularyEntry
		if err := rows.Scan(&e.ID, &e.Phrase, &e.Position, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	return entries, nil
}

// ReplaceVocabulary atomically swaps the stored vocabulary for phrases.
// Phrases are stored as given; callers normalize them first.
func (db *DB) ReplaceVocabulary(ctx context.Context, source string, phrases []string) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM skill_vocabulary`); err != nil {
		return 0, fmt.Errorf("failed to clear vocabulary: %w", err)
	}

	now := time.Now().UTC()
	rows := make([][]any, len(phrases))
	for i, phrase := range phrases {
		rows[i] = []any{uuid.New(), phrase, i, source, now}
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"skill_vocabulary"},
		[]string{"id", "phrase", "position", "source", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vocabulary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit vocabulary: %w", err)
	}
	return n, nil
}
