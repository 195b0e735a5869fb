// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"contentstudio/internal/models"
)

const entryColumns = `id, kind, language, hidden, title, slug, summary, body,
       cover_image_url, location, pronunciation, starts_at, ends_at,
       created_at, updated_at`

// EntryStore handles all entry-related database operations. Every entry
// kind lives in the single entries table.
type EntryStore struct {
	db *sql.DB
}

// NewEntryStore creates a new EntryStore with the given database connection.
func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

// EntryFilter narrows List results. Zero values mean "any".
type EntryFilter struct {
	Kind          models.EntryKind
	Language      string
	IncludeHidden bool
	Limit         int
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	e := &models.Entry{}
	var body []byte
	if err := row.Scan(
		&e.ID, &e.Kind, &e.Language, &e.Hidden, &e.Title, &e.Slug, &e.Summary, &body,
		&e.CoverImageURL, &e.Location, &e.Pronunciation, &e.StartsAt, &e.EndsAt,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &e.Body); err != nil {
		return nil, fmt.Errorf("decode entry body: %w", err)
	}
	e.Body = ensureBody(e.Body)
	return e, nil
}

// ensureBody keeps the non-empty body invariant at the storage boundary.
func ensureBody(body []string) []string {
	if len(body) == 0 {
		return []string{""}
	}
	return body
}

func encodeBody(body []string) (string, error) {
	b, err := json.Marshal(ensureBody(body))
	if err != nil {
		return "", fmt.Errorf("encode entry body: %w", err)
	}
	return string(b), nil
}

// List returns entries matching the filter, newest first.
func (s *EntryStore) List(ctx context.Context, f EntryFilter) ([]models.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.Language != "" {
		args = append(args, f.Language)
		where = append(where, fmt.Sprintf("language = $%d", len(args)))
	}
	if !f.IncludeHidden {
		where = append(where, "hidden = FALSE")
	}

	query := "SELECT " + entryColumns + "\nFROM entries"
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var items []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// FindByID retrieves an entry by its UUID, hidden or not. Returns nil if not found.
func (s *EntryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry by id: %w", err)
	}
	return e, nil
}

// FindBySlug retrieves a visible entry for public rendering. Returns nil if
// not found or hidden.
func (s *EntryStore) FindBySlug(ctx context.Context, kind models.EntryKind, language, slug string) (*models.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE kind = $1 AND language = $2 AND slug = $3 AND hidden = FALSE
	`, kind, language, slug)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find entry by slug: %w", err)
	}
	return e, nil
}

// SlugTaken reports whether another entry of the same kind and language
// already uses slug. exclude is ignored when uuid.Nil.
func (s *EntryStore) SlugTaken(ctx context.Context, kind models.EntryKind, language, slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM entries
			WHERE kind = $1 AND language = $2 AND slug = $3 AND id <> $4
		)
	`, kind, language, slug, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check entry slug: %w", err)
	}
	return taken, nil
}

// Create inserts a new entry and returns it with the generated ID and timestamps.
func (s *EntryStore) Create(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	body, err := encodeBody(e.Body)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO entries (kind, language, hidden, title, slug, summary, body,
		                     cover_image_url, location, pronunciation, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+entryColumns,
		e.Kind, e.Language, e.Hidden, e.Title, e.Slug, e.Summary, body,
		e.CoverImageURL, e.Location, e.Pronunciation, e.StartsAt, e.EndsAt,
	)
	created, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return created, nil
}

// Update overwrites an existing entry. Returns false when no row matched.
func (s *EntryStore) Update(ctx context.Context, e *models.Entry) (bool, error) {
	body, err := encodeBody(e.Body)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE entries SET
			language = $1, hidden = $2, title = $3, slug = $4, summary = $5, body = $6,
			cover_image_url = $7, location = $8, pronunciation = $9,
			starts_at = $10, ends_at = $11, updated_at = NOW()
		WHERE id = $12
	`, e.Language, e.Hidden, e.Title, e.Slug, e.Summary, body,
		e.CoverImageURL, e.Location, e.Pronunciation, e.StartsAt, e.EndsAt, e.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update entry rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes an entry by ID.
func (s *EntryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}
