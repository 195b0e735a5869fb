// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contentstudio/internal/models"
)

// PageViewStore persists analytics page views.
type PageViewStore struct {
	db *sql.DB
}

// NewPageViewStore creates a new PageViewStore with the given database connection.
func NewPageViewStore(db *sql.DB) *PageViewStore {
	return &PageViewStore{db: db}
}

// InsertBatch writes all views in one transaction.
func (s *PageViewStore) InsertBatch(ctx context.Context, views []models.PageView) error {
	if len(views) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin page view batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO page_views (entry_id, kind, language, path, referrer, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("prepare page view insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range views {
		if _, err := stmt.ExecContext(ctx, v.EntryID, v.Kind, v.Language, v.Path, v.Referrer, v.OccurredAt); err != nil {
			return fmt.Errorf("insert page view: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit page view batch: %w", err)
	}
	return nil
}

// EntryViews is the view count of one entry.
type EntryViews struct {
	EntryID uuid.UUID `json:"entry_id"`
	Title   string    `json:"title"`
	Views   int       `json:"views"`
}

// TopEntries returns the most viewed entries since the given time.
func (s *PageViewStore) TopEntries(ctx context.Context, since time.Time, limit int) ([]EntryViews, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.title, COUNT(*) AS views
		FROM page_views v
		JOIN entries e ON e.id = v.entry_id
		WHERE v.occurred_at >= $1
		GROUP BY e.id, e.title
		ORDER BY views DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top entries: %w", err)
	}
	defer rows.Close()

	var out []EntryViews
	for rows.Next() {
		var ev EntryViews
		if err := rows.Scan(&ev.EntryID, &ev.Title, &ev.Views); err != nil {
			return nil, fmt.Errorf("scan entry views: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
