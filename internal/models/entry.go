// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind distinguishes the content collections shown on the site. All
// kinds share the entries table.
type EntryKind string

const (
	EntryKindTrend  EntryKind = "trend"
	EntryKindEvent  EntryKind = "event"
	EntryKindPhrase EntryKind = "phrase"
	EntryKindPopup  EntryKind = "popup"
)

// EntryKinds lists every valid kind, in the order the site navigates them.
var EntryKinds = []EntryKind{EntryKindTrend, EntryKindEvent, EntryKindPhrase, EntryKindPopup}

// Valid reports whether k is one of the known entry kinds.
func (k EntryKind) Valid() bool {
	for _, known := range EntryKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Entry is a single content record: a trend article, an event, a phrasebook
// phrase, or a pop-up listing. Body holds the ordered paragraphs, each either
// a self-contained HTML block (editor output) or a legacy plaintext paragraph.
type Entry struct {
	ID            uuid.UUID  `json:"id"`
	Kind          EntryKind  `json:"kind"`
	Language      string     `json:"language"`
	Hidden        bool       `json:"hidden"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Summary       *string    `json:"summary,omitempty"`
	Body          []string   `json:"body"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Pronunciation *string    `json:"pronunciation,omitempty"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsVisible returns true if the entry may be shown on the public site.
func (e *Entry) IsVisible() bool {
	return !e.Hidden
}

// IsScheduled returns true for kinds that carry a start/end window.
func (e *Entry) IsScheduled() bool {
	return e.Kind == EntryKindEvent || e.Kind == EntryKindPopup
}

// Draft is a studio temporary save: the flattened, form-editable version of
// an entry that has not been committed yet.
type Draft struct {
	EntryID      string    `json:"entry_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	ContentInput string    `json:"content_input"`
	SavedAt      time.Time `json:"saved_at"`
}
