// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PageView records one public view of an entry, collected by the analytics
// queue and written to PostgreSQL in batches.
type PageView struct {
	EntryID    *uuid.UUID `json:"entry_id,omitempty"`
	Kind       EntryKind  `json:"kind"`
	Language   string     `json:"language"`
	Path       string     `json:"path"`
	Referrer   string     `json:"referrer,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
