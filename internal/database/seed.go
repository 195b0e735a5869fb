package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

type seedEntry struct {
	kind, slug, title, summary string
	body                       []string
	location                   string
	startsIn                   time.Duration
}

var seedEntries = []seedEntry{
	{
		kind:    "trend",
		slug:    "slow-travel",
		title:   "Slow travel is back",
		summary: "Fewer stops, longer stays.",
		body: []string{
			"<p>Travellers are trading packed itineraries for <b>longer stays</b>.</p>",
			"<h2>Why it matters</h2>",
			"<p>Local businesses see steadier demand across the season.</p>",
		},
	},
	{
		kind:     "event",
		slug:     "harbour-night-market",
		title:    "Harbour night market",
		summary:  "Street food and live music by the water.",
		body:     []string{"Stalls open at sunset.", "Bring cash for the smaller vendors."},
		location: "Old Harbour",
		startsIn: 14 * 24 * time.Hour,
	},
	{
		kind:    "phrase",
		slug:    "good-morning",
		title:   "Good morning",
		summary: "A friendly greeting before noon.",
		body:    []string{"Used until around midday.", "Pair it with a smile."},
	},
	{
		kind:     "popup",
		slug:     "rooftop-cinema",
		title:    "Rooftop cinema",
		summary:  "Open-air screenings all summer.",
		body:     []string{"<p>Classic films every Friday.</p><p><img src=\"/static/sample/rooftop.jpg\" alt=\"Rooftop\"></p>"},
		location: "Central Parking Deck",
		startsIn: 30 * 24 * time.Hour,
	},
}

// Seed populates the database with sample entries for development. It does
// nothing when any entry already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count); err != nil {
		return fmt.Errorf("seed check entries: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	now := time.Now().UTC().Truncate(time.Hour)
	for _, e := range seedEntries {
		body, err := json.Marshal(e.body)
		if err != nil {
			return fmt.Errorf("seed marshal body: %w", err)
		}

		var startsAt, endsAt, location any
		if e.startsIn > 0 {
			startsAt = now.Add(e.startsIn)
			endsAt = now.Add(e.startsIn + 4*time.Hour)
		}
		if e.location != "" {
			location = e.location
		}

		_, err = db.Exec(`
			INSERT INTO entries (kind, language, title, slug, summary, body, location, starts_at, ends_at)
			VALUES ($1, 'en', $2, $3, $4, $5, $6, $7, $8)
		`, e.kind, e.title, e.slug, e.summary, body, location, startsAt, endsAt)
		if err != nil {
			return fmt.Errorf("seed insert %s: %w", e.slug, err)
		}
	}

	slog.Info("database seeded with sample entries", "count", len(seedEntries))
	return nil
}
