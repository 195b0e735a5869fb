package handlers

import (
	"strings"
	"unicode/utf8"

	"contentstudio/internal/models"
)

// Validation limits for entry fields.
const (
	maxTitleLen         = 300
	maxSlugLen          = 300
	maxSummaryLen       = 1_000
	maxBodyLen          = 100_000
	maxLocationLen      = 300
	maxPronunciationLen = 300
	maxURLLen           = 2_048
	maxPathLen          = 2_048
)

// validateEntry checks entry inputs and returns the first error found.
func validateEntry(in *entryInput, body []string, langs Languages) string {
	if !in.Kind.Valid() {
		return "Kind must be one of trend, event, phrase, popup."
	}
	if !langs.Supports(in.Language) {
		return "Language is not supported."
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(in.Slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(in.Summary) > maxSummaryLen {
		return "Summary is too long (max 1,000 characters)."
	}
	n := 0
	for _, p := range body {
		n += utf8.RuneCountInString(p)
	}
	if n > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	if utf8.RuneCountInString(in.Location) > maxLocationLen {
		return "Location is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(in.Pronunciation) > maxPronunciationLen {
		return "Pronunciation is too long (max 300 characters)."
	}
	if len(in.CoverImageURL) > maxURLLen {
		return "Cover image URL is too long."
	}
	if in.CoverImageURL != "" && !strings.HasPrefix(in.CoverImageURL, "https://") && !strings.HasPrefix(in.CoverImageURL, "http://") {
		return "Cover image URL must be an http(s) URL."
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		return "End date must not be before the start date."
	}
	return ""
}

// validatePageView checks a public analytics event.
func validatePageView(v *models.PageView, langs Languages) string {
	if !v.Kind.Valid() {
		return "Kind must be one of trend, event, phrase, popup."
	}
	if !langs.Supports(v.Language) {
		return "Language is not supported."
	}
	if v.Path == "" || !strings.HasPrefix(v.Path, "/") {
		return "Path must start with /."
	}
	if len(v.Path) > maxPathLen || len(v.Referrer) > maxURLLen {
		return "Path or referrer is too long."
	}
	return ""
}
