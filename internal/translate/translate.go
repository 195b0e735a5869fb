// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package translate translates batches of entry texts through an LLM
// provider, with an injected cache in front of it.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contentstudio/internal/ai"
	"contentstudio/internal/metrics"
)

var (
	// ErrLengthMismatch is returned when the provider answers with a
	// different number of texts than it was given.
	ErrLengthMismatch = errors.New("translate: provider returned wrong number of texts")

	// ErrMalformedResponse is returned when the provider reply is not the
	// expected JSON.
	ErrMalformedResponse = errors.New("translate: malformed provider response")
)

// Completer is the LLM call the translator depends on. *ai.Registry
// satisfies it.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (string, error)
}

// Cache stores translations keyed by language pair and source text.
// *cache.TranslationCache satisfies it.
type Cache interface {
	GetMany(ctx context.Context, source, target string, texts []string) map[int]string
	SetMany(ctx context.Context, source, target string, pairs map[string]string)
}

// Result is a translated batch. Values[i] is the translation of the i-th
// input text. HasChanged reports whether any value differs from its input.
type Result struct {
	Values     []string `json:"values"`
	HasChanged bool     `json:"has_changed"`
}

// Translator is safe for concurrent use.
type Translator struct {
	provider Completer
	cache    Cache
}

// New creates a Translator. cache may be nil.
func New(provider Completer, cache Cache) *Translator {
	return &Translator{provider: provider, cache: cache}
}

const systemPrompt = `You are a professional translator for a travel and culture website.
Translate every text in the "texts" array from %s to %s.
Preserve HTML tags, attributes, Markdown syntax, URLs and placeholders exactly; translate only human-readable text.
Reply with a JSON object of the form {"translations": [...]} containing exactly %d strings, in the same order as the input.`

// TranslateBatch translates texts from source to target. The output keeps a
// strict 1:1 positional mapping with the input. Blank texts pass through
// untouched and the same source and target language short-circuits without
// calling the provider.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, source, target string) (*Result, error) {
	source = normalizeLang(source)
	target = normalizeLang(target)

	values := make([]string, len(texts))
	copy(values, texts)

	if source == target || len(texts) == 0 {
		metrics.TranslationTexts.WithLabelValues("passthrough").Add(float64(len(texts)))
		return &Result{Values: values}, nil
	}

	// Indices still needing a translation, grouped by distinct text.
	var pending []string
	positions := make(map[string][]int)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			metrics.TranslationTexts.WithLabelValues("passthrough").Inc()
			continue
		}
		if _, seen := positions[text]; !seen {
			pending = append(pending, text)
		}
		positions[text] = append(positions[text], i)
	}

	if t.cache != nil && len(pending) > 0 {
		hits := t.cache.GetMany(ctx, source, target, pending)
		remaining := pending[:0:0]
		for i, text := range pending {
			if v, ok := hits[i]; ok {
				for _, pos := range positions[text] {
					values[pos] = v
				}
				metrics.TranslationTexts.WithLabelValues("cache").Add(float64(len(positions[text])))
				continue
			}
			remaining = append(remaining, text)
		}
		pending = remaining
	}

	if len(pending) > 0 {
		translated, err := t.callProvider(ctx, pending, source, target)
		if err != nil {
			metrics.TranslationErrors.Inc()
			return nil, err
		}
		fresh := make(map[string]string, len(pending))
		for i, text := range pending {
			for _, pos := range positions[text] {
				values[pos] = translated[i]
			}
			fresh[text] = translated[i]
			metrics.TranslationTexts.WithLabelValues("provider").Add(float64(len(positions[text])))
		}
		if t.cache != nil {
			t.cache.SetMany(ctx, source, target, fresh)
		}
	}

	res := &Result{Values: values}
	for i := range texts {
		if values[i] != texts[i] {
			res.HasChanged = true
			break
		}
	}
	return res, nil
}

func (t *Translator) callProvider(ctx context.Context, texts []string, source, target string) ([]string, error) {
	prompt, err := json.Marshal(struct {
		Texts []string `json:"texts"`
	}{texts})
	if err != nil {
		return nil, fmt.Errorf("encode translation prompt: %w", err)
	}

	reply, err := t.provider.Complete(ctx, ai.Request{
		System: fmt.Sprintf(systemPrompt, source, target, len(texts)),
		Prompt: string(prompt),
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("translate %s->%s: %w", source, target, err)
	}

	out, err := parseReply(reply)
	if err != nil {
		slog.Warn("unparseable translation reply", "source", source, "target", target, "reply_len", len(reply))
		return nil, err
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrLengthMismatch, len(texts), len(out))
	}
	return out, nil
}

// parseReply accepts {"translations": [...]} or a bare JSON array, with or
// without a Markdown code fence around it.
func parseReply(reply string) ([]string, error) {
	reply = stripFence(strings.TrimSpace(reply))

	var obj struct {
		Translations []string `json:"translations"`
	}
	if err := json.Unmarshal([]byte(reply), &obj); err == nil && obj.Translations != nil {
		return obj.Translations, nil
	}

	var arr []string
	if err := json.Unmarshal([]byte(reply), &arr); err == nil {
		return arr, nil
	}
	return nil, ErrMalformedResponse
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func normalizeLang(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
