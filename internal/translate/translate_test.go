// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package translate

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"contentstudio/internal/ai"
)

// fakeProvider upper-cases every text it is sent unless reply is set.
type fakeProvider struct {
	mu    sync.Mutex
	calls int
	sent  [][]string
	reply string
	err   error
}

func (f *fakeProvider) Complete(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	var in struct {
		Texts []string `json:"texts"`
	}
	if err := json.Unmarshal([]byte(req.Prompt), &in); err != nil {
		return "", err
	}
	f.sent = append(f.sent, in.Texts)
	if f.reply != "" {
		return f.reply, nil
	}
	out := make([]string, len(in.Texts))
	for i, s := range in.Texts {
		out[i] = strings.ToUpper(s)
	}
	b, _ := json.Marshal(map[string][]string{"translations": out})
	return string(b), nil
}

// memCache is an in-memory Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) GetMany(_ context.Context, source, target string, texts []string) map[int]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[int]string{}
	for i, s := range texts {
		if v, ok := c.data[source+">"+target+">"+s]; ok {
			out[i] = v
		}
	}
	return out
}

func (c *memCache) SetMany(_ context.Context, source, target string, pairs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range pairs {
		c.data[source+">"+target+">"+k] = v
	}
}

func TestTranslateBatchPositional(t *testing.T) {
	p := &fakeProvider{}
	tr := New(p, nil)

	res, err := tr.TranslateBatch(context.Background(), []string{"one", "", "two", "one", "  "}, "en", "ro")
	if err != nil {
		t.Fatalf("TranslateBatch: %v", err)
	}
	want := []string{"ONE", "", "TWO", "ONE", "  "}
	if !slices.Equal(res.Values, want) {
		t.Errorf("Values = %q, want %q", res.Values, want)
	}
	if !res.HasChanged {
		t.Error("HasChanged = false")
	}
	if p.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", p.calls)
	}
	if !slices.Equal(p.sent[0], []string{"one", "two"}) {
		t.Errorf("sent = %q, want deduplicated non-blank texts", p.sent[0])
	}
}

func TestTranslateBatchIdentity(t *testing.T) {
	tests := []struct {
		name           string
		source, target string
		texts          []string
	}{
		{"same language", "ro", "ro", []string{"Salut"}},
		{"case and space", " EN", "en ", []string{"Hello"}},
		{"empty batch", "en", "de", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{}
			res, err := New(p, nil).TranslateBatch(context.Background(), tt.texts, tt.source, tt.target)
			if err != nil {
				t.Fatal(err)
			}
			if p.calls != 0 {
				t.Errorf("provider called %d times", p.calls)
			}
			if res.HasChanged {
				t.Error("HasChanged = true")
			}
			if len(res.Values) != len(tt.texts) {
				t.Errorf("len(Values) = %d", len(res.Values))
			}
		})
	}
}

func TestTranslateBatchUsesCache(t *testing.T) {
	p := &fakeProvider{}
	c := newMemCache()
	tr := New(p, c)
	ctx := context.Background()

	if _, err := tr.TranslateBatch(ctx, []string{"a", "b"}, "en", "de"); err != nil {
		t.Fatal(err)
	}
	res, err := tr.TranslateBatch(ctx, []string{"b", "c", "a"}, "en", "de")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Values, []string{"B", "C", "A"}) {
		t.Errorf("Values = %q", res.Values)
	}
	if p.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", p.calls)
	}
	if !slices.Equal(p.sent[1], []string{"c"}) {
		t.Errorf("second call sent %q, want only the uncached text", p.sent[1])
	}

	if _, err := tr.TranslateBatch(ctx, []string{"a", "b", "c"}, "en", "de"); err != nil {
		t.Fatal(err)
	}
	if p.calls != 2 {
		t.Errorf("fully cached batch still called the provider")
	}
}

func TestTranslateBatchUnchanged(t *testing.T) {
	p := &fakeProvider{reply: `{"translations":["Berlin"]}`}
	res, err := New(p, nil).TranslateBatch(context.Background(), []string{"Berlin"}, "en", "de")
	if err != nil {
		t.Fatal(err)
	}
	if res.HasChanged {
		t.Error("HasChanged = true for identical output")
	}
}

func TestTranslateBatchErrors(t *testing.T) {
	boom := errors.New("provider down")
	tests := []struct {
		name     string
		provider *fakeProvider
		want     error
	}{
		{"length mismatch", &fakeProvider{reply: `{"translations":["x"]}`}, ErrLengthMismatch},
		{"malformed", &fakeProvider{reply: `sorry, I cannot do that`}, ErrMalformedResponse},
		{"provider error", &fakeProvider{err: boom}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMemCache()
			_, err := New(tt.provider, c).TranslateBatch(context.Background(), []string{"a", "b"}, "en", "fr")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(c.data) != 0 {
				t.Error("failed batch was cached")
			}
		})
	}
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"object", `{"translations":["a","b"]}`, []string{"a", "b"}},
		{"bare array", `["a","b"]`, []string{"a", "b"}},
		{"fenced", "```json\n{\"translations\":[\"a\"]}\n```", []string{"a"}},
		{"fenced no lang", "```\n[\"a\"]\n```", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReply(tt.reply)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
