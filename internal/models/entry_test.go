package models

import "testing"

func TestEntryKindValid(t *testing.T) {
	tests := []struct {
		name string
		kind EntryKind
		want bool
	}{
		{name: "trend", kind: EntryKindTrend, want: true},
		{name: "event", kind: EntryKindEvent, want: true},
		{name: "phrase", kind: EntryKindPhrase, want: true},
		{name: "popup", kind: EntryKindPopup, want: true},
		{name: "empty", kind: EntryKind(""), want: false},
		{name: "uppercase", kind: EntryKind("TREND"), want: false},
		{name: "unknown", kind: EntryKind("post"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Valid(); got != tt.want {
				t.Errorf("EntryKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestEntryIsVisible(t *testing.T) {
	if !(&Entry{}).IsVisible() {
		t.Error("entry without hidden flag should be visible")
	}
	if (&Entry{Hidden: true}).IsVisible() {
		t.Error("hidden entry should not be visible")
	}
}

// TestEntryIsScheduled verifies that only events and pop-ups carry a window.
func TestEntryIsScheduled(t *testing.T) {
	for _, k := range EntryKinds {
		e := &Entry{Kind: k}
		want := k == EntryKindEvent || k == EntryKindPopup
		if got := e.IsScheduled(); got != want {
			t.Errorf("Entry{Kind: %q}.IsScheduled() = %v, want %v", k, got, want)
		}
	}
}
