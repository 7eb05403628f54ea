package position

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code   int
		abbrev string
		name   string
	}{
		{0, "C", "Center"},
		{1, "LW", "Left Wing"},
		{2, "RW", "Right Wing"},
		{3, "F", "Forward"},
		{4, "D", "Defenseman"},
		{5, "G", "Goalie"},
		{6, "UTIL", "Utility"},
		{7, "BE", "Bench"},
		{8, "IR", "Injury Reserve"},
		{9, "INV", "Invalid Player"},
		{10, "SK", "Skater"},
	}

	for _, tt := range tests {
		pos, err := Resolve(tt.code)
		if err != nil {
			t.Fatalf("resolve slot %d: %v", tt.code, err)
		}
		if pos.Abbrev != tt.abbrev || pos.Name != tt.name {
			t.Fatalf("slot %d: expected %s/%s, got %s/%s", tt.code, tt.abbrev, tt.name, pos.Abbrev, pos.Name)
		}
	}

	if _, err := Resolve(11); !errors.Is(err, ErrUnrecognizedCode) {
		t.Fatalf("expected ErrUnrecognizedCode, got %v", err)
	}
}

func TestResolveDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id     int
		abbrev string
		name   string
	}{
		{1, "C", "Center"},
		{2, "LW", "Left Wing"},
		{3, "RW", "Right Wing"},
		{4, "D", "Defenseman"},
		{5, "G", "Goalie"},
	}

	for _, tt := range tests {
		pos, err := ResolveDefault(tt.id)
		if err != nil {
			t.Fatalf("resolve default %d: %v", tt.id, err)
		}
		if pos.Abbrev != tt.abbrev || pos.Name != tt.name {
			t.Fatalf("default %d: expected %s/%s, got %s/%s", tt.id, tt.abbrev, tt.name, pos.Abbrev, pos.Name)
		}
	}

	for _, id := range []int{0, 6, -1} {
		if _, err := ResolveDefault(id); !errors.Is(err, ErrUnrecognizedCode) {
			t.Fatalf("default %d: expected ErrUnrecognizedCode, got %v", id, err)
		}
	}
}

func TestEligible_FiltersMetaSlotsKeepsOrder(t *testing.T) {
	t.Parallel()

	// A typical center eligible at wing, plus the usual meta slots.
	eligible, err := Eligible([]int{0, 1, 3, 6, 7, 10})
	if err != nil {
		t.Fatalf("eligible: %v", err)
	}

	got := strings.Join(Abbrevs(eligible), ",")
	if got != "C,LW" {
		t.Fatalf("expected C,LW got %s", got)
	}
}

func TestEligible_UnknownSlotFails(t *testing.T) {
	t.Parallel()

	if _, err := Eligible([]int{0, 42}); !errors.Is(err, ErrUnrecognizedCode) {
		t.Fatalf("expected ErrUnrecognizedCode, got %v", err)
	}
}

func TestNonPrimary_SortedByAbbrev(t *testing.T) {
	t.Parallel()

	eligible, err := Eligible([]int{2, 0, 1})
	if err != nil {
		t.Fatalf("eligible: %v", err)
	}
	primary, err := ResolveDefault(3)
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}

	got := strings.Join(Abbrevs(NonPrimary(eligible, primary)), ",")
	if got != "C,LW" {
		t.Fatalf("expected C,LW got %s", got)
	}
}
