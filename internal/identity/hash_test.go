package identity

import (
	"errors"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	first, err := Hash("5/1/2019", []string{"Wizard", "Sleep"}, "X Club", "Portland")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := Hash("5/1/2019", []string{"Wizard", "Sleep"}, "X Club", "Portland")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical ids, got %q / %q", first, second)
	}
	if len(first) != 32 {
		t.Fatalf("expected 32-char hex digest, got %q", first)
	}
}

func TestHashLineupOrderSignificant(t *testing.T) {
	ab, err := Hash("5/1/2019", []string{"Wizard", "Sleep"}, "X Club", "Portland")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	ba, err := Hash("5/1/2019", []string{"Sleep", "Wizard"}, "X Club", "Portland")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if ab == ba {
		t.Fatal("expected reordered lineup to produce a different id")
	}
}

func TestHashTrimsFields(t *testing.T) {
	trimmed, err := Hash("5/1/2019", []string{"Wizard"}, "X Club", "Portland")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	padded, err := Hash(" 5/1/2019 ", []string{"  Wizard  "}, " X Club", "Portland ")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if trimmed != padded {
		t.Fatalf("expected whitespace to be ignored, got %q / %q", trimmed, padded)
	}
}

func TestHashRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		lineup []string
		venue  string
		city   string
	}{
		{name: "empty date", lineup: []string{"Wizard"}, venue: "X Club", city: "Portland"},
		{name: "blank venue", date: "5/1/2019", lineup: []string{"Wizard"}, venue: "   ", city: "Portland"},
		{name: "no city", date: "5/1/2019", lineup: []string{"Wizard"}, venue: "X Club"},
		{name: "empty lineup", date: "5/1/2019", venue: "X Club", city: "Portland"},
		{name: "whitespace-only bands", date: "5/1/2019", lineup: []string{" ", ""}, venue: "X Club", city: "Portland"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Hash(tc.date, tc.lineup, tc.venue, tc.city); !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
		})
	}
}
