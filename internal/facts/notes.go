package facts

import (
	"regexp"
	"strings"

	"showsync/internal/tokens"
)

// Delimiters between act names in free-text event notes: punctuation
// separators or the standalone word "and".
var actSeparator = regexp.MustCompile(`(?i)\s+and\s+|[,&/+|]`)

// ParseSupportActs extracts support acts from an event's notes, dropping
// empties and any self-reference to the headliner.
func ParseSupportActs(notes, headliner string) []string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil
	}

	headlinerNorm := tokens.Normalize(headliner)
	var acts []string
	for _, part := range actSeparator.Split(notes, -1) {
		part = strings.TrimSpace(part)
		if part == "" || tokens.Normalize(part) == headlinerNorm {
			continue
		}
		acts = append(acts, part)
	}
	return acts
}
