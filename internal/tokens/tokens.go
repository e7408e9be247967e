// Package tokens builds the normalized search-index token sets used for
// fuzzy name matching. A token set contains every [a-z0-9] word fragment of
// each name plus the full lowercased name itself, so both "wizard" and
// "electric wizard" resolve the same record.
package tokens

import (
	"regexp"
	"sort"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases a name and collapses whitespace runs to single
// spaces, so irregular spacing in source data and query terms resolves to
// the same token.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Lineup tokenizes a list of act names into a single deduplicated token set.
// The result is sorted so stored indexes are canonical; callers must treat
// it as an unordered set.
func Lineup(names []string) []string {
	set := make(map[string]struct{})
	for _, name := range names {
		addName(set, name)
	}
	return sorted(set)
}

// Composite tokenizes several distinct attributes (e.g. artist, location,
// title) and additionally includes the full lowercased concatenation as one
// token, supporting exact lookups across the combined field.
func Composite(fields ...string) []string {
	set := make(map[string]struct{})
	var nonEmpty []string
	for _, f := range fields {
		if Normalize(f) == "" {
			continue
		}
		nonEmpty = append(nonEmpty, strings.TrimSpace(f))
		addName(set, f)
	}
	if len(nonEmpty) > 1 {
		set[Normalize(strings.Join(nonEmpty, " "))] = struct{}{}
	}
	return sorted(set)
}

// Contains reports whether the token set includes the normalized term.
func Contains(index []string, term string) bool {
	term = Normalize(term)
	for _, t := range index {
		if t == term {
			return true
		}
	}
	return false
}

func addName(set map[string]struct{}, name string) {
	lower := Normalize(name)
	if lower == "" {
		return
	}
	for _, part := range nonAlnum.Split(lower, -1) {
		if part != "" {
			set[part] = struct{}{}
		}
	}
	set[lower] = struct{}{}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
