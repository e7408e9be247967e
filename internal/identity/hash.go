// Package identity derives content-address ids for show records. The id is a
// pure function of the defining fields, which is what makes re-runs of the
// sync pipeline safe: the same logical show always maps to the same document.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrMissingField signals that a defining field was empty after trimming.
// Records without a complete identity are rejected rather than hashed with
// placeholder values.
var ErrMissingField = errors.New("missing required identity field")

// Hash derives the deterministic id for a show. Lineup order is significant:
// the bands are joined with "," in their given order, then concatenated with
// date, venue, and city using "_" separators and digested with md5. This is
// a deduplication key, not a security boundary.
func Hash(date string, lineup []string, venue, city string) (string, error) {
	date = strings.TrimSpace(date)
	venue = strings.TrimSpace(venue)
	city = strings.TrimSpace(city)

	bands := make([]string, 0, len(lineup))
	for _, b := range lineup {
		if b = strings.TrimSpace(b); b != "" {
			bands = append(bands, b)
		}
	}

	if date == "" || venue == "" || city == "" || len(bands) == 0 {
		return "", ErrMissingField
	}

	raw := date + "_" + strings.Join(bands, ",") + "_" + venue + "_" + city
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:]), nil
}
