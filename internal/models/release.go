package models

import "time"

// ReleaseRecord is a discography entry. SearchIndex is derived from the
// artist name (plus a composite artist/location/title token) and is the only
// field releases are looked up by.
type ReleaseRecord struct {
	ID          string    `json:"id"`
	Artist      string    `json:"artist"`
	Title       string    `json:"title"`
	Location    string    `json:"location,omitempty"`
	Date        time.Time `json:"date"`
	SearchIndex []string  `json:"bandSearch"`
	EmbedMarkup string    `json:"embed"`
	Tags        []string  `json:"tags,omitempty"`
}
