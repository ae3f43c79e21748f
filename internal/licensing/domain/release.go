package domain

import "time"

// Release is update metadata advertised through the release feed.
type Release struct {
	ID      string
	Slug    string
	Version string
	Package string
	URL     string

	PublishedAt time.Time
}
