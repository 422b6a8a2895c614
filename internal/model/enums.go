package model

// Style identifies a producer style preset
type Style string

const (
	StyleDilla  Style = "dilla"
	StyleAlbini Style = "albini"
	StyleBurns  Style = "burns"
)

var ValidStyles = []Style{StyleDilla, StyleAlbini, StyleBurns}

// ParseStyle translates external string input into the closed style set.
// The boolean is false for anything outside the set.
func ParseStyle(s string) (Style, bool) {
	for _, style := range ValidStyles {
		if s == string(style) {
			return style, true
		}
	}
	return "", false
}

// Job status
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusComplete   JobStatus = "complete"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further status transition is permitted.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusFailed
}
