package models

import "time"

// Pin is a one-time code pulled from a single email. It exists only for the
// reply it produces; nothing is persisted across invocations.
type Pin struct {
	Code   string
	SentAt time.Time
}
