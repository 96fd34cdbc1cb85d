package entity

import "time"

// User is the owning identity of notes. LastSyncAt is advisory telemetry,
// updated opportunistically on pull/push and never relied on for sync
// correctness.
type User struct {
	Email      string
	Name       string
	CreatedAt  time.Time
	LastSyncAt time.Time
}
