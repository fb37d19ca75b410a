package model

import "time"

// SlotLock is the advisory lock document guarding the read-check-insert
// sequence of a booking attempt. The ID is the calendar identity, so at most
// one attempt per calendar holds the lock at a time. ExpiresAt bounds the
// damage of a crashed holder; a TTL index reaps stale documents.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
