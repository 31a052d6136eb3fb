package models

import (
	"fmt"
	"time"
)

// Match is the mutual, paid, time-boxed connection between two profiles.
type Match struct {
	ID            string         `json:"id"`
	Users         [2]UserProfile `json:"users"`
	CreatedAt     time.Time      `json:"createdAt"`
	ChatExpiresAt time.Time      `json:"chatExpiresAt"`
	Status        string         `json:"status"` // active, expired
}

// MatchIDFor derives the deterministic match id for an ordered requester/target
// pair. Re-accepting the same pair overwrites instead of duplicating.
func MatchIDFor(fromID, toID string) string {
	return fmt.Sprintf("match_%s_%s", fromID, toID)
}
