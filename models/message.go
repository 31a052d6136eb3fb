package models

import "time"

// Message belongs to exactly one match's chat thread.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}
