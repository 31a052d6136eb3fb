package models

import "time"

// MatchRequest is a one-directional expression of interest from one profile
// to another, paid for with a token by the sender.
type MatchRequest struct {
	ID               string      `json:"id"`
	From             UserProfile `json:"from"`
	To               UserProfile `json:"to"`
	Status           string      `json:"status"` // pending, awaiting_final_approval, accepted, rejected, cancelled
	CreatedAt        time.Time   `json:"createdAt"`
	PaymentExpiresAt *time.Time  `json:"paymentExpiresAt,omitempty"` // Set when the receiver accepts
}

// IsTerminal reports whether the request can no longer change state.
func (r MatchRequest) IsTerminal() bool {
	switch r.Status {
	case RequestStatusAccepted, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the request still counts for cooldown filtering.
func (r MatchRequest) IsActive() bool {
	switch r.Status {
	case RequestStatusPending, RequestStatusAwaiting, RequestStatusAccepted:
		return true
	}
	return false
}
