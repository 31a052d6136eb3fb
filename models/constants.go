package models

import "time"

// ✅ Request Statuses
const (
	RequestStatusPending   = "pending"
	RequestStatusAwaiting  = "awaiting_final_approval"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusCancelled = "cancelled"
)

// ✅ Match Statuses
const (
	MatchStatusActive  = "active"
	MatchStatusExpired = "expired"
)

// Token economy
const (
	StartingTokens = 3 // granted once, on first profile creation
	ReferralGoal   = 5 // share actions per bonus token
)

// Time windows
const (
	PaymentWindow = 48 * time.Hour // receiver accepted, sender must pay within this
	ChatWindow    = 24 * time.Hour // chat lifetime after a match is created
)

// AppStateTable is the DynamoDB table name for persisted snapshots
const AppStateTable = "AppState"

// AppStateNamespace is the partition key value of the single snapshot record
const AppStateNamespace = "appState"
