package models

import "time"

// UserProfile defines the structure for user profiles
type UserProfile struct {
	ID            string    `dynamodbav:"id" json:"id"`
	EmailID       string    `dynamodbav:"emailId" json:"emailId"`
	Name          string    `dynamodbav:"name,omitempty" json:"name,omitempty"`
	DOB           time.Time `dynamodbav:"-" json:"dob"` // Reconstructed from its stored string form on load
	Gender        string    `dynamodbav:"gender,omitempty" json:"gender,omitempty"`         // male, female, other
	Preference    string    `dynamodbav:"preference,omitempty" json:"preference,omitempty"` // hetero, homo, bi
	Location      string    `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Bio           string    `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL      string    `dynamodbav:"photoUrl,omitempty" json:"photoUrl,omitempty"` // Main photo
	Photos        []string  `dynamodbav:"photos,omitempty" json:"photos,omitempty"`     // All photos, PhotoURL is the first
	Tokens        int       `dynamodbav:"tokens" json:"tokens"`
	ReferralCount int       `dynamodbav:"referralCount" json:"referralCount"`
}

// Session identifies the signed-in user. Never persisted.
type Session struct {
	UserID      string `json:"uid"`
	DisplayName string `json:"displayName"`
	EmailID     string `json:"emailId"`
}
