package models

// Snapshot is the complete application state owned by the lifecycle engine.
// Session and Profile are transient: they are stripped before every save and
// empty after every load, forcing re-authentication.
type Snapshot struct {
	Session   *Session             `json:"user"`
	Profile   *UserProfile         `json:"profile"`
	IsLoading bool                 `json:"isLoading"`
	Tokens    int                  `json:"tokens"` // Mirror of the signed-in profile's balance
	Profiles  []UserProfile        `json:"profiles"`
	Requests  []MatchRequest       `json:"requests"`
	Matches   []Match              `json:"matches"`
	Chats     map[string][]Message `json:"chats"` // Keyed by match id

	// Transient notification flags, consumed by the notification router.
	RedirectMatchID   string `json:"redirectMatchId"`
	PendingApprovalID string `json:"pendingApprovalMatchId"`
	NewRequestID      string `json:"newReceivedRequestId"`
	HasUnreadMessages bool   `json:"hasUnreadMessages"`
}

// Clone returns a deep copy, so callers can hand out read-only views while
// the engine keeps exclusive ownership of the live value.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Session != nil {
		session := *s.Session
		out.Session = &session
	}
	if s.Profile != nil {
		profile := s.Profile.Clone()
		out.Profile = &profile
	}
	out.Profiles = make([]UserProfile, len(s.Profiles))
	for i, p := range s.Profiles {
		out.Profiles[i] = p.Clone()
	}
	out.Requests = make([]MatchRequest, len(s.Requests))
	for i, r := range s.Requests {
		out.Requests[i] = r.Clone()
	}
	out.Matches = make([]Match, len(s.Matches))
	for i, m := range s.Matches {
		out.Matches[i] = m.Clone()
	}
	out.Chats = make(map[string][]Message, len(s.Chats))
	for id, thread := range s.Chats {
		copied := make([]Message, len(thread))
		copy(copied, thread)
		out.Chats[id] = copied
	}
	return out
}

// Clone returns a copy with its own photo slice.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Photos != nil {
		out.Photos = make([]string, len(p.Photos))
		copy(out.Photos, p.Photos)
	}
	return out
}

// Clone returns a copy with its own embedded profiles and expiry pointer.
func (r MatchRequest) Clone() MatchRequest {
	out := r
	out.From = r.From.Clone()
	out.To = r.To.Clone()
	if r.PaymentExpiresAt != nil {
		expires := *r.PaymentExpiresAt
		out.PaymentExpiresAt = &expires
	}
	return out
}

// Clone returns a copy with its own embedded profiles.
func (m Match) Clone() Match {
	out := m
	out.Users[0] = m.Users[0].Clone()
	out.Users[1] = m.Users[1].Clone()
	return out
}

// FindProfile returns the directory profile with the given id.
func (s Snapshot) FindProfile(id string) (UserProfile, bool) {
	for _, p := range s.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return UserProfile{}, false
}

// FindProfileByEmail returns the directory profile with the given email.
func (s Snapshot) FindProfileByEmail(email string) (UserProfile, bool) {
	for _, p := range s.Profiles {
		if p.EmailID == email {
			return p, true
		}
	}
	return UserProfile{}, false
}

// FindRequest returns the request with the given id.
func (s Snapshot) FindRequest(id string) (MatchRequest, bool) {
	for _, r := range s.Requests {
		if r.ID == id {
			return r, true
		}
	}
	return MatchRequest{}, false
}

// FindMatch returns the match with the given id.
func (s Snapshot) FindMatch(id string) (Match, bool) {
	for _, m := range s.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return Match{}, false
}
