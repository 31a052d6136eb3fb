package services

import (
	"strings"
	"time"

	"chispa_app/models"

	"github.com/google/uuid"
)

// Action types the presentation layer may dispatch.
const (
	ActionSetSession           = "set_session"
	ActionLogin                = "login"
	ActionSetLoading           = "set_loading"
	ActionLogout               = "logout"
	ActionUpdateProfile        = "update_profile"
	ActionPurchaseTokens       = "purchase_tokens"
	ActionSendRequest          = "send_request"
	ActionHandleRequest        = "handle_request"
	ActionAddMessage           = "add_message"
	ActionMarkChatRead         = "mark_chat_read"
	ActionIncrementReferral    = "increment_referral_count"
	ActionClearRedirect        = "clear_redirect_match"
	ActionClearPendingApproval = "clear_pending_approval"
	ActionClearNewRequest      = "clear_new_request"
	ActionClearUnread          = "clear_unread_messages"
	ActionReset                = "reset_state"
)

// Action is a single dispatched intent. Only the fields relevant to its Type
// are read. The login callbacks are invoked by the session facade after the
// transition completes, never by the engine itself.
type Action struct {
	Type      string
	Session   *models.Session
	Profile   *models.UserProfile
	Email     string
	Password  string
	Loading   bool
	Count     int
	To        models.UserProfile
	RequestID string
	Status    string
	MatchID   string
	Message   models.Message
	OnSuccess func()
	OnError   func(message string)
}

// LifecycleService computes the next snapshot for a dispatched action. It is
// a pure transition function: precondition misses return the state unchanged,
// there are no errors and no side effects. The clock and id source are
// injectable so transitions are deterministic under test.
type LifecycleService struct {
	Now   func() time.Time
	NewID func() string
}

func NewLifecycleService() *LifecycleService {
	return &LifecycleService{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Apply maps (current snapshot, action) to the next snapshot.
func (ls *LifecycleService) Apply(state models.Snapshot, action Action) models.Snapshot {
	next := state.Clone()

	switch action.Type {
	case ActionSetLoading:
		next.IsLoading = action.Loading
		return next

	case ActionSetSession:
		next.Session = action.Session
		next.Profile = action.Profile
		next.Tokens = 0
		if action.Profile != nil {
			next.Tokens = action.Profile.Tokens
		}
		next.IsLoading = false
		next.HasUnreadMessages = hasUnreadFor(next)
		return next

	case ActionLogin:
		return ls.applyLogin(next, action)

	case ActionLogout:
		next.Session = nil
		next.Profile = nil
		next.Tokens = 0
		next.IsLoading = false
		next.HasUnreadMessages = false
		return next

	case ActionUpdateProfile:
		return ls.applyUpdateProfile(next, action)

	case ActionPurchaseTokens:
		if next.Profile == nil || action.Count <= 0 {
			return next
		}
		profile := *next.Profile
		profile.Tokens += action.Count
		return adoptProfile(next, profile)

	case ActionSendRequest:
		return ls.applySendRequest(next, action)

	case ActionHandleRequest:
		return ls.applyHandleRequest(next, action)

	case ActionAddMessage:
		return ls.applyAddMessage(next, action)

	case ActionMarkChatRead:
		return applyMarkChatRead(next, action)

	case ActionIncrementReferral:
		if next.Profile == nil {
			return next
		}
		profile := *next.Profile
		profile.ReferralCount++
		if profile.ReferralCount >= models.ReferralGoal {
			profile.Tokens++
			profile.ReferralCount = 0
		}
		return adoptProfile(next, profile)

	case ActionClearRedirect:
		next.RedirectMatchID = ""
		return next

	case ActionClearPendingApproval:
		next.PendingApprovalID = ""
		return next

	case ActionClearNewRequest:
		next.NewRequestID = ""
		return next

	case ActionClearUnread:
		next.HasUnreadMessages = false
		return next

	case ActionReset:
		return FreshSnapshot()
	}

	return next
}

func (ls *LifecycleService) applyLogin(next models.Snapshot, action Action) models.Snapshot {
	profile, ok := next.FindProfileByEmail(action.Email)
	if !ok {
		next.IsLoading = false
		return next
	}
	next.Session = &models.Session{
		UserID:      profile.ID,
		DisplayName: profile.Name,
		EmailID:     profile.EmailID,
	}
	current := profile.Clone()
	next.Profile = &current
	next.Tokens = profile.Tokens
	next.IsLoading = false
	next.HasUnreadMessages = hasUnreadFor(next)
	return next
}

func (ls *LifecycleService) applyUpdateProfile(next models.Snapshot, action Action) models.Snapshot {
	if action.Profile == nil {
		return next
	}
	profile := action.Profile.Clone()

	// A brand-new identity gets exactly the starting grant; an existing one
	// keeps its current balance and referral progress no matter what the
	// payload carries. Profile edits must never touch the economy.
	existing, isExisting := next.FindProfile(profile.ID)
	if isExisting {
		profile.Tokens = existing.Tokens
		profile.ReferralCount = existing.ReferralCount
	} else {
		profile.Tokens = models.StartingTokens
		profile.ReferralCount = 0
	}
	if len(profile.Photos) == 0 && profile.PhotoURL != "" {
		profile.Photos = []string{profile.PhotoURL}
	}

	next.Session = &models.Session{
		UserID:      profile.ID,
		DisplayName: profile.Name,
		EmailID:     profile.EmailID,
	}
	if isExisting {
		return adoptProfile(next, profile)
	}
	next.Profiles = append(next.Profiles, profile)
	current := profile.Clone()
	next.Profile = &current
	next.Tokens = profile.Tokens
	return next
}

func (ls *LifecycleService) applySendRequest(next models.Snapshot, action Action) models.Snapshot {
	// A token gates every request. With an empty balance this is a silent
	// no-op, not an error: the UI has already filtered the option out.
	if next.Profile == nil || next.Profile.Tokens < 1 {
		return next
	}

	sender := *next.Profile
	sender.Tokens--
	next = adoptProfile(next, sender)

	request := models.MatchRequest{
		ID:        "req_" + ls.NewID(),
		From:      sender.Clone(),
		To:        action.To.Clone(),
		Status:    models.RequestStatusPending,
		CreatedAt: ls.Now(),
	}
	next.Requests = append(next.Requests, request)
	next.NewRequestID = request.ID
	return next
}

func (ls *LifecycleService) applyHandleRequest(next models.Snapshot, action Action) models.Snapshot {
	request, ok := next.FindRequest(action.RequestID)
	if !ok {
		return next
	}
	// Terminal requests never change again. Re-cancelling an already
	// cancelled request lands here, which makes the countdown's cancel
	// dispatch idempotent.
	if request.IsTerminal() {
		return next
	}
	if !transitionAllowed(request.Status, action.Status) {
		return next
	}

	updated := request.Clone()
	updated.Status = action.Status

	if action.Status == models.RequestStatusAwaiting {
		expires := ls.Now().Add(models.PaymentWindow)
		updated.PaymentExpiresAt = &expires
		// The original sender still has to pay the final step.
		next.PendingApprovalID = request.ID
	}

	for i := range next.Requests {
		if next.Requests[i].ID == updated.ID {
			next.Requests[i] = updated
		}
	}

	if action.Status == models.RequestStatusAccepted {
		now := ls.Now()
		match := models.Match{
			ID:            models.MatchIDFor(request.From.ID, request.To.ID),
			Users:         [2]models.UserProfile{request.From.Clone(), request.To.Clone()},
			CreatedAt:     now,
			ChatExpiresAt: now.Add(models.ChatWindow),
			Status:        models.MatchStatusActive,
		}
		// Same pair, same id: the previous match is overwritten, never
		// duplicated. Last accepted state wins.
		kept := next.Matches[:0]
		for _, m := range next.Matches {
			if m.ID != match.ID {
				kept = append(kept, m)
			}
		}
		next.Matches = append(kept, match)
		next.Chats[match.ID] = []models.Message{}
		next.RedirectMatchID = match.ID
	}

	return next
}

func transitionAllowed(from, to string) bool {
	switch to {
	case models.RequestStatusAwaiting:
		return from == models.RequestStatusPending
	case models.RequestStatusAccepted:
		return from == models.RequestStatusAwaiting
	case models.RequestStatusRejected, models.RequestStatusCancelled:
		return from == models.RequestStatusPending || from == models.RequestStatusAwaiting
	}
	return false
}

func (ls *LifecycleService) applyAddMessage(next models.Snapshot, action Action) models.Snapshot {
	if strings.TrimSpace(action.Message.Text) == "" {
		return next
	}

	message := action.Message
	if message.ID == "" {
		message.ID = ls.NewID()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = ls.Now()
	}
	message.Read = false // every message starts unread

	next.Chats[action.MatchID] = append(next.Chats[action.MatchID], message)
	next.HasUnreadMessages = hasUnreadFor(next)
	return next
}

func applyMarkChatRead(next models.Snapshot, action Action) models.Snapshot {
	if next.Profile == nil {
		return next
	}
	thread, ok := next.Chats[action.MatchID]
	if !ok {
		return next
	}
	for i := range thread {
		if thread[i].SenderID != next.Profile.ID {
			thread[i].Read = true
		}
	}
	next.Chats[action.MatchID] = thread
	next.HasUnreadMessages = hasUnreadFor(next)
	return next
}

// adoptProfile installs an updated profile as the current one, mirrors its
// token balance, and writes it back into the directory.
func adoptProfile(next models.Snapshot, profile models.UserProfile) models.Snapshot {
	current := profile.Clone()
	next.Profile = &current
	next.Tokens = profile.Tokens
	for i := range next.Profiles {
		if next.Profiles[i].ID == profile.ID {
			next.Profiles[i] = profile.Clone()
		}
	}
	return next
}

// hasUnreadFor reports whether any chat thread's most recent message was
// authored by someone other than the signed-in profile and is still unread.
func hasUnreadFor(state models.Snapshot) bool {
	if state.Profile == nil {
		return false
	}
	for _, thread := range state.Chats {
		if len(thread) == 0 {
			continue
		}
		last := thread[len(thread)-1]
		if last.SenderID != state.Profile.ID && !last.Read {
			return true
		}
	}
	return false
}
