package services

import (
	"fmt"
	"testing"
	"time"

	"chispa_app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *LifecycleService {
	counter := 0
	return &LifecycleService{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		},
	}
}

func signIn(t *testing.T, engine *LifecycleService, state models.Snapshot, email string) models.Snapshot {
	t.Helper()
	next := engine.Apply(state, Action{Type: ActionLogin, Email: email})
	require.NotNil(t, next.Profile, "expected %s to sign in", email)
	return next
}

func TestRequestLifecycle_FullScenario(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	brenda, ok := state.FindProfileByEmail("brenda@email.com")
	require.True(t, ok)

	// Alejandro spends a token on a request to Brenda.
	state = engine.Apply(state, Action{Type: ActionSendRequest, To: brenda})
	require.Len(t, state.Requests, 1)
	request := state.Requests[0]
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, 2, state.Tokens)
	assert.Equal(t, 2, state.Profile.Tokens)
	assert.Equal(t, request.ID, state.NewRequestID)
	assert.Nil(t, request.PaymentExpiresAt)

	directoryCopy, _ := state.FindProfile("1")
	assert.Equal(t, 2, directoryCopy.Tokens, "directory must mirror the spent token")

	// Brenda accepts and pays the first step.
	state = signIn(t, engine, state, "brenda@email.com")
	state = engine.Apply(state, Action{Type: ActionHandleRequest, RequestID: request.ID, Status: models.RequestStatusAwaiting})
	updated, _ := state.FindRequest(request.ID)
	assert.Equal(t, models.RequestStatusAwaiting, updated.Status)
	require.NotNil(t, updated.PaymentExpiresAt)
	assert.Equal(t, testNow.Add(models.PaymentWindow), *updated.PaymentExpiresAt)
	assert.Equal(t, request.ID, state.PendingApprovalID)

	// Alejandro pays the final approval.
	state = signIn(t, engine, state, "alejandro@email.com")
	state = engine.Apply(state, Action{Type: ActionHandleRequest, RequestID: request.ID, Status: models.RequestStatusAccepted})
	updated, _ = state.FindRequest(request.ID)
	assert.Equal(t, models.RequestStatusAccepted, updated.Status)

	require.Len(t, state.Matches, 1)
	match := state.Matches[0]
	assert.Equal(t, models.MatchIDFor("1", "2"), match.ID)
	assert.Equal(t, models.MatchStatusActive, match.Status)
	assert.Equal(t, testNow.Add(models.ChatWindow), match.ChatExpiresAt)
	assert.Empty(t, state.Chats[match.ID])
	assert.Equal(t, match.ID, state.RedirectMatchID)
}

func TestSendRequest_ZeroTokens_LeavesSnapshotUnchanged(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "carlos@email.com") // 2 tokens
	diana, _ := state.FindProfileByEmail("diana@email.com")

	state = engine.Apply(state, Action{Type: ActionSendRequest, To: diana})
	state = engine.Apply(state, Action{Type: ActionSendRequest, To: diana})
	require.Equal(t, 0, state.Tokens)

	next := engine.Apply(state, Action{Type: ActionSendRequest, To: diana})
	assert.Equal(t, state, next)
	assert.Len(t, next.Requests, 2)
}

func TestSendRequest_WithoutProfile_NoOp(t *testing.T) {
	engine := testEngine()
	state := FreshSnapshot()
	brenda, _ := state.FindProfileByEmail("brenda@email.com")

	next := engine.Apply(state, Action{Type: ActionSendRequest, To: brenda})
	assert.Equal(t, state, next)
}

func TestUpdateProfile_NewIdentityGetsStartingTokens(t *testing.T) {
	engine := testEngine()
	payload := models.UserProfile{
		ID:            "99",
		EmailID:       "eva@email.com",
		Name:          "Eva",
		DOB:           time.Date(1993, time.March, 3, 0, 0, 0, 0, time.UTC),
		PhotoURL:      "https://placehold.co/600x810.png",
		Tokens:        500, // caller-supplied value must be ignored
		ReferralCount: 4,
	}

	state := engine.Apply(FreshSnapshot(), Action{Type: ActionUpdateProfile, Profile: &payload})
	require.NotNil(t, state.Profile)
	assert.Equal(t, models.StartingTokens, state.Profile.Tokens)
	assert.Equal(t, models.StartingTokens, state.Tokens)
	assert.Equal(t, 0, state.Profile.ReferralCount)
	assert.Equal(t, []string{payload.PhotoURL}, state.Profile.Photos)
	assert.Len(t, state.Profiles, 5)

	require.NotNil(t, state.Session)
	assert.Equal(t, "99", state.Session.UserID)
	assert.Equal(t, "Eva", state.Session.DisplayName)
}

func TestUpdateProfile_ExistingEditKeepsBalance(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "brenda@email.com") // 5 tokens, referral 2

	edited := state.Profile.Clone()
	edited.Bio = "Nuevo bio"
	edited.Tokens = 0
	edited.ReferralCount = 0

	state = engine.Apply(state, Action{Type: ActionUpdateProfile, Profile: &edited})
	assert.Equal(t, "Nuevo bio", state.Profile.Bio)
	assert.Equal(t, 5, state.Profile.Tokens)
	assert.Equal(t, 5, state.Tokens)
	assert.Equal(t, 2, state.Profile.ReferralCount)

	inDirectory, _ := state.FindProfile("2")
	assert.Equal(t, "Nuevo bio", inDirectory.Bio)
	assert.Equal(t, 5, inDirectory.Tokens)
}

func TestPurchaseTokens(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")

	state = engine.Apply(state, Action{Type: ActionPurchaseTokens, Count: 10})
	assert.Equal(t, 13, state.Tokens)
	assert.Equal(t, 13, state.Profile.Tokens)
	inDirectory, _ := state.FindProfile("1")
	assert.Equal(t, 13, inDirectory.Tokens)

	next := engine.Apply(state, Action{Type: ActionPurchaseTokens, Count: -5})
	assert.Equal(t, state, next, "non-positive purchase must be a no-op")
}

func TestIncrementReferral_CyclesAtGoal(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com") // 3 tokens, counter 0

	for i := 1; i < models.ReferralGoal; i++ {
		state = engine.Apply(state, Action{Type: ActionIncrementReferral})
		assert.Equal(t, i, state.Profile.ReferralCount)
		assert.Equal(t, 3, state.Profile.Tokens, "no bonus before the goal")
	}

	state = engine.Apply(state, Action{Type: ActionIncrementReferral})
	assert.Equal(t, 0, state.Profile.ReferralCount, "counter resets at the goal")
	assert.Equal(t, 4, state.Profile.Tokens, "exactly one bonus token")
	assert.Equal(t, 4, state.Tokens)
}

func TestHandleRequest_ReacceptingPairOverwritesMatch(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	brenda, _ := state.FindProfileByEmail("brenda@email.com")

	acceptCycle := func(s models.Snapshot) models.Snapshot {
		s = engine.Apply(s, Action{Type: ActionSendRequest, To: brenda})
		id := s.Requests[len(s.Requests)-1].ID
		s = engine.Apply(s, Action{Type: ActionHandleRequest, RequestID: id, Status: models.RequestStatusAwaiting})
		return engine.Apply(s, Action{Type: ActionHandleRequest, RequestID: id, Status: models.RequestStatusAccepted})
	}

	state = acceptCycle(state)
	matchID := models.MatchIDFor("1", "2")
	state.Chats[matchID] = append(state.Chats[matchID], models.Message{ID: "m1", SenderID: "1", Text: "hola"})

	state = acceptCycle(state)
	assert.Len(t, state.Matches, 1, "same pair must never duplicate a match")
	assert.Equal(t, matchID, state.Matches[0].ID)
	assert.Empty(t, state.Chats[matchID], "re-accept starts the thread over")
}

func TestHandleRequest_TerminalStatesAreImmutable(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	brenda, _ := state.FindProfileByEmail("brenda@email.com")
	state = engine.Apply(state, Action{Type: ActionSendRequest, To: brenda})
	id := state.Requests[0].ID

	state = engine.Apply(state, Action{Type: ActionHandleRequest, RequestID: id, Status: models.RequestStatusCancelled})
	request, _ := state.FindRequest(id)
	assert.Equal(t, models.RequestStatusCancelled, request.Status)

	// The countdown may fire again; the repeat cancel must be a no-op.
	next := engine.Apply(state, Action{Type: ActionHandleRequest, RequestID: id, Status: models.RequestStatusCancelled})
	assert.Equal(t, state, next)

	next = engine.Apply(state, Action{Type: ActionHandleRequest, RequestID: id, Status: models.RequestStatusAccepted})
	assert.Equal(t, state, next)
}

func TestHandleRequest_SkippingApprovalStepIsRejected(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	brenda, _ := state.FindProfileByEmail("brenda@email.com")
	state = engine.Apply(state, Action{Type: ActionSendRequest, To: brenda})
	id := state.Requests[0].ID

	next := engine.Apply(state, Action{Type: ActionHandleRequest, RequestID: id, Status: models.RequestStatusAccepted})
	assert.Equal(t, state, next, "pending cannot jump straight to accepted")
}

func TestHandleRequest_UnknownRequest_NoOp(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	next := engine.Apply(state, Action{Type: ActionHandleRequest, RequestID: "req_missing", Status: models.RequestStatusCancelled})
	assert.Equal(t, state, next)
}

func TestAddMessage_WhitespaceOnly_NoOp(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	state.Chats["match_1_2"] = []models.Message{}

	next := engine.Apply(state, Action{
		Type:    ActionAddMessage,
		MatchID: "match_1_2",
		Message: models.Message{SenderID: "1", Text: "   \n\t"},
	})
	assert.Empty(t, next.Chats["match_1_2"])
}

func TestChatScenario_UnreadFlagFollowsViewer(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	matchID := models.MatchIDFor("1", "2")
	state.Chats[matchID] = []models.Message{}

	// Alejandro writes; his own flag stays down.
	state = engine.Apply(state, Action{
		Type:    ActionAddMessage,
		MatchID: matchID,
		Message: models.Message{SenderID: "1", Text: "hola"},
	})
	require.Len(t, state.Chats[matchID], 1)
	assert.False(t, state.Chats[matchID][0].Read)
	assert.False(t, state.HasUnreadMessages)

	// Brenda signs in and the aggregate flag comes up.
	state = signIn(t, engine, state, "brenda@email.com")
	assert.True(t, state.HasUnreadMessages)

	// Opening the chat flips only Alejandro's message and recomputes.
	state = engine.Apply(state, Action{Type: ActionMarkChatRead, MatchID: matchID})
	assert.True(t, state.Chats[matchID][0].Read)
	assert.False(t, state.HasUnreadMessages)
}

func TestMarkChatRead_LeavesOwnMessagesAlone(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	matchID := models.MatchIDFor("1", "2")
	state.Chats[matchID] = []models.Message{
		{ID: "m1", SenderID: "1", Text: "hola"},
		{ID: "m2", SenderID: "2", Text: "hola!"},
	}

	state = engine.Apply(state, Action{Type: ActionMarkChatRead, MatchID: matchID})
	assert.False(t, state.Chats[matchID][0].Read, "own message untouched")
	assert.True(t, state.Chats[matchID][1].Read)
}

func TestLogin_UnknownEmail_LeavesSessionEmpty(t *testing.T) {
	engine := testEngine()
	state := FreshSnapshot()
	next := engine.Apply(state, Action{Type: ActionLogin, Email: "nadie@email.com"})
	assert.Nil(t, next.Session)
	assert.Nil(t, next.Profile)
	assert.Equal(t, 0, next.Tokens)
}

func TestLogout_PreservesEverythingButTheSession(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	brenda, _ := state.FindProfileByEmail("brenda@email.com")
	state = engine.Apply(state, Action{Type: ActionSendRequest, To: brenda})

	next := engine.Apply(state, Action{Type: ActionLogout})
	assert.Nil(t, next.Session)
	assert.Nil(t, next.Profile)
	assert.Equal(t, 0, next.Tokens)
	assert.False(t, next.HasUnreadMessages)
	assert.Len(t, next.Requests, 1)
	assert.Len(t, next.Profiles, 4)
}

func TestReset_ReturnsPristineState(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	brenda, _ := state.FindProfileByEmail("brenda@email.com")
	state = engine.Apply(state, Action{Type: ActionSendRequest, To: brenda})

	next := engine.Apply(state, Action{Type: ActionReset})
	assert.Equal(t, FreshSnapshot(), next)
}

func TestTokenBalances_NeverNegative(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "carlos@email.com")
	diana, _ := state.FindProfileByEmail("diana@email.com")

	actions := []Action{
		{Type: ActionSendRequest, To: diana},
		{Type: ActionSendRequest, To: diana},
		{Type: ActionSendRequest, To: diana}, // over budget, silent no-op
		{Type: ActionIncrementReferral},
		{Type: ActionPurchaseTokens, Count: 1},
		{Type: ActionSendRequest, To: diana},
		{Type: ActionSendRequest, To: diana}, // over budget again
	}
	for _, action := range actions {
		state = engine.Apply(state, action)
		for _, p := range state.Profiles {
			assert.GreaterOrEqual(t, p.Tokens, 0, "profile %s went negative", p.ID)
		}
		assert.GreaterOrEqual(t, state.Tokens, 0)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	engine := testEngine()
	state := signIn(t, engine, FreshSnapshot(), "alejandro@email.com")
	brenda, _ := state.FindProfileByEmail("brenda@email.com")
	before := state.Clone()

	engine.Apply(state, Action{Type: ActionSendRequest, To: brenda})
	engine.Apply(state, Action{Type: ActionIncrementReferral})
	assert.Equal(t, before, state)
}
