package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"chispa_app/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SnapshotStore loads and saves the whole application snapshot. Both
// operations are total: load degrades to the fresh seeded snapshot on any
// failure, save is best-effort.
type SnapshotStore interface {
	Load(ctx context.Context) models.Snapshot
	Save(ctx context.Context, state models.Snapshot)
}

// DynamoSnapshotStore persists the snapshot as a single item keyed by
// namespace. Dates are stored as RFC3339 strings and reconstructed on load.
type DynamoSnapshotStore struct {
	Dynamo    *DynamoService
	Table     string
	Namespace string
}

func NewDynamoSnapshotStore(dynamo *DynamoService, table, namespace string) *DynamoSnapshotStore {
	if table == "" {
		table = models.AppStateTable
	}
	if namespace == "" {
		namespace = models.AppStateNamespace
	}
	return &DynamoSnapshotStore{Dynamo: dynamo, Table: table, Namespace: namespace}
}

// Load returns the persisted snapshot, or the fresh seeded one if nothing was
// saved yet or the record cannot be read back. Session and profile always
// come back empty: signing in again is mandatory after every load.
func (s *DynamoSnapshotStore) Load(ctx context.Context) models.Snapshot {
	key := map[string]types.AttributeValue{
		"namespace": &types.AttributeValueMemberS{Value: s.Namespace},
	}

	item, err := s.Dynamo.GetItem(ctx, s.Table, key)
	if err != nil {
		log.Printf("No usable snapshot for namespace %q, starting fresh: %v", s.Namespace, err)
		return FreshSnapshot()
	}

	var stored storedSnapshot
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		log.Printf("Could not unmarshal snapshot for namespace %q, starting fresh: %v", s.Namespace, err)
		return FreshSnapshot()
	}

	state, err := stored.toSnapshot()
	if err != nil {
		log.Printf("Corrupt snapshot for namespace %q, starting fresh: %v", s.Namespace, err)
		return FreshSnapshot()
	}
	return state
}

// Save strips the session identity and current profile, then writes the
// snapshot. Failures are logged and dropped.
func (s *DynamoSnapshotStore) Save(ctx context.Context, state models.Snapshot) {
	stored := toStored(state, s.Namespace)
	if err := s.Dynamo.PutItem(ctx, s.Table, stored); err != nil {
		log.Printf("Could not save snapshot for namespace %q: %v", s.Namespace, err)
	}
}

// FreshSnapshot is the pristine state for a new user or a reset: the fixed
// demo profile directory, no requests, matches or chats, all flags cleared.
func FreshSnapshot() models.Snapshot {
	return models.Snapshot{
		Profiles:  DemoProfiles(),
		Requests:  []models.MatchRequest{},
		Matches:   []models.Match{},
		Chats:     map[string][]models.Message{},
		IsLoading: false,
	}
}

// Stored form of the snapshot. Every date travels as an RFC3339 string,
// because plain serialization loses date-typedness.

type storedSnapshot struct {
	Namespace         string                     `dynamodbav:"namespace"`
	IsLoading         bool                       `dynamodbav:"isLoading"`
	Tokens            int                        `dynamodbav:"tokens"`
	Profiles          []storedProfile            `dynamodbav:"profiles"`
	Requests          []storedRequest            `dynamodbav:"requests"`
	Matches           []storedMatch              `dynamodbav:"matches"`
	Chats             map[string][]storedMessage `dynamodbav:"chats"`
	RedirectMatchID   string                     `dynamodbav:"redirectMatchId"`
	PendingApprovalID string                     `dynamodbav:"pendingApprovalMatchId"`
	NewRequestID      string                     `dynamodbav:"newReceivedRequestId"`
	HasUnreadMessages bool                       `dynamodbav:"hasUnreadMessages"`
}

type storedProfile struct {
	ID            string   `dynamodbav:"id"`
	EmailID       string   `dynamodbav:"emailId"`
	Name          string   `dynamodbav:"name"`
	DOB           string   `dynamodbav:"dob"`
	Gender        string   `dynamodbav:"gender"`
	Preference    string   `dynamodbav:"preference"`
	Location      string   `dynamodbav:"location"`
	Bio           string   `dynamodbav:"bio"`
	PhotoURL      string   `dynamodbav:"photoUrl"`
	Photos        []string `dynamodbav:"photos"`
	Tokens        int      `dynamodbav:"tokens"`
	ReferralCount int      `dynamodbav:"referralCount"`
}

type storedRequest struct {
	ID               string        `dynamodbav:"id"`
	From             storedProfile `dynamodbav:"from"`
	To               storedProfile `dynamodbav:"to"`
	Status           string        `dynamodbav:"status"`
	CreatedAt        string        `dynamodbav:"createdAt"`
	PaymentExpiresAt string        `dynamodbav:"paymentExpiresAt,omitempty"`
}

type storedMatch struct {
	ID            string          `dynamodbav:"id"`
	Users         []storedProfile `dynamodbav:"users"`
	CreatedAt     string          `dynamodbav:"createdAt"`
	ChatExpiresAt string          `dynamodbav:"chatExpiresAt"`
	Status        string          `dynamodbav:"status"`
}

type storedMessage struct {
	ID        string `dynamodbav:"messageId"`
	SenderID  string `dynamodbav:"senderId"`
	Text      string `dynamodbav:"text"`
	CreatedAt string `dynamodbav:"createdAt"`
	Read      bool   `dynamodbav:"read"`
}

func toStored(state models.Snapshot, namespace string) storedSnapshot {
	stored := storedSnapshot{
		Namespace:         namespace,
		IsLoading:         false,
		Tokens:            state.Tokens,
		Profiles:          make([]storedProfile, len(state.Profiles)),
		Requests:          make([]storedRequest, len(state.Requests)),
		Matches:           make([]storedMatch, len(state.Matches)),
		Chats:             make(map[string][]storedMessage, len(state.Chats)),
		RedirectMatchID:   state.RedirectMatchID,
		PendingApprovalID: state.PendingApprovalID,
		NewRequestID:      state.NewRequestID,
		HasUnreadMessages: state.HasUnreadMessages,
	}
	for i, p := range state.Profiles {
		stored.Profiles[i] = toStoredProfile(p)
	}
	for i, r := range state.Requests {
		sr := storedRequest{
			ID:        r.ID,
			From:      toStoredProfile(r.From),
			To:        toStoredProfile(r.To),
			Status:    r.Status,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		}
		if r.PaymentExpiresAt != nil {
			sr.PaymentExpiresAt = r.PaymentExpiresAt.Format(time.RFC3339)
		}
		stored.Requests[i] = sr
	}
	for i, m := range state.Matches {
		stored.Matches[i] = storedMatch{
			ID:            m.ID,
			Users:         []storedProfile{toStoredProfile(m.Users[0]), toStoredProfile(m.Users[1])},
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
			ChatExpiresAt: m.ChatExpiresAt.Format(time.RFC3339),
			Status:        m.Status,
		}
	}
	for id, thread := range state.Chats {
		messages := make([]storedMessage, len(thread))
		for i, msg := range thread {
			messages[i] = storedMessage{
				ID:        msg.ID,
				SenderID:  msg.SenderID,
				Text:      msg.Text,
				CreatedAt: msg.CreatedAt.Format(time.RFC3339),
				Read:      msg.Read,
			}
		}
		stored.Chats[id] = messages
	}
	return stored
}

func toStoredProfile(p models.UserProfile) storedProfile {
	return storedProfile{
		ID:            p.ID,
		EmailID:       p.EmailID,
		Name:          p.Name,
		DOB:           p.DOB.Format(time.RFC3339),
		Gender:        p.Gender,
		Preference:    p.Preference,
		Location:      p.Location,
		Bio:           p.Bio,
		PhotoURL:      p.PhotoURL,
		Photos:        p.Photos,
		Tokens:        p.Tokens,
		ReferralCount: p.ReferralCount,
	}
}

func (s storedSnapshot) toSnapshot() (models.Snapshot, error) {
	state := models.Snapshot{
		IsLoading:         false,
		Tokens:            s.Tokens,
		Profiles:          make([]models.UserProfile, len(s.Profiles)),
		Requests:          make([]models.MatchRequest, len(s.Requests)),
		Matches:           make([]models.Match, len(s.Matches)),
		Chats:             make(map[string][]models.Message, len(s.Chats)),
		RedirectMatchID:   s.RedirectMatchID,
		PendingApprovalID: s.PendingApprovalID,
		NewRequestID:      s.NewRequestID,
		HasUnreadMessages: s.HasUnreadMessages,
	}
	for i, p := range s.Profiles {
		profile, err := p.toProfile()
		if err != nil {
			return models.Snapshot{}, err
		}
		state.Profiles[i] = profile
	}
	if len(state.Profiles) == 0 {
		state.Profiles = DemoProfiles()
	}
	for i, r := range s.Requests {
		request, err := r.toRequest()
		if err != nil {
			return models.Snapshot{}, err
		}
		state.Requests[i] = request
	}
	for i, m := range s.Matches {
		match, err := m.toMatch()
		if err != nil {
			return models.Snapshot{}, err
		}
		state.Matches[i] = match
	}
	for id, thread := range s.Chats {
		messages := make([]models.Message, len(thread))
		for i, msg := range thread {
			createdAt, err := time.Parse(time.RFC3339, msg.CreatedAt)
			if err != nil {
				return models.Snapshot{}, fmt.Errorf("message %s has a bad timestamp: %w", msg.ID, err)
			}
			messages[i] = models.Message{
				ID:        msg.ID,
				SenderID:  msg.SenderID,
				Text:      msg.Text,
				CreatedAt: createdAt,
				Read:      msg.Read,
			}
		}
		state.Chats[id] = messages
	}
	return state, nil
}

func (p storedProfile) toProfile() (models.UserProfile, error) {
	dob, err := time.Parse(time.RFC3339, p.DOB)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("profile %s has a bad dob: %w", p.ID, err)
	}
	photos := p.Photos
	if len(photos) == 0 && p.PhotoURL != "" {
		photos = []string{p.PhotoURL}
	}
	if p.ReferralCount < 0 || p.ReferralCount >= models.ReferralGoal {
		p.ReferralCount = 0
	}
	return models.UserProfile{
		ID:            p.ID,
		EmailID:       p.EmailID,
		Name:          p.Name,
		DOB:           dob,
		Gender:        p.Gender,
		Preference:    p.Preference,
		Location:      p.Location,
		Bio:           p.Bio,
		PhotoURL:      p.PhotoURL,
		Photos:        photos,
		Tokens:        p.Tokens,
		ReferralCount: p.ReferralCount,
	}, nil
}

func (r storedRequest) toRequest() (models.MatchRequest, error) {
	from, err := r.From.toProfile()
	if err != nil {
		return models.MatchRequest{}, err
	}
	to, err := r.To.toProfile()
	if err != nil {
		return models.MatchRequest{}, err
	}
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return models.MatchRequest{}, fmt.Errorf("request %s has a bad createdAt: %w", r.ID, err)
	}
	request := models.MatchRequest{
		ID:        r.ID,
		From:      from,
		To:        to,
		Status:    r.Status,
		CreatedAt: createdAt,
	}
	if r.PaymentExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, r.PaymentExpiresAt)
		if err != nil {
			return models.MatchRequest{}, fmt.Errorf("request %s has a bad paymentExpiresAt: %w", r.ID, err)
		}
		request.PaymentExpiresAt = &expires
	}
	return request, nil
}

func (m storedMatch) toMatch() (models.Match, error) {
	if len(m.Users) != 2 {
		return models.Match{}, fmt.Errorf("match %s does not have exactly two users", m.ID)
	}
	first, err := m.Users[0].toProfile()
	if err != nil {
		return models.Match{}, err
	}
	second, err := m.Users[1].toProfile()
	if err != nil {
		return models.Match{}, err
	}
	createdAt, err := time.Parse(time.RFC3339, m.CreatedAt)
	if err != nil {
		return models.Match{}, fmt.Errorf("match %s has a bad createdAt: %w", m.ID, err)
	}
	chatExpiresAt, err := time.Parse(time.RFC3339, m.ChatExpiresAt)
	if err != nil {
		return models.Match{}, fmt.Errorf("match %s has a bad chatExpiresAt: %w", m.ID, err)
	}
	return models.Match{
		ID:            m.ID,
		Users:         [2]models.UserProfile{first, second},
		CreatedAt:     createdAt,
		ChatExpiresAt: chatExpiresAt,
		Status:        m.Status,
	}, nil
}
