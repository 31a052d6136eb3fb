package services

import (
	"context"
	"log"
	"sync"
	"time"

	"chispa_app/models"
)

// ErrUserNotFound is the message handed to the login error callback when the
// email matches no profile in the directory.
const ErrUserNotFound = "Usuario no encontrado. Por favor, usa uno de los perfiles de prueba."

// SessionService is the facade between the presentation layer and the
// lifecycle engine. It owns the only mutable snapshot reference: every intent
// goes through Dispatch, which computes the next snapshot and persists it
// before the next intent is accepted.
type SessionService struct {
	Store  SnapshotStore
	Engine *LifecycleService

	mu    sync.Mutex
	state models.Snapshot
}

func NewSessionService(ctx context.Context, store SnapshotStore) *SessionService {
	return &SessionService{
		Store:  store,
		Engine: NewLifecycleService(),
		state:  store.Load(ctx),
	}
}

// State returns a read-only copy of the current snapshot.
func (ss *SessionService) State() models.Snapshot {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.state.Clone()
}

// Dispatch runs one transition and persists the result.
func (ss *SessionService) Dispatch(ctx context.Context, action Action) models.Snapshot {
	ss.mu.Lock()
	next := ss.Engine.Apply(ss.state, action)
	ss.state = next
	ss.Store.Save(ctx, next)
	ss.mu.Unlock()
	return next.Clone()
}

// Login reloads the persisted snapshot, so pending notification flags set by
// the other party come back into view, and adopts the profile matching the
// email. The callbacks fire after the state swap has fully completed.
func (ss *SessionService) Login(ctx context.Context, email, password string, onSuccess func(), onError func(message string)) {
	ss.mu.Lock()
	full := ss.Store.Load(ctx)
	next := ss.Engine.Apply(full, Action{Type: ActionLogin, Email: email, Password: password})
	ss.state = next
	ss.Store.Save(ctx, next)
	signedIn := next.Session != nil && next.Session.EmailID == email
	ss.mu.Unlock()

	if signedIn {
		if onSuccess != nil {
			onSuccess()
		}
		return
	}
	if onError != nil {
		onError(ErrUserNotFound)
	}
}

// Logout clears the active session and profile, preserving everything else.
func (ss *SessionService) Logout(ctx context.Context) {
	ss.Dispatch(ctx, Action{Type: ActionLogout})
}

// ExpirePaymentWindows cancels every request whose final-approval payment
// window has elapsed. The engine accepts the cancel idempotently, so sweeping
// the same request twice is harmless.
func (ss *SessionService) ExpirePaymentWindows(ctx context.Context, now time.Time) int {
	state := ss.State()
	cancelled := 0
	for _, r := range state.Requests {
		if r.Status != models.RequestStatusAwaiting || r.PaymentExpiresAt == nil {
			continue
		}
		if now.After(*r.PaymentExpiresAt) {
			ss.Dispatch(ctx, Action{
				Type:      ActionHandleRequest,
				RequestID: r.ID,
				Status:    models.RequestStatusCancelled,
			})
			cancelled++
		}
	}
	return cancelled
}

// StartPaymentWatch sweeps overdue payment windows on a ticker until the
// context is done. The engine stays clock-agnostic: the countdown lives here.
func (ss *SessionService) StartPaymentWatch(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := ss.ExpirePaymentWindows(ctx, now); n > 0 {
					log.Printf("Cancelled %d request(s) with an elapsed payment window", n)
				}
			}
		}
	}()
}
