package services

import (
	"context"
	"strings"

	"chispa_app/models"
)

// Route names the celebratory/alert screen a party must see next.
type Route string

const (
	RouteCelebration  Route = "celebration"   // both parties paid, show the match
	RouteMatchFinal   Route = "match-final"   // receiver accepted, sender must approve
	RouteMatchInitial Route = "match-initial" // a new request arrived
	RouteNewMessage   Route = "new-message"   // unread messages waiting
)

// Redirect is a resolved navigation target.
type Redirect struct {
	Route     Route
	Path      string
	MatchID   string
	RequestID string

	// clear is the action type that consumes the flag which fired.
	clear string
}

// ResolveRedirect inspects the snapshot's transient flags and derives at most
// one redirect for the current navigation cycle. Priority: celebration, then
// final approval, then new request, then unread messages. Stale flags (a flag
// whose request moved on, or that belongs to the other party) resolve to
// nothing and are left for their owner.
func ResolveRedirect(state models.Snapshot, currentPath string) (Redirect, bool) {
	if state.RedirectMatchID != "" {
		if match, ok := state.FindMatch(state.RedirectMatchID); ok {
			return Redirect{
				Route:   RouteCelebration,
				Path:    "/celebration/" + match.ID,
				MatchID: match.ID,
				clear:   ActionClearRedirect,
			}, true
		}
	}

	if state.PendingApprovalID != "" && state.Profile != nil {
		request, ok := state.FindRequest(state.PendingApprovalID)
		if ok && request.From.ID == state.Profile.ID && request.Status == models.RequestStatusAwaiting {
			return Redirect{
				Route:     RouteMatchFinal,
				Path:      "/match-success/" + request.ID,
				RequestID: request.ID,
				clear:     ActionClearPendingApproval,
			}, true
		}
	}

	if state.NewRequestID != "" && state.Profile != nil {
		request, ok := state.FindRequest(state.NewRequestID)
		if ok && request.To.ID == state.Profile.ID && request.Status == models.RequestStatusPending {
			return Redirect{
				Route:     RouteMatchInitial,
				Path:      "/match-success/" + request.ID + "?initial=true",
				RequestID: request.ID,
				clear:     ActionClearNewRequest,
			}, true
		}
	}

	if state.HasUnreadMessages && !onNotificationPage(currentPath) {
		return Redirect{
			Route: RouteNewMessage,
			Path:  "/new-message",
		}, true
	}

	return Redirect{}, false
}

func onNotificationPage(path string) bool {
	return strings.HasPrefix(path, "/chat") ||
		strings.HasPrefix(path, "/new-message") ||
		strings.HasPrefix(path, "/celebration")
}

// NotificationService runs the resolution against the live session once per
// navigation cycle and consumes the flag that fired.
type NotificationService struct {
	Session *SessionService
}

// NextRedirect resolves the next screen for the signed-in party and clears
// the corresponding flag. The unread-messages route carries no clear action:
// the flag stays up until the chat is opened or explicitly dismissed.
func (ns *NotificationService) NextRedirect(ctx context.Context, currentPath string) (Redirect, bool) {
	redirect, ok := ResolveRedirect(ns.Session.State(), currentPath)
	if !ok {
		return Redirect{}, false
	}
	if redirect.clear != "" {
		ns.Session.Dispatch(ctx, Action{Type: redirect.clear})
	}
	return redirect, true
}
