package main

import (
	"context"
	"log"

	"chispa_app/config"
	"chispa_app/models"
	"chispa_app/services"
)

// Both parties live in one local store, so a single process can play out the
// whole exchange: this entrypoint walks a full request/accept/approve/chat
// cycle between two demo profiles and prints the route the notification
// router derives after each step.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var api services.DynamoAPI
	if cfg.UseMemoryStore {
		log.Println("Using in-memory store")
		api = services.NewLocalDynamoAPI()
	} else {
		log.Println("Initializing DynamoDB client...")
		api = services.InitializeDynamoDBClient(cfg.AWSRegion)
	}

	ctx := context.Background()
	store := services.NewDynamoSnapshotStore(&services.DynamoService{Client: api}, cfg.StateTable, cfg.StateNamespace)
	session := services.NewSessionService(ctx, store)
	notifications := &services.NotificationService{Session: session}
	session.StartPaymentWatch(ctx, cfg.PaymentSweepInterval)

	login := func(email string) {
		session.Login(ctx, email, "",
			func() { log.Printf("Signed in as %s", email) },
			func(message string) { log.Fatalf("Login failed: %s", message) },
		)
	}
	routeCheck := func(path string) {
		if redirect, ok := notifications.NextRedirect(ctx, path); ok {
			log.Printf("Redirect -> %s", redirect.Path)
		}
	}

	// Alejandro sends Brenda a request.
	login("alejandro@email.com")
	state := session.State()
	brenda, _ := state.FindProfileByEmail("brenda@email.com")
	state = session.Dispatch(ctx, services.Action{Type: services.ActionSendRequest, To: brenda})
	requestID := state.Requests[len(state.Requests)-1].ID
	log.Printf("Request %s sent, %d token(s) left", requestID, state.Tokens)

	// Brenda sees it and accepts (pays the first step).
	login("brenda@email.com")
	routeCheck("/home")
	session.Dispatch(ctx, services.Action{
		Type:      services.ActionHandleRequest,
		RequestID: requestID,
		Status:    models.RequestStatusAwaiting,
	})

	// Alejandro pays the final approval, the match exists.
	login("alejandro@email.com")
	routeCheck("/home")
	state = session.Dispatch(ctx, services.Action{
		Type:      services.ActionHandleRequest,
		RequestID: requestID,
		Status:    models.RequestStatusAccepted,
	})
	routeCheck("/home")
	matchID := state.Matches[len(state.Matches)-1].ID

	// A first message, read on the other side.
	session.Dispatch(ctx, services.Action{
		Type:    services.ActionAddMessage,
		MatchID: matchID,
		Message: models.Message{SenderID: state.Profile.ID, Text: "hola"},
	})
	login("brenda@email.com")
	routeCheck("/home")
	session.Dispatch(ctx, services.Action{Type: services.ActionMarkChatRead, MatchID: matchID})

	log.Printf("Done: %d request(s), %d match(es)", len(session.State().Requests), len(session.State().Matches))
}
