package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bhuvanachandra14/FitAi/internal/domain"
	"github.com/bhuvanachandra14/FitAi/internal/repo"
)

// fakeGateway records what it was asked and answers with a canned reply.
type fakeGateway struct {
	reply  string
	err    error
	gotSys string
	gotMsg string
	calls  int
}

func (f *fakeGateway) Reply(ctx context.Context, systemContext, message string) (string, error) {
	f.calls++
	f.gotSys = systemContext
	f.gotMsg = message
	return f.reply, f.err
}

func statsPrompt(msg string, faceID uint) Prompt {
	return Prompt{
		Message: msg,
		Name:    "Ana",
		Age:     30,
		Height:  "180cm",
		Weight:  "75kg",
		FaceID:  faceID,
	}
}

func TestRespond_EmptyMessage(t *testing.T) {
	svc := NewChatService(newServiceDB(t), &fakeGateway{reply: "hi"})
	if _, err := svc.Respond(context.Background(), statsPrompt("   ", 0)); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("error = %v, want ErrEmptyMessage", err)
	}
}

func TestRespond_HappyPath(t *testing.T) {
	gw := &fakeGateway{reply: "Eat more protein."}
	svc := NewChatService(newServiceDB(t), gw)

	got, err := svc.Respond(context.Background(), statsPrompt("what should I eat?", 0))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != "Eat more protein." {
		t.Fatalf("reply = %q", got)
	}
	if gw.gotMsg != "what should I eat?" {
		t.Fatalf("gateway got message %q", gw.gotMsg)
	}
	// The grounding context carries the derived metrics, not just raw stats.
	for _, want := range []string{"Ana", "BMI", "TDEE"} {
		if !strings.Contains(gw.gotSys, want) {
			t.Fatalf("system context missing %q:\n%s", want, gw.gotSys)
		}
	}
}

func TestRespond_UnparseableStatsDegrade(t *testing.T) {
	gw := &fakeGateway{reply: "should not be reached"}
	svc := NewChatService(newServiceDB(t), gw)

	p := statsPrompt("help", 0)
	p.Height = "tall"
	got, err := svc.Respond(context.Background(), p)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != replyBadStats {
		t.Fatalf("reply = %q, want %q", got, replyBadStats)
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called when stats are unparseable")
	}
}

func TestRespond_NilGatewayDegrades(t *testing.T) {
	svc := NewChatService(newServiceDB(t), nil)

	got, err := svc.Respond(context.Background(), statsPrompt("help", 0))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(got, "GEMINI_API_KEY") || !strings.Contains(got, "23.1") {
		t.Fatalf("degraded reply should name the key and the BMI: %q", got)
	}
}

func TestRespond_GatewayErrorDegrades(t *testing.T) {
	gw := &fakeGateway{err: errors.New("quota exceeded")}
	svc := NewChatService(newServiceDB(t), gw)

	got, err := svc.Respond(context.Background(), statsPrompt("help", 0))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != replyGatewayErr {
		t.Fatalf("reply = %q, want %q", got, replyGatewayErr)
	}
}

func TestRespond_PersistsBothTurns(t *testing.T) {
	db := newServiceDB(t)
	p, err := repo.CreateProfile(context.Background(), db, "Ana", 30, "180cm", "75kg", []byte{1})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	svc := NewChatService(db, &fakeGateway{reply: "Drink water."})
	if _, err := svc.Respond(context.Background(), statsPrompt("tips?", p.ID)); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	turns, err := svc.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2: %+v", len(turns), turns)
	}
	if turns[0].Role != domain.RoleUser || turns[0].Content != "tips?" {
		t.Fatalf("first turn = %+v", turns[0])
	}
	if turns[1].Role != domain.RoleAssistant || turns[1].Content != "Drink water." {
		t.Fatalf("second turn = %+v", turns[1])
	}
}

func TestRespond_UserTurnSurvivesGatewayFailure(t *testing.T) {
	db := newServiceDB(t)
	p, err := repo.CreateProfile(context.Background(), db, "Ana", 30, "180cm", "75kg", []byte{1})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	svc := NewChatService(db, &fakeGateway{err: errors.New("down")})
	if _, err := svc.Respond(context.Background(), statsPrompt("tips?", p.ID)); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	turns, err := svc.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 1 || turns[0].Role != domain.RoleUser {
		t.Fatalf("expected only the user's turn, got %+v", turns)
	}
}

func TestRespond_AnonymousExchangeNotPersisted(t *testing.T) {
	db := newServiceDB(t)
	svc := NewChatService(db, &fakeGateway{reply: "hi"})

	if _, err := svc.Respond(context.Background(), statsPrompt("hello", 0)); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	n, err := repo.CountTurns(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("CountTurns: %v", err)
	}
	if n != 0 {
		t.Fatalf("anonymous exchange wrote %d turns", n)
	}
}

func TestHistory_EmptyIsNonNil(t *testing.T) {
	svc := NewChatService(newServiceDB(t), nil)
	turns, err := svc.History(context.Background(), 7)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if turns == nil {
		t.Fatal("empty history must be a non-nil slice")
	}
	if len(turns) != 0 {
		t.Fatalf("got %d turns, want 0", len(turns))
	}
}
