// Package services – ChatService
//
// This file implements ChatService, which proxies one chat exchange to the
// assistant gateway, grounded in the metrics derived from the user's
// profile stats. The transport contract is deliberately forgiving: soft
// failures (unparseable stats, missing API key, provider outage) become
// friendly replies rather than error statuses, so the chat endpoint always
// "succeeds" from the client's point of view.
//
// Persistence of chat turns is best-effort and at-most-once: a failed
// write is logged and swallowed, never surfaced to the user. The reply
// they see may therefore be missing from history; registration and
// recognition writes are not given this leniency.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/bhuvanachandra14/FitAi/internal/assistant"
	"github.com/bhuvanachandra14/FitAi/internal/domain"
	"github.com/bhuvanachandra14/FitAi/internal/health"
	"github.com/bhuvanachandra14/FitAi/internal/repo"
)

// Degraded-mode replies. Soft failures answer with one of these instead of
// an error status.
const (
	replyBadStats   = "Please update your profile stats so I can help you better!"
	replyGatewayErr = "I'm having trouble connecting to my brain right now. Please check your API key."
	replyNoAPIKey   = "⚠️ **Gemini API Key Missing**\n\n" +
		"To enable the smart AI, please add your `GEMINI_API_KEY` to the `.env` file in the backend folder.\n\n" +
		"For now, I can only calculate that your BMI is **%.1f**."
)

// Prompt is one inbound chat exchange: the message plus the profile stats
// it should be grounded in. FaceID is optional; when zero, the exchange is
// anonymous and nothing is persisted.
type Prompt struct {
	Message string
	Name    string
	Age     int
	Height  string
	Weight  string
	FaceID  uint
}

// ChatService turns a Prompt into an assistant reply and records both
// sides of the exchange.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Gateway is the hosted language model; nil means no API key was
	// configured and every exchange takes the degraded path.
	Gateway assistant.Gateway
}

// NewChatService constructs a ChatService. gw may be nil.
func NewChatService(db *gorm.DB, gw assistant.Gateway) *ChatService {
	return &ChatService{DB: db, Gateway: gw}
}

// Respond produces the reply for one exchange. The error return is
// reserved for a blank message (structurally invalid input); every other
// failure mode degrades into a friendly reply string.
func (s *ChatService) Respond(ctx context.Context, p Prompt) (string, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Respond",
		trace.WithAttributes(attribute.Int("profile.id", int(p.FaceID))),
	)
	defer span.End()

	msg := strings.TrimSpace(p.Message)
	if msg == "" {
		return "", ErrEmptyMessage
	}

	// The user's side of the exchange is recorded up front so it survives
	// even when the assistant cannot answer.
	s.saveTurn(ctx, p.FaceID, domain.RoleUser, msg)

	m, err := health.Derive(p.Height, p.Weight, p.Age)
	if err != nil {
		return replyBadStats, nil
	}

	if s.Gateway == nil {
		return fmt.Sprintf(replyNoAPIKey, m.BMI), nil
	}

	sysCtx := assistant.SystemContext(assistant.UserContext{
		Name:    p.Name,
		Age:     p.Age,
		Height:  p.Height,
		Weight:  p.Weight,
		Metrics: m,
	})

	reply, err := s.Gateway.Reply(ctx, sysCtx, msg)
	if err != nil {
		log.Warn().Err(err).Uint("profile_id", p.FaceID).Msg("assistant gateway failed")
		return replyGatewayErr, nil
	}

	s.saveTurn(ctx, p.FaceID, domain.RoleAssistant, reply)
	return reply, nil
}

// History returns a profile's full conversation, oldest first. A profile
// with no turns yields an empty (non-nil) slice.
func (s *ChatService) History(ctx context.Context, profileID uint) ([]domain.ChatTurn, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(attribute.Int("profile.id", int(profileID))),
	)
	defer span.End()

	turns, err := repo.ListTurns(ctx, s.DB, profileID, 0)
	if err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []domain.ChatTurn{}
	}
	return turns, nil
}

// saveTurn persists one side of an exchange, best-effort. Anonymous
// exchanges (no face id) are skipped; write failures are logged and
// swallowed.
func (s *ChatService) saveTurn(ctx context.Context, profileID uint, role, content string) {
	if profileID == 0 {
		return
	}
	if _, err := repo.CreateTurn(ctx, s.DB, profileID, role, content); err != nil {
		log.Warn().Err(err).
			Uint("profile_id", profileID).
			Str("role", role).
			Msg("failed to save chat turn")
	}
}
