// Package assistant wraps the hosted language model used for the dietician
// chat. The Gateway interface keeps the services layer independent of the
// concrete provider; the production implementation talks to Gemini through
// the official Go SDK.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/bhuvanachandra14/FitAi/internal/health"
)

// ErrUnavailable is returned when the gateway cannot produce a reply
// (missing API key, network or auth failure, empty model response).
// Callers degrade to a friendly canned reply instead of failing the request.
var ErrUnavailable = errors.New("assistant unavailable")

// Gateway produces a natural-language reply to a user message, grounded in
// the system context string built from the user's profile and metrics.
// Implementations must be safe for concurrent use.
type Gateway interface {
	Reply(ctx context.Context, systemContext, message string) (string, error)
}

// UserContext carries everything the prompt needs about the person asking.
// Height and Weight are the raw profile strings; Metrics are the values
// derived from them for this request.
type UserContext struct {
	Name    string
	Age     int
	Height  string
	Weight  string
	Metrics health.Metrics
}

// SystemContext renders the system prompt that primes the model as a
// dietician and fitness coach for this specific user.
func SystemContext(u UserContext) string {
	var b strings.Builder
	b.WriteString("You are an expert AI Dietician and Fitness Coach.\n")
	b.WriteString("User Context:\n")
	fmt.Fprintf(&b, "- Name: %s\n", u.Name)
	fmt.Fprintf(&b, "- Age: %d\n", u.Age)
	fmt.Fprintf(&b, "- Height: %s (~%.1f cm)\n", u.Height, u.Metrics.HeightCM)
	fmt.Fprintf(&b, "- Weight: %s (~%.1f kg)\n", u.Weight, u.Metrics.WeightKG)
	fmt.Fprintf(&b, "- BMI: %.1f (%s)\n", u.Metrics.BMI, u.Metrics.BMIStatus)
	fmt.Fprintf(&b, "- Estimated TDEE: %d kcal/day\n\n", u.Metrics.TDEE)
	b.WriteString("Your goal is to help them achieve their fitness goals (loss, gain, maintenance) based on their stats.\n")
	b.WriteString("- Be encouraging, professional, and specific.\n")
	b.WriteString("- If asked for a plan, provide a detailed day plan with calories.\n")
	b.WriteString("- If asked a question, answer efficiently based on their stats.\n")
	b.WriteString("- Keep responses concise but formatted with Markdown (bolding, lists).")
	return b.String()
}

// Gemini is a Gateway backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini dials the Gemini API with the given key. Model names look like
// "gemini-flash-latest". The returned client should be Closed on shutdown.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("empty API key: %w", ErrUnavailable)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Reply starts a chat primed with the system context and a canned model
// acknowledgment, then sends the user's message. Provider failures and
// empty candidates surface as ErrUnavailable.
func (g *Gemini) Reply(ctx context.Context, systemContext, message string) (string, error) {
	model := g.client.GenerativeModel(g.model)

	chat := model.StartChat()
	chat.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(systemContext)}},
		{Role: "model", Parts: []genai.Part{genai.Text(
			"Understood. I am ready to act as your personal AI Dietician. How can I help you today?",
		)}},
	}

	resp, err := chat.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini: %v: %w", err, ErrUnavailable)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates: %w", ErrUnavailable)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text parts: %w", ErrUnavailable)
	}
	return b.String(), nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error { return g.client.Close() }
