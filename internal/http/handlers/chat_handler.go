// Chat HTTP handlers.
//
// This file exposes the dietician chat endpoints:
//   - POST /chat                        (one exchange)
//   - GET  /chat/history/{face_id}      (full conversation, oldest first)
//
// Note the asymmetric error contract on POST /chat: only a structurally
// invalid body earns a 400. Soft failures (unparseable stats, missing API
// key, assistant outage) still return 200 with a friendly reply; the
// services layer owns that decision.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bhuvanachandra14/FitAi/internal/domain"
	"github.com/bhuvanachandra14/FitAi/internal/services"
)

// ChatService defines the chat operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Respond produces the assistant reply for one exchange.
	Respond(ctx context.Context, p services.Prompt) (string, error)
	// History returns a profile's turns ordered by timestamp ascending.
	History(ctx context.Context, profileID uint) ([]domain.ChatTurn, error)
}

// Handlers groups the HTTP endpoints for faces and chat. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	profileSvc ProfileService
	chatSvc    ChatService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(profileSvc ProfileService, chatSvc ChatService) *Handlers {
	return &Handlers{profileSvc: profileSvc, chatSvc: chatSvc}
}

// ChatRequest is the JSON payload for one chat exchange. The stats travel
// with every request (the frontend keeps them client-side after
// recognition); FaceID links the exchange to a stored profile and is
// optional.
type ChatRequest struct {
	Message string `json:"message" binding:"required" example:"Plan my cutting diet"`
	Age     int    `json:"age"     example:"30"`
	Height  string `json:"height"  example:"180cm"`
	Weight  string `json:"weight"  example:"75kg"`
	Name    string `json:"name"    example:"Alice"`
	FaceID  uint   `json:"face_id,omitempty" example:"1"`
}

// ChatResponse wraps the assistant's (or degraded-mode) reply text.
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat godoc
// @ID          chat
// @Summary     Ask the AI dietician
// @Description Sends one message grounded in the user's body stats and returns the assistant reply. Soft failures degrade to a friendly reply with status 200.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ChatRequest  true  "Chat payload"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid JSON body"
// @Router      /chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	reply, err := h.chatSvc.Respond(c.Request.Context(), services.Prompt{
		Message: req.Message,
		Name:    req.Name,
		Age:     req.Age,
		Height:  req.Height,
		Weight:  req.Weight,
		FaceID:  req.FaceID,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be blank")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, ChatResponse{Response: reply})
}

// ChatHistory godoc
// @ID          chatHistory
// @Summary     Get chat history
// @Description Returns every stored turn for the profile, ordered by timestamp ascending. Unknown profiles yield an empty list.
// @Tags        Chat
// @Produce     json
//
// @Param       face_id  path  int  true  "Profile ID"  example(1)
//
// @Success     200  {array}   domain.ChatTurn
// @Failure     400  {object}  handlers.ErrorResponse  "face_id not an integer"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/history/{face_id} [get]
func (h *Handlers) ChatHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("face_id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "face_id must be a positive integer")
		return
	}

	turns, err := h.chatSvc.History(c.Request.Context(), uint(id))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeHistoryFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, turns)
}
