// Face HTTP handlers.
//
// This file exposes the face registration and recognition endpoints:
//   - POST /register   (multipart form: name, age, height, weight, file)
//   - POST /recognize  (multipart form: file)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Both endpoints
// reject a faceless image with 400; only registration additionally rejects
// a face that is already registered.
package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bhuvanachandra14/FitAi/internal/domain"
	"github.com/bhuvanachandra14/FitAi/internal/services"
	"github.com/bhuvanachandra14/FitAi/internal/utils"
)

// ProfileService defines face registration/recognition operations consumed
// by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ProfileService interface {
	// Register stores a new profile unless the face is already known.
	Register(ctx context.Context, name string, age int, height, weight string, image []byte) (*domain.Profile, error)
	// Recognize returns the matching profile, or nil when no known face is
	// close enough.
	Recognize(ctx context.Context, image []byte) (*domain.Profile, error)
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Message string `json:"message" example:"Face registered for Alice"`
	ID      uint   `json:"id"      example:"1"`
}

// RecognizeResponse is the tagged result of a recognition attempt. The
// matched variant carries the full profile; the unmatched variant only
// carries Name "Unknown" and Match false.
type RecognizeResponse struct {
	ID     uint   `json:"id,omitempty"`
	Name   string `json:"name"`
	Age    int    `json:"age,omitempty"`
	Height string `json:"height,omitempty"`
	Weight string `json:"weight,omitempty"`
	Match  bool   `json:"match"`
}

// matchedResponse builds the RecognizeResponse variant for a known face.
func matchedResponse(p *domain.Profile) RecognizeResponse {
	return RecognizeResponse{
		ID:     p.ID,
		Name:   p.Name,
		Age:    p.Age,
		Height: p.Height,
		Weight: p.Weight,
		Match:  true,
	}
}

// unmatchedResponse is the RecognizeResponse variant for an unknown face.
func unmatchedResponse() RecognizeResponse {
	return RecognizeResponse{Name: "Unknown", Match: false}
}

// readImageFile opens the uploaded "file" form field and returns its bytes.
func readImageFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// RegisterFace godoc
// @ID          registerFace
// @Summary     Register a face profile
// @Description Encodes the uploaded photo and stores a new profile unless the face already exists.
// @Tags        Faces
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       name    formData  string  true  "Person name"
// @Param       age     formData  int     true  "Age in years"
// @Param       height  formData  string  true  "Height, unit-bearing"  example(180cm)
// @Param       weight  formData  string  true  "Weight, unit-bearing"  example(75kg)
// @Param       file    formData  file    true  "Face photo"
//
// @Success     200  {object}  handlers.RegisterResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No face detected / already registered / bad form"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /register [post]
func (h *Handlers) RegisterFace(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	age := utils.AtoiDefault(c.PostForm("age"), -1)
	height := strings.TrimSpace(c.PostForm("height"))
	weight := strings.TrimSpace(c.PostForm("weight"))
	if name == "" || age < 0 || height == "" || weight == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, age, height and weight form fields are required")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "image file is required")
		return
	}
	image, err := readImageFile(fh)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read image file")
		return
	}

	p, err := h.profileSvc.Register(c.Request.Context(), name, age, height, weight, image)
	switch {
	case errors.Is(err, services.ErrNoFaceDetected):
		fail(c, http.StatusBadRequest, ErrCodeNoFaceDetected, "No face found in the image")
		return
	case errors.Is(err, services.ErrDuplicateProfile):
		fail(c, http.StatusBadRequest, ErrCodeDuplicateProfile, "User already exists! Please login instead.")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeRegisterFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, RegisterResponse{
		Message: "Face registered for " + p.Name,
		ID:      p.ID,
	})
}

// RecognizeFace godoc
// @ID          recognizeFace
// @Summary     Recognize a face
// @Description Encodes the uploaded photo and returns the closest registered profile, if any is near enough.
// @Tags        Faces
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       file  formData  file  true  "Face photo"
//
// @Success     200  {object}  handlers.RecognizeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No face detected / bad form"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recognize [post]
func (h *Handlers) RecognizeFace(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "image file is required")
		return
	}
	image, err := readImageFile(fh)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read image file")
		return
	}

	p, err := h.profileSvc.Recognize(c.Request.Context(), image)
	switch {
	case errors.Is(err, services.ErrNoFaceDetected):
		fail(c, http.StatusBadRequest, ErrCodeNoFaceDetected, "No face found in the image")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeRecognizeFailed, err.Error())
		return
	}

	if p == nil {
		ok(c, http.StatusOK, unmatchedResponse())
		return
	}
	ok(c, http.StatusOK, matchedResponse(p))
}
