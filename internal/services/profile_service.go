// Package services – ProfileService
//
// This file implements ProfileService, which owns face registration and
// recognition. It delegates image decoding to the external face encoder,
// loads the known set of (profile, embedding) pairs from the store as one
// aligned collection, and applies the nearest-neighbor matcher to decide
// identity. The same matcher backs both paths: recognition looks for the
// closest known face, and registration rejects a candidate that already
// matches someone (duplicate-person policy).
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/bhuvanachandra14/FitAi/internal/domain"
	"github.com/bhuvanachandra14/FitAi/internal/encoder"
	"github.com/bhuvanachandra14/FitAi/internal/facematch"
	"github.com/bhuvanachandra14/FitAi/internal/repo"
)

// ProfileService coordinates face registration and recognition.
type ProfileService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Extractor produces embeddings from image bytes.
	Extractor encoder.Extractor
	// Threshold is the maximum embedding distance still considered the
	// same person; <= 0 falls back to facematch.DefaultThreshold.
	Threshold float64
}

// NewProfileService constructs a ProfileService with the default match threshold.
func NewProfileService(db *gorm.DB, ex encoder.Extractor) *ProfileService {
	return &ProfileService{DB: db, Extractor: ex, Threshold: facematch.DefaultThreshold}
}

// Register encodes the submitted photo, rejects it when it matches an
// already-registered face, and otherwise persists a new profile.
//
// Failure modes: ErrNoFaceDetected when the encoder finds no face,
// ErrDuplicateProfile when the embedding matches an existing profile.
// Unlike chat-turn writes, a failed profile write fails the request.
func (s *ProfileService) Register(ctx context.Context, name string, age int, height, weight string, image []byte) (*domain.Profile, error) {
	tr := otel.Tracer("services/ProfileService")
	ctx, span := tr.Start(ctx, "Register",
		trace.WithAttributes(attribute.String("profile.name", name)),
	)
	defer span.End()

	candidate, err := s.firstEmbedding(ctx, image)
	if err != nil {
		return nil, err
	}

	_, known, err := s.knownSet(ctx)
	if err != nil {
		return nil, err
	}

	res, err := facematch.Match(known, candidate, s.Threshold)
	if err != nil {
		return nil, err
	}
	if res.Matched {
		return nil, ErrDuplicateProfile
	}

	return repo.CreateProfile(ctx, s.DB, name, age, height, weight, facematch.Encode(candidate))
}

// Recognize encodes the submitted photo and returns the matching profile,
// or (nil, nil) when no registered face is close enough. The unmatched
// outcome is a valid answer, not an error; only a faceless image is
// rejected (ErrNoFaceDetected).
func (s *ProfileService) Recognize(ctx context.Context, image []byte) (*domain.Profile, error) {
	tr := otel.Tracer("services/ProfileService")
	ctx, span := tr.Start(ctx, "Recognize")
	defer span.End()

	candidate, err := s.firstEmbedding(ctx, image)
	if err != nil {
		return nil, err
	}

	profiles, known, err := s.knownSet(ctx)
	if err != nil {
		return nil, err
	}

	res, err := facematch.Match(known, candidate, s.Threshold)
	if err != nil {
		return nil, err
	}
	if !res.Matched {
		return nil, nil
	}
	return &profiles[res.Index], nil
}

// Get fetches a profile by ID, mapping a missing row to ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, id uint) (*domain.Profile, error) {
	p, err := repo.GetProfile(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// firstEmbedding runs the extractor and applies the single-face policy:
// a photo with several faces uses the first detected one, a photo with
// none is rejected.
func (s *ProfileService) firstEmbedding(ctx context.Context, image []byte) (facematch.Embedding, error) {
	embeddings, err := s.Extractor.Extract(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, ErrNoFaceDetected
	}
	return embeddings[0], nil
}

// knownSet loads every profile together with its decoded embedding, index
// aligned so a match index maps straight back to its profile.
func (s *ProfileService) knownSet(ctx context.Context) ([]domain.Profile, []facematch.Embedding, error) {
	profiles, err := repo.ListProfiles(ctx, s.DB)
	if err != nil {
		return nil, nil, err
	}
	known := make([]facematch.Embedding, len(profiles))
	for i := range profiles {
		e, err := facematch.Decode(profiles[i].Encoding)
		if err != nil {
			// A stored blob that no longer decodes is corruption, not a
			// recognizable face; surface it instead of skipping silently.
			return nil, nil, err
		}
		known[i] = e
	}
	return profiles, known, nil
}
