package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bhuvanachandra14/FitAi/internal/domain"
	"github.com/bhuvanachandra14/FitAi/internal/facematch"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.Profile{}, &domain.ChatTurn{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeExtractor returns canned embeddings without any HTTP round trip.
type fakeExtractor struct {
	embs []facematch.Embedding
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte) ([]facematch.Embedding, error) {
	return f.embs, f.err
}

func embWithLead(v float64) facematch.Embedding {
	e := make(facematch.Embedding, facematch.EmbeddingDim)
	e[0] = v
	return e
}

func TestRegister_NoFaceDetected(t *testing.T) {
	svc := NewProfileService(newServiceDB(t), &fakeExtractor{embs: nil})
	_, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("img"))
	if !errors.Is(err, ErrNoFaceDetected) {
		t.Fatalf("error = %v, want ErrNoFaceDetected", err)
	}
}

func TestRegister_ExtractorFailurePropagates(t *testing.T) {
	boom := errors.New("encoder down")
	svc := NewProfileService(newServiceDB(t), &fakeExtractor{err: boom})
	_, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("img"))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
}

func TestRegister_FirstProfileSucceeds(t *testing.T) {
	db := newServiceDB(t)
	svc := NewProfileService(db, &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}})

	p, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("img"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.ID == 0 || p.Name != "Ana" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if len(p.Encoding) != 8*facematch.EmbeddingDim {
		t.Fatalf("stored blob has %d bytes, want %d", len(p.Encoding), 8*facematch.EmbeddingDim)
	}
}

func TestRegister_DuplicateFaceRejected(t *testing.T) {
	db := newServiceDB(t)
	ex := &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}}
	svc := NewProfileService(db, ex)

	if _, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("img")); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// Same embedding again, different name: still the same face.
	_, err := svc.Register(context.Background(), "Impostor", 40, "170cm", "80kg", []byte("img2"))
	if !errors.Is(err, ErrDuplicateProfile) {
		t.Fatalf("error = %v, want ErrDuplicateProfile", err)
	}
}

func TestRegister_DistinctFacesBothStored(t *testing.T) {
	db := newServiceDB(t)
	ex := &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}}
	svc := NewProfileService(db, ex)

	if _, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("a")); err != nil {
		t.Fatalf("Register Ana: %v", err)
	}

	ex.embs = []facematch.Embedding{embWithLead(5)} // far beyond the threshold
	if _, err := svc.Register(context.Background(), "Ben", 25, "175cm", "70kg", []byte("b")); err != nil {
		t.Fatalf("Register Ben: %v", err)
	}
}

func TestRecognize_MatchReturnsNearestProfile(t *testing.T) {
	db := newServiceDB(t)
	ex := &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}}
	svc := NewProfileService(db, ex)

	if _, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("a")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ex.embs = []facematch.Embedding{embWithLead(5)}
	if _, err := svc.Register(context.Background(), "Ben", 25, "175cm", "70kg", []byte("b")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A probe slightly off Ben's embedding but well within the threshold.
	ex.embs = []facematch.Embedding{embWithLead(5.1)}
	p, err := svc.Recognize(context.Background(), []byte("probe"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if p == nil || p.Name != "Ben" {
		t.Fatalf("recognized %+v, want Ben", p)
	}
}

func TestRecognize_UnknownFaceIsNotAnError(t *testing.T) {
	db := newServiceDB(t)
	ex := &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}}
	svc := NewProfileService(db, ex)

	if _, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("a")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ex.embs = []facematch.Embedding{embWithLead(9)}
	p, err := svc.Recognize(context.Background(), []byte("probe"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if p != nil {
		t.Fatalf("unknown face should return nil profile, got %+v", p)
	}
}

func TestRecognize_EmptyDatabase(t *testing.T) {
	svc := NewProfileService(newServiceDB(t), &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}})
	p, err := svc.Recognize(context.Background(), []byte("probe"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if p != nil {
		t.Fatalf("empty db should recognize nobody, got %+v", p)
	}
}

func TestRecognize_MultiFacePhotoUsesFirst(t *testing.T) {
	db := newServiceDB(t)
	ex := &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}}
	svc := NewProfileService(db, ex)

	if _, err := svc.Register(context.Background(), "Ana", 30, "180cm", "75kg", []byte("a")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Two faces in the probe photo: the first one is Ana's.
	ex.embs = []facematch.Embedding{embWithLead(1), embWithLead(9)}
	p, err := svc.Recognize(context.Background(), []byte("probe"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if p == nil || p.Name != "Ana" {
		t.Fatalf("recognized %+v, want Ana", p)
	}
}

func TestRecognize_CorruptStoredEmbedding(t *testing.T) {
	db := newServiceDB(t)
	ex := &fakeExtractor{embs: []facematch.Embedding{embWithLead(1)}}
	svc := NewProfileService(db, ex)

	// Insert a row whose blob is not a whole number of float64s.
	bad := &domain.Profile{Name: "Broken", Age: 1, Height: "1cm", Weight: "1kg", Encoding: []byte{1, 2, 3}, CreatedAt: time.Now().UTC()}
	if err := db.Create(bad).Error; err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	if _, err := svc.Recognize(context.Background(), []byte("probe")); !errors.Is(err, facematch.ErrDimensionMismatch) {
		t.Fatalf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestGet_MapsNotFound(t *testing.T) {
	svc := NewProfileService(newServiceDB(t), &fakeExtractor{})
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("error = %v, want ErrProfileNotFound", err)
	}
}
