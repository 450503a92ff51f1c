// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Profile
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Whether a candidate embedding matches
// a stored one is decided in the services layer (see facematch), never here.
//
// Error semantics:
//   - When a profile is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bhuvanachandra14/FitAi/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateProfile inserts a new Profile row with the given stats and raw
// embedding bytes. The integer ID is assigned by SQLite and populated on
// the returned struct.
func CreateProfile(ctx context.Context, db *gorm.DB, name string, age int, height, weight string, encoding []byte) (*domain.Profile, error) {
	p := &domain.Profile{
		Name:      name,
		Age:       age,
		Height:    height,
		Weight:    weight,
		Encoding:  encoding,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProfiles returns every registered profile ordered by ID ascending.
// Recognition walks the full set; registration volume is small enough that
// no pagination is needed on this path.
func ListProfiles(ctx context.Context, db *gorm.DB) ([]domain.Profile, error) {
	var out []domain.Profile
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// GetProfile fetches a single profile by ID, or ErrNotFound if missing.
func GetProfile(ctx context.Context, db *gorm.DB, id uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountProfiles returns the total number of registered profiles.
func CountProfiles(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Profile{}).Count(&total).Error
	return total, err
}
