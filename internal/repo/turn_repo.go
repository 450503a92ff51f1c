// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatTurn
// model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bhuvanachandra14/FitAi/internal/domain"
)

// CreateTurn inserts a new chat turn row for the given profile.
func CreateTurn(ctx context.Context, db *gorm.DB, profileID uint, role, content string) (*domain.ChatTurn, error) {
	t := &domain.ChatTurn{
		ProfileID: profileID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListTurns returns a profile's turns ordered deterministically
// (CreatedAt ASC, ID ASC). A limit <= 0 returns the full conversation.
func ListTurns(ctx context.Context, db *gorm.DB, profileID uint, limit int) ([]domain.ChatTurn, error) {
	var out []domain.ChatTurn
	q := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountTurns uses a raw COUNT so a missing table surfaces as an error.
func CountTurns(ctx context.Context, db *gorm.DB, profileID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM messages WHERE profile_id = ?", profileID).Scan(&total).Error
	return total, err
}
