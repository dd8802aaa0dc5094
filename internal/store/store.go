// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"strings"
	"time"
)

// MaxHistory is how many analyses are kept per user.
const MaxHistory = 10

// HistoryEntry is a saved analysis as shown to its owner.
type HistoryEntry struct {
	Score       int           `json:"score"`
	Strength    strength.Tier `json:"strength"`
	Entropy     float64       `json:"entropy"`
	IsBreached  bool          `json:"isBreached"`
	BreachCount int           `json:"breachCount"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Store persists checks and history with GORM. It implements analyzer.Recorder.
type Store struct {
	db *gorm.DB
}

// Open connects to the database and migrates the schema. postgres:// and postgresql:// DSNs
// use PostgreSQL, anything else is a SQLite file (or :memory:).
func Open(dsn string) (*Store, error) {
	isPostgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")

	var dialector gorm.Dialector
	if isPostgres {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if !isPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		// every SQLite connection to :memory: is a different database
		sqlDB.SetMaxOpenConns(1)
	}

	s := New(db)
	if err = s.Migrate(); err != nil {
		return nil, err
	}

	log.Info().Msgf("database ready (%s)", db.Dialector.Name())
	return s, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&CheckModel{}, &HistoryModel{}); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}

	return sqlDB.Close()
}

func (s *Store) RecordCheck(ctx context.Context, rec analyzer.CheckRecord) error {
	m := &CheckModel{
		UserID:       rec.UserID,
		PasswordHash: rec.PasswordHash,
		Score:        rec.Score,
		Strength:     rec.Strength.String(),
		Entropy:      rec.Entropy,
		IsBreached:   rec.IsBreached,
		BreachCount:  rec.BreachCount,
		IP:           rec.IP,
		UserAgent:    truncate(rec.UserAgent, 512),
	}

	return s.db.WithContext(ctx).Create(m).Error
}

// AppendHistory saves the entry and drops everything older than the last MaxHistory entries
// of the user, in one transaction.
func (s *Store) AppendHistory(ctx context.Context, rec analyzer.HistoryRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := &HistoryModel{
			UserID:       rec.UserID,
			PasswordHash: rec.PasswordHash,
			Score:        rec.Score,
			Strength:     rec.Strength.String(),
			Entropy:      rec.Entropy,
			IsBreached:   rec.IsBreached,
			BreachCount:  rec.BreachCount,
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		var ids []uint
		if err := tx.Model(&HistoryModel{}).
			Where("user_id = ?", rec.UserID).
			Order("id DESC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		if len(ids) <= MaxHistory {
			return nil
		}
		return tx.Where("id IN ?", ids[MaxHistory:]).Delete(&HistoryModel{}).Error
	})
}

// History returns the user's saved analyses, newest first.
func (s *Store) History(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	var rows []HistoryModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(MaxHistory).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, r := range rows {
		tier, err := strength.ParseTier(r.Strength)
		if err != nil {
			return nil, err
		}

		entries = append(entries, HistoryEntry{
			Score:       r.Score,
			Strength:    tier,
			Entropy:     r.Entropy,
			IsBreached:  r.IsBreached,
			BreachCount: r.BreachCount,
			CreatedAt:   r.CreatedAt,
		})
	}

	return entries, nil
}

// CountChecks is the amount of recorded analyses.
func (s *Store) CountChecks(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&CheckModel{}).Count(&n).Error
	return n, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
