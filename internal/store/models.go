// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package store

import (
	"github.com/google/uuid"
	"time"
)

// CheckModel is the audit row written for every analysis.
type CheckModel struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	PasswordHash string     `gorm:"not null"`
	Score        int        `gorm:"not null"`
	Strength     string     `gorm:"size:16;not null"`
	Entropy      float64    `gorm:"not null"`
	IsBreached   bool       `gorm:"not null;index"`
	BreachCount  int        `gorm:"not null"`
	IP           string     `gorm:"size:64"`
	UserAgent    string     `gorm:"size:512"`
	CreatedAt    time.Time  `gorm:"index"`
}

func (CheckModel) TableName() string {
	return "password_checks"
}

// HistoryModel is a user's saved analysis.
type HistoryModel struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PasswordHash string    `gorm:"not null"`
	Score        int       `gorm:"not null"`
	Strength     string    `gorm:"size:16;not null"`
	Entropy      float64   `gorm:"not null"`
	IsBreached   bool      `gorm:"not null"`
	BreachCount  int       `gorm:"not null"`
	CreatedAt    time.Time
}

func (HistoryModel) TableName() string {
	return "password_history"
}
