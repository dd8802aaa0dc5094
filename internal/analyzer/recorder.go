// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"context"
	"github.com/alexedwards/argon2id"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/google/uuid"
)

// Record is what gets persisted about an analysis. It never holds the password itself.
type Record struct {
	PasswordHash string
	Score        int
	Strength     strength.Tier
	Entropy      float64
	IsBreached   bool
	BreachCount  int
}

// CheckRecord is the audit entry written for every analysis.
type CheckRecord struct {
	Record
	UserID    *uuid.UUID
	IP        string
	UserAgent string
}

// HistoryRecord is written for authenticated callers that asked for it.
type HistoryRecord struct {
	Record
	UserID uuid.UUID
}

// Recorder persists analyses. The service only writes, it never reads back.
type Recorder interface {
	RecordCheck(ctx context.Context, rec CheckRecord) error
	AppendHistory(ctx context.Context, rec HistoryRecord) error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordCheck(context.Context, CheckRecord) error { return nil }

func (NopRecorder) AppendHistory(context.Context, HistoryRecord) error { return nil }

// hashParams are lighter than the argon2id defaults, the hash is computed on every request.
var hashParams = &argon2id.Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword returns a salted argon2id PHC string.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, hashParams)
}
