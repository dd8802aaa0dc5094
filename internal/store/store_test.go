// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

var _ analyzer.Recorder = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestStore_RecordCheck(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, s.RecordCheck(ctx, analyzer.CheckRecord{
		Record: analyzer.Record{PasswordHash: "$argon2id$x", Score: 30, Strength: strength.Weak, Entropy: 64.4, IsBreached: true, BreachCount: 3},
		IP:     "10.0.0.1",
	}))
	require.NoError(t, s.RecordCheck(ctx, analyzer.CheckRecord{
		Record: analyzer.Record{PasswordHash: "$argon2id$y", Score: 100, Strength: strength.VeryStrong},
		UserID: &user,
	}))

	n, err := s.CountChecks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var rows []CheckModel
	require.NoError(t, s.db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].UserID)
	assert.Equal(t, "Weak", rows[0].Strength)
	assert.Equal(t, 3, rows[0].BreachCount)
	require.NotNil(t, rows[1].UserID)
	assert.Equal(t, user, *rows[1].UserID)
}

func TestStore_History(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	for i := 0; i < 15; i++ {
		require.NoError(t, s.AppendHistory(ctx, analyzer.HistoryRecord{
			Record: analyzer.Record{PasswordHash: "h", Score: i, Strength: strength.TierFor(i)},
			UserID: user,
		}))
	}
	require.NoError(t, s.AppendHistory(ctx, analyzer.HistoryRecord{
		Record: analyzer.Record{PasswordHash: "h", Score: 99, Strength: strength.VeryStrong},
		UserID: other,
	}))

	entries, err := s.History(ctx, user)
	require.NoError(t, err)
	require.Len(t, entries, MaxHistory)
	// newest first
	assert.Equal(t, 14, entries[0].Score)
	assert.Equal(t, 5, entries[MaxHistory-1].Score)

	var stored int64
	require.NoError(t, s.db.Model(&HistoryModel{}).Where("user_id = ?", user).Count(&stored).Error)
	assert.Equal(t, int64(MaxHistory), stored, "older entries should be removed")

	entries, err = s.History(ctx, other)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, strength.VeryStrong, entries[0].Strength)

	entries, err = s.History(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_WithAnalyzer(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := uuid.New()

	svc := analyzer.New(nil, analyzer.WithRecorder(s))
	res := svc.Analyze(ctx, strength.Request{Password: "hello world", SaveToHistory: true}, analyzer.Caller{UserID: &user})
	require.NotNil(t, res)

	entries, err := s.History(ctx, user)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, res.Score, entries[0].Score)

	var row HistoryModel
	require.NoError(t, s.db.First(&row).Error)
	assert.NotContains(t, row.PasswordHash, "hello world")
	assert.Contains(t, row.PasswordHash, "$argon2id$")
}
