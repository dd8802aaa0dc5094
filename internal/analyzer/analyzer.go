// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package analyzer

import (
	"context"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BreachedMaxScore is the highest score a breached password can get.
const BreachedMaxScore = 30

// BreachChecker is implemented by hibp.Checker.
type BreachChecker interface {
	Check(ctx context.Context, password string) hibp.Entry
}

// Caller is who asked for the analysis. A nil UserID is an anonymous caller.
type Caller struct {
	UserID    *uuid.UUID
	IP        string
	UserAgent string
}

// Service sequences the strength analysis, the breach lookup and the persistence side
// effects for a single request.
type Service struct {
	checker  BreachChecker
	recorder Recorder
	hash     func(string) (string, error)
}

type Option func(*Service)

// WithRecorder enables persistence of checks and history.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithHasher replaces the argon2id hash stored by the recorder.
func WithHasher(fn func(string) (string, error)) Option {
	return func(s *Service) {
		s.hash = fn
	}
}

// New creates the analysis service. A nil checker disables breach lookups (offline mode).
func New(checker BreachChecker, opts ...Option) *Service {
	s := &Service{
		checker:  checker,
		recorder: NopRecorder{},
		hash:     HashPassword,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze always returns a complete result. Breach provider and persistence failures are
// logged by the collaborators and do not change the outcome.
func (s *Service) Analyze(ctx context.Context, req strength.Request, caller Caller) *strength.Result {
	if req.Password == "" {
		return strength.Empty()
	}

	res := strength.Evaluate(req.Password)
	res.Pattern = strength.Patterns(req.Password)

	if s.checker != nil {
		applyBreach(res, s.checker.Check(ctx, req.Password))
	}

	s.persist(ctx, req, caller, res)
	return res
}

// applyBreach caps a breached result. It must run once, after the lookup.
func applyBreach(res *strength.Result, e hibp.Entry) {
	breached := e.Breached && e.Count > 0
	count := 0
	if breached {
		count = e.Count
	}

	res.IsBreached = &breached
	res.BreachCount = &count
	if !breached {
		return
	}

	res.Suggestions = append([]string{BreachWarning(count)}, res.Suggestions...)
	if res.Score > BreachedMaxScore {
		res.Score = BreachedMaxScore
	}
	res.SetTier(strength.BreachedTierFor(res.Score))
}

// BreachWarning is the first suggestion shown for breached passwords.
func BreachWarning(count int) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("This password has appeared in %d data breaches. Do not use it.", count)
}

func (s *Service) persist(ctx context.Context, req strength.Request, caller Caller, res *strength.Result) {
	if _, ok := s.recorder.(NopRecorder); ok {
		return
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("error hashing password for the audit record, skipping persistence")
		return
	}

	breached, count := false, 0
	if res.IsBreached != nil {
		breached, count = *res.IsBreached, *res.BreachCount
	}

	rec := Record{
		PasswordHash: hash,
		Score:        res.Score,
		Strength:     res.Strength,
		Entropy:      res.Entropy,
		IsBreached:   breached,
		BreachCount:  count,
	}

	if err = s.recorder.RecordCheck(ctx, CheckRecord{
		Record:    rec,
		UserID:    caller.UserID,
		IP:        caller.IP,
		UserAgent: caller.UserAgent,
	}); err != nil {
		log.Error().Err(err).Msg("error recording password check")
	}

	if caller.UserID != nil && req.SaveToHistory {
		if err = s.recorder.AppendHistory(ctx, HistoryRecord{Record: rec, UserID: *caller.UserID}); err != nil {
			log.Error().Err(err).Msgf("error saving history for user %s", caller.UserID.String())
		}
	}
}
