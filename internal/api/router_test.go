// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/internal/auth"
	"github.com/alvinbaena/pwd-analyzer/internal/store"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeBreaches struct {
	entries map[string]hibp.Entry
}

func (f *fakeBreaches) Check(_ context.Context, password string) hibp.Entry {
	return f.entries[password]
}

func (f *fakeBreaches) CheckHash(_ context.Context, hash string) (hibp.Entry, error) {
	if len(hash) != 40 {
		return hibp.Entry{}, hibp.ErrInvalidHash
	}
	return hibp.Entry{Breached: true, Count: 7}, nil
}

func (f *fakeBreaches) Stats() hibp.Stats {
	return hibp.Stats{Lookups: 3}
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(context.Context, strength.Request, analyzer.Caller) *strength.Result {
	panic("boom")
}

type env struct {
	router *gin.Engine
	store  *store.Store
	issuer *auth.Issuer
}

func fastHash(password string) (string, error) {
	return "hashed:" + password[:1], nil
}

func newEnv(t *testing.T) *env {
	gin.SetMode(gin.TestMode)

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	issuer, err := auth.NewIssuer(testSecret)
	require.NoError(t, err)

	breaches := &fakeBreaches{entries: map[string]hibp.Entry{
		"Tr0ub4dor&3": {Breached: true, Count: 3861493},
		"aaa":         {Breached: true, Count: 12},
	}}
	svc := analyzer.New(breaches, analyzer.WithRecorder(s), analyzer.WithHasher(fastHash))

	return &env{
		router: NewRouter(Services{
			Analyzer: svc,
			Hashes:   breaches,
			Stats:    breaches,
			History:  s,
			Tokens:   issuer,
		}),
		store:  s,
		issuer: issuer,
	}
}

func (e *env) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCheckPassword(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/v1/check/password", `{"password":"password"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode(t, w)
	assert.EqualValues(t, 0, res["score"])
	assert.Equal(t, "Very Weak", res["strength"])
	assert.Equal(t, "#dc2626", res["color"])
	assert.Contains(t, res["suggestions"], "Avoid common passwords")
	assert.Equal(t, false, res["isBreached"])
	assert.EqualValues(t, 0, res["breachCount"])

	checks := res["checks"].(map[string]any)
	assert.Equal(t, false, checks["notCommon"])
	assert.Equal(t, true, checks["length"])

	crack := res["crackTime"].(map[string]any)
	assert.NotEmpty(t, crack["display"])
}

func TestCheckPassword_Breached(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/v1/check/password", `{"password":"Tr0ub4dor&3"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode(t, w)
	assert.EqualValues(t, 30, res["score"])
	assert.Equal(t, "Weak", res["strength"])
	assert.Equal(t, true, res["isBreached"])
	assert.EqualValues(t, 3861493, res["breachCount"])

	suggestions := res["suggestions"].([]any)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, analyzer.BreachWarning(3861493), suggestions[0])
}

func TestCheckPassword_Empty(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/v1/check/password", `{"password":""}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode(t, w)
	assert.EqualValues(t, 0, res["score"])
	assert.Equal(t, "Very Weak", res["strength"])
	assert.Equal(t, []any{"Enter a password to get started"}, res["suggestions"])
	assert.NotContains(t, res, "isBreached")
	assert.NotContains(t, res, "breachCount")

	n, err := e.store.CountChecks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckPassword_BadRequest(t *testing.T) {
	e := newEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing", `{}`},
		{"number", `{"password":12345}`},
		{"null", `{"password":null}`},
		{"object", `{"password":{"a":1}}`},
		{"malformed", `{"password":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/v1/check/password", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestCheckPassword_Recorded(t *testing.T) {
	e := newEnv(t)
	user := uuid.New()
	token, err := e.issuer.Issue(user, time.Hour)
	require.NoError(t, err)

	// Anonymous callers are audited but have no history.
	w := e.do(t, http.MethodPost, "/v1/check/password", `{"password":"hello world","saveToHistory":true}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Authenticated, not saved.
	w = e.do(t, http.MethodPost, "/v1/check/password", `{"password":"hello world"}`, token)
	require.Equal(t, http.StatusOK, w.Code)

	// Authenticated and saved.
	w = e.do(t, http.MethodPost, "/v1/check/password", `{"password":"aaa","saveToHistory":true}`, token)
	require.Equal(t, http.StatusOK, w.Code)

	n, err := e.store.CountChecks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	w = e.do(t, http.MethodGet, "/v1/history", "", token)
	require.Equal(t, http.StatusOK, w.Code)

	history := decode(t, w)["history"].([]any)
	require.Len(t, history, 1)
	entry := history[0].(map[string]any)
	assert.Equal(t, true, entry["isBreached"])
	assert.EqualValues(t, 12, entry["breachCount"])
	assert.Equal(t, "Very Weak", entry["strength"])
}

func TestAuth(t *testing.T) {
	e := newEnv(t)

	expired, err := e.issuer.Issue(uuid.New(), -time.Minute)
	require.NoError(t, err)

	other, err := auth.NewIssuer("another-secret-that-is-long-enough")
	require.NoError(t, err)
	forged, err := other.Issue(uuid.New(), time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"garbage", "Bearer not-a-token"},
		{"expired", "Bearer " + expired},
		{"forged", "Bearer " + forged},
		{"scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/check/password", bytes.NewBufferString(`{"password":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", tc.header)

			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	w := e.do(t, http.MethodGet, "/v1/history", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Services{Analyzer: analyzer.New(nil)})

	req := httptest.NewRequest(http.MethodPost, "/v1/check/password", bytes.NewBufferString(`{"password":"summer22"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.EqualValues(t, 55, res["score"])
	assert.NotContains(t, res, "isBreached")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckHash(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/v1/check/hash", `{"hash":"5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	assert.Equal(t, true, res["isBreached"])
	assert.EqualValues(t, 7, res["breachCount"])

	w = e.do(t, http.MethodPost, "/v1/check/hash", `{"hash":"abc"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/v1/check/hash", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/v1/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode(t, w)
	assert.Equal(t, "ok", res["status"])
	assert.EqualValues(t, 3, res["breach"].(map[string]any)["lookups"])
	assert.Contains(t, res, "memory")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Services{Analyzer: panicAnalyzer{}})

	req := httptest.NewRequest(http.MethodPost, "/v1/check/password", bytes.NewBufferString(`{"password":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
