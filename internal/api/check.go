// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/gin-gonic/gin"
	"net/http"
)

// Analyzer is implemented by analyzer.Service.
type Analyzer interface {
	Analyze(ctx context.Context, req strength.Request, caller analyzer.Caller) *strength.Result
}

// HashChecker is implemented by hibp.Checker.
type HashChecker interface {
	CheckHash(ctx context.Context, hash string) (hibp.Entry, error)
}

type checkApi struct {
	analyzer Analyzer
	hashes   HashChecker
}

func (q *checkApi) checkPassword(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "password is required and must be a string"})
		return
	}

	caller := analyzer.Caller{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if id, ok := UserID(c); ok {
		caller.UserID = &id
	}

	res := q.analyzer.Analyze(c.Request.Context(), strength.Request{
		Password:      *req.Password,
		SaveToHistory: req.SaveToHistory,
	}, caller)

	c.JSON(http.StatusOK, res)
}

func (q *checkApi) checkHash(c *gin.Context) {
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	e, err := q.hashes.CheckHash(c.Request.Context(), req.Hash)
	if err != nil {
		if errors.Is(err, hibp.ErrInvalidHash) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, hashResponse{IsBreached: e.Breached, BreachCount: e.Count})
}

func RegisterCheckApi(group *gin.RouterGroup, a Analyzer, hashes HashChecker) {
	q := &checkApi{analyzer: a, hashes: hashes}

	group.POST("/password", q.checkPassword)
	if hashes != nil {
		group.POST("/hash", q.checkHash)
	}
}
