// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"github.com/alvinbaena/pwd-analyzer/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"net/http"
)

// HistoryReader is implemented by store.Store.
type HistoryReader interface {
	History(ctx context.Context, userID uuid.UUID) ([]store.HistoryEntry, error)
}

type historyApi struct {
	history HistoryReader
}

func (h *historyApi) list(c *gin.Context) {
	id, _ := UserID(c)
	entries, err := h.history.History(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Msgf("error reading history for user %s", id)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func RegisterHistoryApi(group *gin.RouterGroup, history HistoryReader) {
	h := &historyApi{history: history}

	group.GET("", RequireAuth(), h.list)
}
