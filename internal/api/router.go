// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"net/http"
)

// Services wires the API. Nil optional services disable their endpoints: no Hashes means no
// hash lookup, no History means no history endpoint and no Tokens means every caller is
// anonymous.
type Services struct {
	Analyzer Analyzer
	Hashes   HashChecker
	Stats    StatsSource
	History  HistoryReader
	Tokens   TokenVerifier
}

func NewRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Msgf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}))
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))

	v1 := router.Group("/v1")
	v1.Use(OptionalAuth(s.Tokens))

	RegisterCheckApi(v1.Group("/check"), s.Analyzer, s.Hashes)
	RegisterHealthApi(v1.Group("/health"), s.Stats)
	if s.History != nil {
		RegisterHistoryApi(v1.Group("/history"), s.History)
	}

	return router
}
