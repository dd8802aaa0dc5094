// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/gin-gonic/gin"
	"net/http"
)

// StatsSource is implemented by hibp.Checker.
type StatsSource interface {
	Stats() hibp.Stats
}

type healthResponse struct {
	Status string      `json:"status"`
	Breach *hibp.Stats `json:"breach,omitempty"`
	Memory util.Memory `json:"memory"`
}

func RegisterHealthApi(group *gin.RouterGroup, stats StatsSource) {
	group.GET("", func(c *gin.Context) {
		res := healthResponse{Status: "ok", Memory: util.MemoryUsage()}
		if stats != nil {
			st := stats.Stats()
			res.Breach = &st
		}

		c.JSON(http.StatusOK, res)
	})
}
