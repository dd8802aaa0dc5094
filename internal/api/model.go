// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

type checkRequest struct {
	// A pointer so an empty password is accepted but a missing one is not.
	Password      *string `json:"password" binding:"required"`
	SaveToHistory bool    `json:"saveToHistory"`
}

type hashRequest struct {
	Hash string `json:"hash" binding:"required"`
}

type hashResponse struct {
	IsBreached  bool `json:"isBreached"`
	BreachCount int  `json:"breachCount"`
}

type errorResponse struct {
	Error string `json:"error"`
}
