// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import "time"

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// check, audit
	offline bool
	// check
	interactive bool
	// audit
	inputFile string
	// audit
	threads int
	// serve
	selfTLS bool
	// serve
	tlsCert string
	// serve
	tlsKey string
	// serve
	port uint16
	// serve
	insecure bool
	// token
	userID string
	// token
	tokenTTL time.Duration
)
