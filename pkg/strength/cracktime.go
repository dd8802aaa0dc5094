// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"fmt"
	"math"
)

// GuessesPerSecond is the assumed offline attack rate.
const GuessesPerSecond = 1e9

const (
	minute  = 60
	hour    = 60 * minute
	day     = 24 * hour
	month   = 2629746
	year    = 31556952
	decade  = 10 * year
	century = 100 * year
)

type CrackTime struct {
	Seconds float64 `json:"seconds"`
	Display string  `json:"display"`
}

// EstimateCrackTime returns the time needed to find the password with a 50% chance.
func EstimateCrackTime(entropy float64) CrackTime {
	// 2^entropy / 2 guesses
	seconds := math.Exp2(entropy-1) / GuessesPerSecond
	if math.IsInf(seconds, 1) || math.IsNaN(seconds) {
		seconds = math.MaxFloat64
	}

	return CrackTime{Seconds: seconds, Display: displayTime(seconds)}
}

func displayTime(seconds float64) string {
	switch {
	case seconds < 1:
		return "Instantly"
	case seconds < minute:
		return fmt.Sprintf("%.0f seconds", math.Round(seconds))
	case seconds < hour:
		return fmt.Sprintf("%.0f minutes", math.Round(seconds/minute))
	case seconds < day:
		return fmt.Sprintf("%.0f hours", math.Round(seconds/hour))
	case seconds < month:
		return fmt.Sprintf("%.0f days", math.Round(seconds/day))
	case seconds < year:
		return fmt.Sprintf("%.0f months", math.Round(seconds/month))
	case seconds < decade:
		return fmt.Sprintf("%.0f years", math.Round(seconds/year))
	case seconds < century:
		return fmt.Sprintf("%.0f decades", math.Round(seconds/decade))
	default:
		return "Centuries"
	}
}
