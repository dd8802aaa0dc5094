// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"github.com/nbutton23/zxcvbn-go"
)

// zxcvbn matching grows fast with the input size, longer passwords are not analyzed.
const maxPatternLength = 128

// Pattern is the dictionary and pattern aware estimate from zxcvbn. It is informational and
// never changes the heuristic score.
type Pattern struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy"`
	CrackTimeDisplay string  `json:"crackTimeDisplay"`
}

// Patterns returns nil for empty or very long passwords.
func Patterns(password string, userInputs ...string) *Pattern {
	if password == "" || length(password) > maxPatternLength {
		return nil
	}

	m := zxcvbn.PasswordStrength(password, userInputs)
	return &Pattern{
		Score:            m.Score,
		Entropy:          m.Entropy,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
}
