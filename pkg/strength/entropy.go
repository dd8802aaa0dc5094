// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"math"
)

const (
	lowerSpace  = 26
	upperSpace  = 26
	digitSpace  = 10
	symbolSpace = 32
)

// Classes is the character class profile of a password.
type Classes struct {
	Lower  bool
	Upper  bool
	Digit  bool
	Symbol bool
}

// Profile scans the password once. Letters and digits are ASCII only, any other rune is
// counted as a symbol.
func Profile(password string) Classes {
	var c Classes
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			c.Lower = true
		case r >= 'A' && r <= 'Z':
			c.Upper = true
		case r >= '0' && r <= '9':
			c.Digit = true
		default:
			c.Symbol = true
		}
	}

	return c
}

func (c Classes) charspace() int {
	space := 0
	if c.Lower {
		space += lowerSpace
	}
	if c.Upper {
		space += upperSpace
	}
	if c.Digit {
		space += digitSpace
	}
	if c.Symbol {
		space += symbolSpace
	}

	return space
}

// Entropy is the bits of entropy of the password assuming every character was picked at
// random from the classes it uses. Dictionary words and patterns are not taken into
// account, those are penalized by the scorer.
func Entropy(password string) float64 {
	return entropy(length(password), Profile(password))
}

func entropy(n int, c Classes) float64 {
	space := c.charspace()
	if space == 0 || n == 0 {
		return 0
	}

	return float64(n) * math.Log2(float64(space))
}
