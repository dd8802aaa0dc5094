// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"unicode"
	"unicode/utf8"
)

const (
	MinScore = 0
	MaxScore = 100

	commonPenalty     = 40
	structuralPenalty = 10
)

const (
	SuggestLength     = "Use at least 8 characters"
	SuggestUpper      = "Add uppercase letters"
	SuggestLower      = "Add lowercase letters"
	SuggestNumbers    = "Add numbers"
	SuggestSymbols    = "Add special characters (!@#$%^&*)"
	SuggestLonger     = "Consider using 12 or more characters"
	SuggestCommon     = "Avoid common passwords"
	SuggestRepeats    = "Avoid repeating characters (e.g. aaa)"
	SuggestSequential = "Avoid sequential numbers (e.g. 123)"
	SuggestNone       = "Great password! Consider storing it in a password manager"
	SuggestEmpty      = "Enter a password to get started"
)

// traits are the structural facts about a password that both the score and the checks use.
type traits struct {
	length          int
	classes         Classes
	common          bool
	repeats         bool
	sequentialDigit bool
	sequentialAlpha bool
}

func inspect(password string, classes Classes) traits {
	rs := []rune(password)

	return traits{
		length:          len(rs),
		classes:         classes,
		common:          IsCommon(password),
		repeats:         hasRepeats(rs),
		sequentialDigit: hasRun(rs, isDigit),
		sequentialAlpha: hasRun(lowerASCII(rs), isLower),
	}
}

// Score runs the additive point system over a password and returns the clamped score
// together with the remediation suggestions, in display order.
func Score(password string, classes Classes, entropy float64) (int, []string) {
	t := inspect(password, classes)
	return score(t, entropy), suggest(t)
}

func score(t traits, entropy float64) int {
	points := 0

	switch {
	case t.length >= 20:
		points += 45
	case t.length >= 16:
		points += 40
	case t.length >= 12:
		points += 30
	case t.length >= 8:
		points += 20
	}

	if t.classes.Lower {
		points += 15
	}
	if t.classes.Upper {
		points += 15
	}
	if t.classes.Digit {
		points += 15
	}
	if t.classes.Symbol {
		points += 20
	}

	switch {
	case entropy > 80:
		points += 25
	case entropy > 60:
		points += 15
	case entropy > 40:
		points += 5
	}

	if t.common {
		points -= commonPenalty
	}
	if t.repeats {
		points -= structuralPenalty
	}
	if t.sequentialDigit {
		points -= structuralPenalty
	}
	if t.sequentialAlpha {
		points -= structuralPenalty
	}

	return clamp(points)
}

func suggest(t traits) []string {
	var s []string
	if t.length < 8 {
		s = append(s, SuggestLength)
	}
	if !t.classes.Upper {
		s = append(s, SuggestUpper)
	}
	if !t.classes.Lower {
		s = append(s, SuggestLower)
	}
	if !t.classes.Digit {
		s = append(s, SuggestNumbers)
	}
	if !t.classes.Symbol {
		s = append(s, SuggestSymbols)
	}
	if t.length >= 8 && t.length < 12 {
		s = append(s, SuggestLonger)
	}
	if t.common {
		s = append(s, SuggestCommon)
	}
	if t.repeats {
		s = append(s, SuggestRepeats)
	}
	if t.sequentialDigit {
		s = append(s, SuggestSequential)
	}

	if len(s) == 0 {
		return []string{SuggestNone}
	}
	return s
}

func (t traits) checks() Checks {
	return Checks{
		Length:      t.length >= 8,
		Uppercase:   t.classes.Upper,
		Lowercase:   t.classes.Lower,
		Numbers:     t.classes.Digit,
		Symbols:     t.classes.Symbol,
		NotCommon:   !t.common,
		NoRepeats:   !t.repeats,
		NoSequences: !t.sequentialDigit && !t.sequentialAlpha,
	}
}

// HasRepeats reports a character repeated at least three times in a row.
func HasRepeats(password string) bool {
	return hasRepeats([]rune(password))
}

// HasSequentialDigits reports an ascending run of three digits, like "123" or "789".
func HasSequentialDigits(password string) bool {
	return hasRun([]rune(password), isDigit)
}

// HasSequentialLetters reports an ascending run of three letters ignoring case, like "abc"
// or "XyZ".
func HasSequentialLetters(password string) bool {
	return hasRun(lowerASCII([]rune(password)), isLower)
}

func hasRepeats(rs []rune) bool {
	for i := 2; i < len(rs); i++ {
		if rs[i] == rs[i-1] && rs[i] == rs[i-2] {
			return true
		}
	}

	return false
}

// lowerASCII returns a lowercased copy, non-ASCII runes are kept as they are.
func lowerASCII(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		if r < unicode.MaxASCII {
			r = unicode.ToLower(r)
		}
		out[i] = r
	}

	return out
}

func hasRun(rs []rune, in func(rune) bool) bool {
	for i := 2; i < len(rs); i++ {
		a, b, c := rs[i-2], rs[i-1], rs[i]
		if in(a) && in(b) && in(c) && b == a+1 && c == b+1 {
			return true
		}
	}

	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func length(password string) int {
	return utf8.RuneCountInString(password)
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}

	return score
}
