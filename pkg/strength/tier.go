// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"fmt"
)

// Tier is the strength level of a password, ordered from weakest to strongest.
type Tier int

const (
	VeryWeak Tier = iota
	Weak
	Fair
	Good
	Strong
	VeryStrong
)

var tierLabels = [...]string{
	VeryWeak:   "Very Weak",
	Weak:       "Weak",
	Fair:       "Fair",
	Good:       "Good",
	Strong:     "Strong",
	VeryStrong: "Very Strong",
}

var tierColors = [...]string{
	VeryWeak:   "#dc2626",
	Weak:       "#ea580c",
	Fair:       "#ca8a04",
	Good:       "#65a30d",
	Strong:     "#16a34a",
	VeryStrong: "#059669",
}

// TierFor maps a score to its tier, first threshold matched wins.
func TierFor(score int) Tier {
	switch {
	case score >= 90:
		return VeryStrong
	case score >= 75:
		return Strong
	case score >= 60:
		return Good
	case score >= 40:
		return Fair
	case score >= 20:
		return Weak
	default:
		return VeryWeak
	}
}

// BreachedTierFor is the reduced mapping used once a password is known to be breached.
// It intentionally does not reuse the TierFor thresholds.
func BreachedTierFor(score int) Tier {
	if score >= 25 {
		return Weak
	}

	return VeryWeak
}

func (t Tier) valid() bool {
	return t >= VeryWeak && t <= VeryStrong
}

func (t Tier) String() string {
	if !t.valid() {
		return "Unknown"
	}

	return tierLabels[t]
}

// Color is the display color of the tier as a hex RGB string.
func (t Tier) Color() string {
	if !t.valid() {
		return "#6b7280"
	}

	return tierColors[t]
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("invalid strength tier %d", int(t))
	}

	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	tier, err := ParseTier(string(text))
	if err != nil {
		return err
	}

	*t = tier
	return nil
}

// ParseTier is the inverse of Tier.String.
func ParseTier(label string) (Tier, error) {
	for i, l := range tierLabels {
		if l == label {
			return Tier(i), nil
		}
	}

	return VeryWeak, fmt.Errorf("unknown strength tier %q", label)
}
