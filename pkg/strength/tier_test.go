// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"encoding/json"
	"testing"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{0, VeryWeak},
		{19, VeryWeak},
		{20, Weak},
		{39, Weak},
		{40, Fair},
		{59, Fair},
		{60, Good},
		{74, Good},
		{75, Strong},
		{89, Strong},
		{90, VeryStrong},
		{100, VeryStrong},
	}

	for _, tc := range cases {
		if got := TierFor(tc.score); got != tc.want {
			t.Errorf("TierFor(%d): %s, want: %s", tc.score, got, tc.want)
		}
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	prev := TierFor(MinScore)
	for s := MinScore + 1; s <= MaxScore; s++ {
		cur := TierFor(s)
		if cur < prev {
			t.Fatalf("Tier should never go down, score %d gives %s after %s", s, cur, prev)
		}
		prev = cur
	}
}

func TestBreachedTierFor(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{0, VeryWeak},
		{24, VeryWeak},
		{25, Weak},
		{30, Weak},
	}

	for _, tc := range cases {
		if got := BreachedTierFor(tc.score); got != tc.want {
			t.Errorf("BreachedTierFor(%d): %s, want: %s", tc.score, got, tc.want)
		}
	}

	// The two tables disagree on purpose: 22 is Weak for the main table but not once breached.
	if TierFor(22) != Weak || BreachedTierFor(22) != VeryWeak {
		t.Errorf("Breached mapping should not reuse the main thresholds")
	}
}

func TestTier_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Strength Tier `json:"strength"`
	}{VeryStrong})
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if string(b) != `{"strength":"Very Strong"}` {
		t.Errorf("Unexpected encoding %s", b)
	}

	var out struct {
		Strength Tier `json:"strength"`
	}
	if err = json.Unmarshal([]byte(`{"strength":"Fair"}`), &out); err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if out.Strength != Fair {
		t.Errorf("Decoded tier: %s, want: %s", out.Strength, Fair)
	}

	if _, err = ParseTier("Mediocre"); err == nil {
		t.Errorf("Should fail parsing an unknown tier")
	}
}

func TestTier_Color(t *testing.T) {
	seen := map[string]bool{}
	for tier := VeryWeak; tier <= VeryStrong; tier++ {
		c := tier.Color()
		if c == "" || seen[c] {
			t.Errorf("Tier %s should have its own color, got %q", tier, c)
		}
		seen[c] = true
	}
}
