// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

// Request is a single analysis request.
type Request struct {
	Password      string
	SaveToHistory bool
}

// Checks are the pass/fail flags shown next to the password in the dashboard.
type Checks struct {
	Length      bool `json:"length"`
	Uppercase   bool `json:"uppercase"`
	Lowercase   bool `json:"lowercase"`
	Numbers     bool `json:"numbers"`
	Symbols     bool `json:"symbols"`
	NotCommon   bool `json:"notCommon"`
	NoRepeats   bool `json:"noRepeats"`
	NoSequences bool `json:"noSequences"`
}

// Result is the outcome of analyzing one password.
//
// IsBreached and BreachCount stay nil when no breach lookup was made.
type Result struct {
	Score       int       `json:"score"`
	Strength    Tier      `json:"strength"`
	Color       string    `json:"color"`
	Entropy     float64   `json:"entropy"`
	CrackTime   CrackTime `json:"crackTime"`
	Suggestions []string  `json:"suggestions"`
	Checks      Checks    `json:"checks"`
	Pattern     *Pattern  `json:"pattern,omitempty"`
	IsBreached  *bool     `json:"isBreached,omitempty"`
	BreachCount *int      `json:"breachCount,omitempty"`
}

// Empty is the result for an empty password. No scoring is done.
func Empty() *Result {
	return &Result{
		Score:       0,
		Strength:    VeryWeak,
		Color:       VeryWeak.Color(),
		Entropy:     0,
		CrackTime:   CrackTime{Seconds: 0, Display: "Instantly"},
		Suggestions: []string{SuggestEmpty},
	}
}

// Evaluate runs the local, side-effect free part of the analysis: class profile, entropy,
// score, tier, suggestions and crack time.
func Evaluate(password string) *Result {
	if password == "" {
		return Empty()
	}

	classes := Profile(password)
	t := inspect(password, classes)
	bits := entropy(t.length, classes)
	points := score(t, bits)
	tier := TierFor(points)

	return &Result{
		Score:       points,
		Strength:    tier,
		Color:       tier.Color(),
		Entropy:     bits,
		CrackTime:   EstimateCrackTime(bits),
		Suggestions: suggest(t),
		Checks:      t.checks(),
	}
}

// SetTier updates the tier and its display color together.
func (r *Result) SetTier(t Tier) {
	r.Strength = t
	r.Color = t.Color()
}
