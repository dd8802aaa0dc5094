// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// describe renders an analysis as the lines printed by the check command.
func describe(res *strength.Result) []string {
	p := message.NewPrinter(language.English)

	lines := []string{
		fmt.Sprintf("Score:       %d/%d (%s)", res.Score, strength.MaxScore, res.Strength),
		fmt.Sprintf("Entropy:     %.2f bits", res.Entropy),
		fmt.Sprintf("Crack time:  %s", res.CrackTime.Display),
	}

	switch {
	case res.IsBreached == nil:
		lines = append(lines, "Breached:    not checked")
	case *res.IsBreached:
		lines = append(lines, p.Sprintf("Breached:    yes, seen %d times", *res.BreachCount))
	default:
		lines = append(lines, "Breached:    no")
	}

	if res.Pattern != nil {
		lines = append(lines, fmt.Sprintf("Patterns:    %d/4, cracked in %s", res.Pattern.Score, res.Pattern.CrackTimeDisplay))
	}

	lines = append(lines, "Suggestions:")
	for _, s := range res.Suggestions {
		lines = append(lines, "  - "+s)
	}

	return lines
}
