// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"context"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thinhdanggroup/executor"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	auditCmd = &cobra.Command{
		Use:   "audit",
		Short: "Analyze a newline separated list of passwords and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return auditCommand()
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	auditCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line (required)")
	auditCmd.MarkFlagRequired("in-file")
	auditCmd.Flags().IntVarP(&threads, "threads", "t", runtime.NumCPU()*2,
		"Number of passwords analyzed concurrently. Breach lookups are network bound, so more threads than CPUs is fine")
	auditCmd.Flags().BoolVar(&offline, "offline", false, "Skip the breach lookups")

	rootCmd.AddCommand(auditCmd)
}

func auditCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", threads)
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	passwords, err := readPasswords(f)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", inputFile, err)
	}

	svc, release, err := newAnalyzer(offline)
	if err != nil {
		return err
	}
	defer release()

	log.Info().Msgf("auditing %d passwords from %s with %d threads", len(passwords), inputFile, threads)
	start := time.Now()

	sum, err := audit(context.Background(), svc, passwords, threads)
	if err != nil {
		return err
	}

	log.Info().Msgf("audit finished in %v", time.Since(start).Round(time.Millisecond))
	util.LogMemStats("audit")
	for _, line := range sum.Lines() {
		log.Info().Msg(line)
	}

	return nil
}

// readPasswords returns the non-empty lines of r. Windows line endings are accepted.
func readPasswords(r io.Reader) ([]string, error) {
	var passwords []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		passwords = append(passwords, line)
	}

	return passwords, scanner.Err()
}

// audit analyzes every password on a bounded worker pool.
func audit(ctx context.Context, svc *analyzer.Service, passwords []string, workers int) (*summary, error) {
	pool, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * workers,
		NumWorkers:    workers,
	})
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	sum := newSummary()
	analyze := func(password string) {
		sum.Add(svc.Analyze(ctx, strength.Request{Password: password}, analyzer.Caller{}))
	}

	for _, password := range passwords {
		if err = pool.Publish(analyze, password); err != nil {
			log.Panic().Err(err).Msgf("there is a programming error here.")
		}
	}

	pool.Wait()
	return sum, nil
}

type summary struct {
	mu       sync.Mutex
	total    int
	checked  int
	breached int
	tiers    map[strength.Tier]int
	scores   []float64
}

func newSummary() *summary {
	return &summary{tiers: make(map[strength.Tier]int)}
}

func (s *summary) Add(res *strength.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.tiers[res.Strength]++
	s.scores = append(s.scores, float64(res.Score))
	if res.IsBreached != nil {
		s.checked++
		if *res.IsBreached {
			s.breached++
		}
	}
}

// Median of the scores, 0 when nothing was analyzed.
func (s *summary) Median() float64 {
	s.mu.Lock()
	scores := make([]float64, len(s.scores))
	copy(scores, s.scores)
	s.mu.Unlock()

	if len(scores) == 0 {
		return 0
	}

	sorty.SortSlice(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		return (scores[mid-1] + scores[mid]) / 2
	}
	return scores[mid]
}

func (s *summary) Lines() []string {
	median := s.Median()

	s.mu.Lock()
	defer s.mu.Unlock()

	p := message.NewPrinter(language.English)
	lines := []string{p.Sprintf("Passwords analyzed: %d", s.total)}
	if s.total == 0 {
		return lines
	}

	for t := strength.VeryWeak; t <= strength.VeryStrong; t++ {
		lines = append(lines, p.Sprintf("  %-12s %d (%.1f%%)", t.String()+":", s.tiers[t], percent(s.tiers[t], s.total)))
	}

	if s.checked > 0 {
		lines = append(lines, p.Sprintf("Breached: %d of %d (%.1f%%)", s.breached, s.checked, percent(s.breached, s.checked)))
	} else {
		lines = append(lines, "Breached: not checked")
	}
	lines = append(lines, p.Sprintf("Median score: %.1f", median))

	return lines
}

func percent(n, total int) float64 {
	return float64(n) * 100 / float64(total)
}
