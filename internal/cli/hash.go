// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	hashCmd = &cobra.Command{
		Use:   "hash HASH",
		Short: "Check if a SHA-1 password hash (hex encoded) has been breached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return hashCommand(args[0])
		},
	}
)

func init() {
	rootCmd.AddCommand(hashCmd)
}

func hashCommand(hash string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load(nil)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	checker, release, err := newChecker(cfg)
	if err != nil {
		return err
	}
	defer release()

	msg, err := lookupHash(context.Background(), checker, hash)
	if err != nil {
		return err
	}

	log.Info().Msg(msg)
	return nil
}

// lookupHash tells a provider failure apart from a negative result. The checker reports both
// as not breached, only its failure counter differs.
func lookupHash(ctx context.Context, checker *hibp.Checker, hash string) (string, error) {
	failures := checker.Stats().Failures

	e, err := checker.CheckHash(ctx, hash)
	if err != nil {
		return "", err
	}
	if checker.Stats().Failures > failures {
		return "", errors.New("breach lookup failed, the hash could not be checked. Run with --verbose for details")
	}

	if e.Breached {
		p := message.NewPrinter(language.English)
		return p.Sprintf("Hash is present, seen %d times", e.Count), nil
	}
	return "Hash is not present", nil
}
