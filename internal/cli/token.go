// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/auth"
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"io"
	"time"
)

var (
	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API, signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(nil)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return tokenCommand(cmd.OutOrStdout(), cfg.JWTSecret)
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&userID, "user", "", "User id (UUID) of the token subject. A random one is used if empty")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "How long the token is valid for")

	rootCmd.AddCommand(tokenCmd)
}

func tokenCommand(out io.Writer, secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must be set to mint tokens")
	}
	if tokenTTL <= 0 {
		return errors.New("ttl must be positive")
	}

	id := uuid.New()
	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", userID, err)
		}
		id = parsed
	}

	issuer, err := auth.NewIssuer(secret)
	if err != nil {
		return err
	}

	token, err := issuer.Issue(id, tokenTTL)
	if err != nil {
		return err
	}

	log.Info().Msgf("token for user %s valid until %s", id, time.Now().Add(tokenTTL).Format(time.RFC3339))
	_, err = fmt.Fprintln(out, token)
	return err
}
