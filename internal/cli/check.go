// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [password]",
		Short: "Analyze the strength of a password and check if it has been breached",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return checkCommand("")
			} else {
				return checkCommand(args[0])
			}
		},
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode. The password is not echoed nor kept in the shell history")
	checkCmd.Flags().BoolVar(&offline, "offline", false, "Skip the breach lookup")

	rootCmd.AddCommand(checkCmd)
}

func checkCommand(password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	svc, release, err := newAnalyzer(offline)
	if err != nil {
		return err
	}
	defer release()

	if !interactive {
		printAnalysis(svc.Analyze(context.Background(), strength.Request{Password: password}, analyzer.Caller{}))
		return nil
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a password")
			}
			return nil
		},
	}

	log.Info().Msgf("Running interactive session. ^C to exit")
	if err = runInteractiveSession(prompt, svc); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			log.Info().Msgf("Goodbye")
		} else {
			log.Error().Err(err).Msgf("Error during interactive session")
		}
		// No return to avoid the default cobra error message
		return nil
	}

	return nil
}

func runInteractiveSession(prompt promptui.Prompt, svc *analyzer.Service) error {
	for {
		result, err := prompt.Run()
		if err != nil {
			return err
		}

		printAnalysis(svc.Analyze(context.Background(), strength.Request{Password: result}, analyzer.Caller{}))
	}
}

func printAnalysis(res *strength.Result) {
	for _, line := range describe(res) {
		log.Info().Msg(line)
	}
}
