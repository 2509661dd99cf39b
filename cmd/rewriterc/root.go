// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/status"
)

const (
	envConfig = "REWRITERC_CONFIG"
	envDebug  = "REWRITERC_DEBUG"
)

// newRootCmd builds the command tree. Commands share one RootOpts whose
// fields are bound to the persistent flags.
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Apply ordered literal find-and-replace rules across a source tree",
		Long: `rewriterc walks one or more directory trees and applies an ordered table of
literal replacement rules to every matching file, rewriting files in place
and reporting how many changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(rootOpts.Debug)
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))
			rootOpts.UserLogger = status.NewUserLoggerTo(cmd.Context(), cmd.OutOrStdout())
		},
	}

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewLintCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command. Defaults come from the
// environment so a .env file can set them.
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	configDefault := ".rewriterc.yaml"
	if v := os.Getenv(envConfig); v != "" {
		configDefault = v
	}
	debugDefault, _ := strconv.ParseBool(os.Getenv(envDebug))

	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", configDefault, "config file path (yaml, json or hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", debugDefault, "enable debug logging")
}

// loadEnv reads .env from the working directory when present
func loadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("loading .env")
	}
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		pterm.EnableDebugMessages()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}
