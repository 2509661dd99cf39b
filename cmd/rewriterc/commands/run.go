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

package commands

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFilesFailed is returned when the run finished but some files could not be processed
	ErrFilesFailed = errors.New("some files could not be rewritten")
	// ErrWouldChange is returned by check when at least one file is out of date
	ErrWouldChange = errors.New("files would change")
)

// runFlags are the flags shared by run and check. Each one overrides the
// matching config field when set.
type runFlags struct {
	extensions []string
	encoding   string
	workers    int
	replace    []string
	dryRun     bool
	diff       bool
}

func (f *runFlags) register(cmd *cobra.Command, withDryRun bool) {
	cmd.Flags().StringSliceVar(&f.extensions, "ext", nil, "file extensions or name globs to include (e.g. .cs,*.razor)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "IANA charset of the files (default utf-8)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "number of files rewritten concurrently")
	cmd.Flags().StringArrayVar(&f.replace, "replace", nil, "extra whole-content rule old=new, appended after the config rules")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a unified diff for every change")
	if withDryRun {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report changes without writing files")
	}
}

// NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [roots...]",
		Short: "Rewrite files in place",
		Long: `Run applies the configured rules, in order, to every file under the roots
whose name matches the extension filter, and writes back the files that changed.
Positional roots replace the roots from the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "run").Logger().WithContext(cmd.Context())

			report, err := execute(ctx, o, f, args, f.dryRun)
			if err != nil {
				return err
			}
			if report.HasErrors() {
				return errors.Errorf("%w: %d file(s)", ErrFilesFailed, len(report.Errors))
			}
			return nil
		},
	}

	f.register(cmd, true)
	return cmd
}

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "check [roots...]",
		Short: "Fail when any file would be rewritten",
		Long: `Check is run in dry-run mode. It exits non-zero when a file would change or
could not be read, which makes it suitable as a CI guard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())

			report, err := execute(ctx, o, f, args, true)
			if err != nil {
				return err
			}
			if report.HasErrors() {
				return errors.Errorf("%w: %d file(s)", ErrFilesFailed, len(report.Errors))
			}
			if report.FilesChanged > 0 {
				return errors.Errorf("%w: %d file(s)", ErrWouldChange, report.FilesChanged)
			}
			return nil
		},
	}

	f.register(cmd, false)
	return cmd
}

func execute(ctx context.Context, o *opts.RootOpts, f *runFlags, args []string, dryRun bool) (*rewrite.Report, error) {
	cfg, err := buildConfig(ctx, o, f, args)
	if err != nil {
		return nil, err
	}

	set, err := cfg.RuleSet()
	if err != nil {
		return nil, err
	}
	o.UserLogger.LogHazards(set.Lint())

	report, err := rewrite.Run(ctx, rewrite.Options{
		Roots:      cfg.Roots,
		Extensions: cfg.Extensions,
		Rules:      set,
		Encoding:   cfg.Encoding,
		DryRun:     dryRun,
		Diff:       f.diff,
		Workers:    cfg.Workers,
		Exclude:    []string{cfg.Path()},
		OnFile: func(res rewrite.FileResult) {
			o.UserLogger.LogFileResult(res, dryRun)
		},
	})
	if report != nil {
		o.UserLogger.LogReport(report)
	}
	if err != nil {
		return report, errors.Errorf("rewriting: %w", err)
	}
	return report, nil
}

// buildConfig merges the config file and the command line. The config file
// may be absent when --replace supplies the rules.
func buildConfig(ctx context.Context, o *opts.RootOpts, f *runFlags, args []string) (*config.Config, error) {
	cfg, err := o.LoadConfig(ctx, len(f.replace) == 0)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.Config{Roots: []string{"."}}
	}

	for _, arg := range f.replace {
		rc, err := parseReplacement(arg)
		if err != nil {
			return nil, err
		}
		cfg.Rules = append(cfg.Rules, rc)
	}

	if len(args) > 0 {
		cfg.Roots = args
	}
	if len(f.extensions) > 0 {
		cfg.Extensions = f.extensions
	}
	if f.encoding != "" {
		cfg.Encoding = f.encoding
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}
	return cfg, nil
}

// parseReplacement turns "old=new" into a whole-content rule. Only the first
// '=' separates, so the replacement may contain more.
func parseReplacement(arg string) (config.RuleConfig, error) {
	pattern, replacement, ok := strings.Cut(arg, "=")
	if !ok || pattern == "" {
		return config.RuleConfig{}, errors.Errorf("invalid --replace %q: expected old=new", arg)
	}
	return config.RuleConfig{Pattern: pattern, Replacement: replacement}, nil
}
