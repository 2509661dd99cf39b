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

package status

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/rules"
)

// 📢 UserLogger provides user-friendly feedback about a rewrite run.
// Every message is mirrored to the zerolog logger for debugging.
type UserLogger struct {
	log zerolog.Logger
	out io.Writer // per-file lines and diffs
}

// 🎯 NewUserLogger creates a new user logger writing file lines to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerTo(ctx, os.Stdout)
}

// NewUserLoggerTo is NewUserLogger with an explicit writer for file lines
func NewUserLoggerTo(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// 📝 LogFileResult prints one file outcome. Unchanged files are only logged at debug.
func (u *UserLogger) LogFileResult(res rewrite.FileResult, dryRun bool) {
	switch {
	case res.Err != nil:
		fmt.Fprintln(u.out, FormatFileResult(res, dryRun))
		u.log.Error().Err(res.Err.Err).Str("path", res.Path).Str("kind", string(res.Err.Kind)).Msg("file failed")
	case res.Changed:
		fmt.Fprintln(u.out, FormatFileResult(res, dryRun))
		if res.Diff != "" {
			fmt.Fprint(u.out, ColorizeDiff(res.Diff))
		}
		u.log.Info().Str("path", res.Path).Int("replacements", res.Replacements).Bool("dry_run", dryRun).Msg("file rewritten")
	default:
		u.log.Debug().Str("path", res.Path).Msg("file unchanged")
	}
}

// ⚠️ LogHazards prints rule table hazards as warnings
func (u *UserLogger) LogHazards(hazards []rules.Hazard) {
	printer := pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"})
	for _, h := range hazards {
		printer.Println(h.String())
		u.log.Warn().Str("kind", string(h.Kind)).Int("rule", h.Rule).Int("other", h.Other).Msg(h.String())
	}
}

// 📊 LogReport prints the run summary followed by each file error
func (u *UserLogger) LogReport(report *rewrite.Report) {
	summary := report.Summary()
	switch {
	case report.HasErrors():
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(summary)
		for _, fe := range report.Errors {
			pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(fe.Error())
		}
		u.log.Warn().Int("scanned", report.FilesScanned).Int("changed", report.FilesChanged).Int("errors", len(report.Errors)).Msg(summary)
	case report.DryRun:
		pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"}).Println(summary)
		u.log.Info().Int("scanned", report.FilesScanned).Int("changed", report.FilesChanged).Msg(summary)
	default:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(summary)
		u.log.Info().Int("scanned", report.FilesScanned).Int("changed", report.FilesChanged).Msg(summary)
	}
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	u.log.Warn().Msg(description)
}
