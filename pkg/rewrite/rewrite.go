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

package rewrite

import (
	"context"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/textenc"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options configures one Run
type Options struct {
	// Roots are walked in order. A root may also be a single file.
	Roots []string
	// Extensions filters candidate files by name: ".cs", "cs" or a glob such
	// as "*.Designer.cs". Empty means every regular file.
	Extensions []string
	// Rules are applied to every candidate file.
	Rules *rules.RuleSet
	// Encoding is an IANA charset name. Empty means UTF-8.
	Encoding string
	// DryRun computes changes without writing any file.
	DryRun bool
	// Diff attaches a unified diff to every change.
	Diff bool
	// Exclude lists files that are never candidates, such as the config
	// file the rules were loaded from.
	Exclude []string
	// Workers above 1 rewrites files concurrently.
	Workers int
	// OnFile, if set, is called once per candidate in traversal order.
	OnFile func(FileResult)
}

type rewriter struct {
	opts   Options
	codec  *textenc.Codec
	filter *nameFilter
}

// 🏃 Run rewrites every candidate file under opts.Roots. Per-file failures
// are collected in the report; the returned error is only set for invalid
// options or a cancelled context, in which case the partial report is still
// returned.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Rules == nil {
		return nil, errors.Errorf("rules are required")
	}
	if len(opts.Roots) == 0 {
		return nil, errors.Errorf("at least one root is required")
	}

	codec, err := textenc.Lookup(opts.Encoding)
	if err != nil {
		return nil, errors.Errorf("resolving encoding: %w", err)
	}

	filter, err := newNameFilter(opts.Extensions, opts.Exclude)
	if err != nil {
		return nil, errors.Errorf("building extension filter: %w", err)
	}

	r := &rewriter{opts: opts, codec: codec, filter: filter}
	report := &Report{DryRun: opts.DryRun}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Strs("roots", opts.Roots).
		Strs("extensions", opts.Extensions).
		Int("rules", opts.Rules.Len()).
		Str("encoding", codec.Name()).
		Bool("dry_run", opts.DryRun).
		Int("workers", opts.Workers).
		Msg("starting rewrite")

	if opts.Workers > 1 {
		err = r.runConcurrent(ctx, report)
	} else {
		err = r.runSequential(ctx, report)
	}

	logger.Debug().
		Int("scanned", report.FilesScanned).
		Int("changed", report.FilesChanged).
		Int("errors", len(report.Errors)).
		Msg("rewrite finished")

	if err != nil {
		return report, errors.Errorf("rewrite interrupted: %w", err)
	}
	return report, nil
}

func (r *rewriter) record(report *Report, res FileResult) {
	report.add(res)
	if r.opts.OnFile != nil {
		r.opts.OnFile(res)
	}
}

// 🔄 runSequential processes each file as soon as the walk yields it
func (r *rewriter) runSequential(ctx context.Context, report *Report) error {
	for _, root := range r.opts.Roots {
		err := walk(root, r.filter,
			func(c candidate) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.record(report, r.process(ctx, c))
				return nil
			},
			func(fe *FileError) {
				r.record(report, FileResult{Path: fe.Path, Err: fe})
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runConcurrent collects candidates first, then rewrites them on a bounded
// errgroup. Listing errors and candidates share one slice in walk order, so
// the report and OnFile see the same order a sequential run produces. Each
// worker only writes its own slot.
func (r *rewriter) runConcurrent(ctx context.Context, report *Report) error {
	var (
		slots      []FileResult
		candidates []candidate
		slotOf     []int
	)
	for _, root := range r.opts.Roots {
		err := walk(root, r.filter,
			func(c candidate) error {
				candidates = append(candidates, c)
				slotOf = append(slotOf, len(slots))
				slots = append(slots, FileResult{})
				return ctx.Err()
			},
			func(fe *FileError) {
				slots = append(slots, FileResult{Path: fe.Path, Err: fe})
			},
		)
		if err != nil {
			r.flush(report, slots)
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[slotOf[i]] = r.process(gctx, c)
			return nil
		})
	}
	err := g.Wait()

	r.flush(report, slots)
	return err
}

// flush records filled slots in order. Slots left zero were never processed
// because the context was cancelled.
func (r *rewriter) flush(report *Report, slots []FileResult) {
	for _, res := range slots {
		if res.Path == "" {
			continue
		}
		r.record(report, res)
	}
}

// 📄 process runs the read, rewrite, write protocol for one file
func (r *rewriter) process(ctx context.Context, c candidate) FileResult {
	logger := zerolog.Ctx(ctx).With().Str("file", c.path).Logger()
	res := FileResult{Path: c.path}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		res.Err = &FileError{Path: c.path, Kind: KindRead, Err: errors.Errorf("reading file: %w", err)}
		logger.Debug().Err(err).Msg("skipping unreadable file")
		return res
	}

	decoded, err := r.codec.Decode(raw)
	if err != nil {
		res.Err = &FileError{Path: c.path, Kind: KindRead, Err: errors.Errorf("decoding file: %w", err)}
		logger.Debug().Err(err).Msg("skipping undecodable file")
		return res
	}
	res.Scanned = true

	out := r.opts.Rules.Rewrite(c.rel, decoded.Text)
	if !out.Changed {
		logger.Trace().Msg("no changes")
		return res
	}
	res.Replacements = out.Replacements

	if r.opts.Diff {
		res.Diff = unifiedDiff(c.rel, decoded.Text, out.Content)
	}

	if r.opts.DryRun {
		res.Changed = true
		logger.Debug().Int("replacements", out.Replacements).Msg("would rewrite file")
		return res
	}

	encoded, err := r.codec.Encode(decoded.WithText(out.Content))
	if err != nil {
		res.Err = &FileError{Path: c.path, Kind: KindWrite, Err: errors.Errorf("encoding file: %w", err)}
		logger.Debug().Err(err).Msg("discarding rewrite")
		return res
	}

	if err := writeFileAtomic(c.path, encoded, c.mode); err != nil {
		res.Err = &FileError{Path: c.path, Kind: KindWrite, Err: err}
		logger.Debug().Err(err).Msg("discarding rewrite")
		return res
	}

	res.Changed = true
	logger.Debug().Int("replacements", out.Replacements).Msg("rewrote file")
	return res
}

func unifiedDiff(rel, before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + rel,
		ToFile:   "b/" + rel,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
