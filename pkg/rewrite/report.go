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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrRead matches any FileError raised while listing, reading or decoding.
	ErrRead = errors.New("read error")
	// ErrWrite matches any FileError raised while encoding or writing back.
	ErrWrite = errors.New("write error")
)

// 🏷️ ErrorKind tells whether a file failed before or after the rewrite
type ErrorKind string

const (
	KindRead  ErrorKind = "read"
	KindWrite ErrorKind = "write"
)

// ❌ FileError is a per-file failure. The run records it and moves on.
type FileError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is matches ErrRead or ErrWrite according to Kind
func (e *FileError) Is(target error) bool {
	switch e.Kind {
	case KindRead:
		return target == ErrRead
	case KindWrite:
		return target == ErrWrite
	}
	return false
}

// 📝 FileChange describes one file that was (or in a dry run, would be) rewritten
type FileChange struct {
	Path         string
	Replacements int
	Diff         string // unified diff, only when Options.Diff is set
}

// 📄 FileResult is the outcome for a single candidate file
type FileResult struct {
	Path         string
	Scanned      bool // content was read and decoded
	Changed      bool // content was written back (or would be, in a dry run)
	Replacements int
	Diff         string
	Err          *FileError
}

// 📊 Report accumulates the results of one Run
type Report struct {
	FilesScanned int
	FilesChanged int
	DryRun       bool
	Changes      []FileChange
	Errors       []*FileError
}

func (r *Report) add(res FileResult) {
	if res.Scanned {
		r.FilesScanned++
	}
	if res.Changed {
		r.FilesChanged++
		r.Changes = append(r.Changes, FileChange{
			Path:         res.Path,
			Replacements: res.Replacements,
			Diff:         res.Diff,
		})
	}
	if res.Err != nil {
		r.Errors = append(r.Errors, res.Err)
	}
}

// HasErrors reports whether any file could not be processed. A report with
// zero changes and no errors means nothing matched.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins every file error, or returns nil.
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Summary is the one-line human readable result
func (r *Report) Summary() string {
	verb := "updated"
	if r.DryRun {
		verb = "to update"
	}
	return fmt.Sprintf("Total files %s: %d (scanned: %d, errors: %d)", verb, r.FilesChanged, r.FilesScanned, len(r.Errors))
}
