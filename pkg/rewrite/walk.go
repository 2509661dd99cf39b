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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

type candidate struct {
	path string      // path on disk
	rel  string      // root-relative, slash separated; matched by rule globs
	mode fs.FileMode // permissions restored after the rewrite
}

// 🔍 nameFilter matches file base names against extension globs and drops
// explicitly excluded paths
type nameFilter struct {
	patterns []string
	excluded map[string]struct{}
}

func newNameFilter(exts []string, exclude []string) (*nameFilter, error) {
	f := &nameFilter{excluded: make(map[string]struct{}, len(exclude))}
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}

		var pattern string
		switch {
		case strings.ContainsAny(ext, "*?[{"):
			pattern = ext
		case strings.HasPrefix(ext, "."):
			pattern = "*" + ext
		default:
			pattern = "*." + ext
		}

		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid extension pattern %q", ext)
		}
		f.patterns = append(f.patterns, pattern)
	}

	for _, path := range exclude {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Errorf("resolving excluded path %q: %w", path, err)
		}
		f.excluded[abs] = struct{}{}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			f.excluded[resolved] = struct{}{}
		}
	}
	return f, nil
}

func (f *nameFilter) match(name string) bool {
	if len(f.patterns) == 0 {
		return true
	}
	for _, p := range f.patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// excludes reports whether any of the given spellings of one file is excluded
func (f *nameFilter) excludes(paths ...string) bool {
	if len(f.excluded) == 0 {
		return false
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if _, ok := f.excluded[abs]; ok {
			return true
		}
	}
	return false
}

// walk visits every regular file under root whose name passes filter.
// A symlinked root is resolved first; the paths handed to visit and onErr
// stay under root as given. Listing failures go to onErr and the walk
// continues. A non-nil error from visit stops the walk and is returned.
func walk(root string, filter *nameFilter, visit func(candidate) error, onErr func(*FileError)) error {
	base, err := filepath.EvalSymlinks(root)
	if err != nil {
		onErr(&FileError{Path: root, Kind: KindRead, Err: errors.Errorf("resolving root: %w", err)})
		return nil
	}

	under := func(path string) string {
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == "." {
			return root
		}
		return filepath.Join(root, rel)
	}

	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		shown := under(path)
		if err != nil {
			onErr(&FileError{Path: shown, Kind: KindRead, Err: errors.Errorf("listing: %w", err)})
			if d != nil && d.IsDir() && path != base {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !filter.match(filepath.Base(shown)) || filter.excludes(shown, path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			onErr(&FileError{Path: shown, Kind: KindRead, Err: errors.Errorf("stat: %w", err)})
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil || rel == "." {
			rel = filepath.Base(shown)
		}

		return visit(candidate{
			path: shown,
			rel:  filepath.ToSlash(rel),
			mode: info.Mode().Perm(),
		})
	})
}

// writeFileAtomic writes content to a temp file next to path and renames it
// over path.
func writeFileAtomic(path string, content []byte, mode fs.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".rewriterc-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
