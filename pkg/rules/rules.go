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

// Package rules holds ordered literal replacement rules and applies them to
// file content.
package rules

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrConfiguration is wrapped by every error returned from New.
var ErrConfiguration = errors.New("invalid rule configuration")

// 🎯 Scope decides where in a file a rule may match
type Scope int

const (
	WholeContent Scope = iota // every occurrence in the file
	LineAnchored              // only lines starting with the rule's anchor
)

// String returns the config name of the scope
func (s Scope) String() string {
	switch s {
	case WholeContent:
		return "content"
	case LineAnchored:
		return "line"
	default:
		return "unknown"
	}
}

// ParseScope maps a config name to a Scope. The empty string is WholeContent.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "content", "whole_content":
		return WholeContent, nil
	case "line", "line_anchored":
		return LineAnchored, nil
	default:
		return 0, errors.Errorf("unknown scope %q", name)
	}
}

// 🔄 Rule is a single literal replacement
type Rule struct {
	Pattern     string // literal text to find
	Replacement string // text written in its place
	Scope       Scope

	// Anchor is required for LineAnchored rules. A line qualifies when it
	// starts with Anchor after leading whitespace is trimmed.
	Anchor string

	// ReplaceLine swaps the whole qualifying line (indentation and line
	// terminator kept) for Replacement. An empty Pattern then matches every
	// anchored line.
	ReplaceLine bool

	// Files optionally restricts the rule to paths matching this doublestar
	// glob. Paths are root-relative and slash separated.
	Files string
}

type ruleKey struct {
	pattern string
	scope   Scope
	anchor  string
	files   string
}

func (r Rule) key() ruleKey {
	return ruleKey{pattern: r.Pattern, scope: r.Scope, anchor: r.Anchor, files: r.Files}
}

func (r Rule) validate() error {
	switch r.Scope {
	case WholeContent:
		if r.Pattern == "" {
			return errors.New("pattern is required")
		}
		if r.ReplaceLine {
			return errors.New("replace_line requires line scope")
		}
		if r.Anchor != "" {
			return errors.New("anchor requires line scope")
		}
	case LineAnchored:
		if r.Anchor == "" {
			return errors.New("anchor is required for line scope")
		}
		if r.Pattern == "" && !r.ReplaceLine {
			return errors.New("pattern is required unless replace_line is set")
		}
		if r.ReplaceLine && strings.ContainsAny(r.Replacement, "\r\n") {
			return errors.New("replace_line replacement must be a single line")
		}
	default:
		return errors.Errorf("unknown scope %d", r.Scope)
	}

	if r.Files != "" && !doublestar.ValidatePattern(r.Files) {
		return errors.Errorf("invalid files glob %q", r.Files)
	}

	return nil
}

// appliesTo reports whether the rule's files glob admits path
func (r Rule) appliesTo(path string) bool {
	if r.Files == "" {
		return true
	}
	matched, err := doublestar.Match(r.Files, path)
	return err == nil && matched
}

// 📚 RuleSet is an ordered, validated, immutable list of rules
type RuleSet struct {
	rules []Rule
}

// 🏭 New validates rules and freezes them in declaration order
func New(rules ...Rule) (*RuleSet, error) {
	seen := make(map[ruleKey]int, len(rules))
	for i, r := range rules {
		if err := r.validate(); err != nil {
			return nil, errors.Errorf("rule %d: %w: %s", i, ErrConfiguration, err.Error())
		}
		if prev, ok := seen[r.key()]; ok {
			return nil, errors.Errorf("rule %d: %w: duplicate of rule %d (%q, %s)", i, ErrConfiguration, prev, r.Pattern, r.Scope)
		}
		seen[r.key()] = i
	}

	frozen := make([]Rule, len(rules))
	copy(frozen, rules)
	return &RuleSet{rules: frozen}, nil
}

// Rules returns a copy of the rules in application order
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of rules
func (s *RuleSet) Len() int {
	return len(s.rules)
}
