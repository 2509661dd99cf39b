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

package rules

import (
	"strings"
	"unicode"
)

// 📦 Result is the outcome of running a RuleSet over one file's content
type Result struct {
	Content      string // content after every applicable rule
	Changed      bool   // Content differs from the input
	Replacements int    // occurrences rewritten across all rules
}

// Apply runs every rule in order over content, ignoring Files globs.
func (s *RuleSet) Apply(content string) (string, bool) {
	res := s.apply(content, func(Rule) bool { return true })
	return res.Content, res.Changed
}

// Rewrite runs the rules whose Files glob admits path.
func (s *RuleSet) Rewrite(path string, content string) Result {
	return s.apply(content, func(r Rule) bool { return r.appliesTo(path) })
}

func (s *RuleSet) apply(content string, admit func(Rule) bool) Result {
	current := content
	count := 0

	for _, r := range s.rules {
		if !admit(r) {
			continue
		}

		var n int
		switch r.Scope {
		case WholeContent:
			current, n = replaceAll(current, r.Pattern, r.Replacement)
		case LineAnchored:
			current, n = replaceAnchored(current, r)
		}
		count += n
	}

	return Result{
		Content:      current,
		Changed:      current != content,
		Replacements: count,
	}
}

func replaceAll(s, pattern, replacement string) (string, int) {
	n := strings.Count(s, pattern)
	if n == 0 {
		return s, 0
	}
	return strings.ReplaceAll(s, pattern, replacement), n
}

func replaceAnchored(content string, r Rule) (string, int) {
	if !strings.Contains(content, r.Anchor) {
		return content, 0
	}

	lines := strings.SplitAfter(content, "\n")
	count := 0

	for i, line := range lines {
		body, eol := splitTerminator(line)
		trimmed := strings.TrimLeftFunc(body, isLeadingSpace)
		if !strings.HasPrefix(trimmed, r.Anchor) {
			continue
		}

		if r.ReplaceLine {
			if r.Pattern != "" && !strings.Contains(body, r.Pattern) {
				continue
			}
			indent := body[:len(body)-len(trimmed)]
			next := indent + r.Replacement
			if next != body {
				lines[i] = next + eol
				count++
			}
			continue
		}

		next, n := replaceAll(body, r.Pattern, r.Replacement)
		if n > 0 {
			lines[i] = next + eol
			count += n
		}
	}

	if count == 0 {
		return content, 0
	}
	return strings.Join(lines, ""), count
}

// splitTerminator separates a line from its "\n" or "\r\n" ending
func splitTerminator(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}

func isLeadingSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
