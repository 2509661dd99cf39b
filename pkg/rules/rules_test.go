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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		rules     []Rule
		wantError string
	}{
		{
			name: "valid_rules",
			rules: []Rule{
				{Pattern: "foo", Replacement: "bar"},
				{Pattern: "foo", Replacement: "baz", Scope: LineAnchored, Anchor: "using "},
				{Pattern: "", Replacement: "namespace X", Scope: LineAnchored, Anchor: "namespace ", ReplaceLine: true},
			},
		},
		{
			name:  "empty_rules",
			rules: []Rule{},
		},
		{
			name: "duplicate_pattern_and_scope",
			rules: []Rule{
				{Pattern: "foo", Replacement: "bar"},
				{Pattern: "foo", Replacement: "baz"},
			},
			wantError: "rule 1: invalid rule configuration: duplicate of rule 0",
		},
		{
			name: "same_pattern_different_files",
			rules: []Rule{
				{Pattern: "foo", Replacement: "bar", Files: "a/**"},
				{Pattern: "foo", Replacement: "baz", Files: "b/**"},
			},
		},
		{
			name: "missing_pattern",
			rules: []Rule{
				{Replacement: "bar"},
			},
			wantError: "pattern is required",
		},
		{
			name: "missing_anchor",
			rules: []Rule{
				{Pattern: "foo", Replacement: "bar", Scope: LineAnchored},
			},
			wantError: "anchor is required",
		},
		{
			name: "anchor_on_content_rule",
			rules: []Rule{
				{Pattern: "foo", Replacement: "bar", Anchor: "x"},
			},
			wantError: "anchor requires line scope",
		},
		{
			name: "multiline_replace_line",
			rules: []Rule{
				{Replacement: "a\nb", Scope: LineAnchored, Anchor: "x", ReplaceLine: true},
			},
			wantError: "must be a single line",
		},
		{
			name: "bad_glob",
			rules: []Rule{
				{Pattern: "foo", Replacement: "bar", Files: "a/[b"},
			},
			wantError: "invalid files glob",
		},
		{
			name: "unknown_scope",
			rules: []Rule{
				{Pattern: "foo", Replacement: "bar", Scope: Scope(9)},
			},
			wantError: "unknown scope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := New(tt.rules...)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConfiguration), "error should wrap ErrConfiguration")
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tt.rules), set.Len())
		})
	}
}

func TestRuleSet_Apply(t *testing.T) {
	tests := []struct {
		name        string
		rules       []Rule
		content     string
		want        string
		wantChanged bool
	}{
		{
			name:        "simple_replacement",
			rules:       []Rule{{Pattern: "namespace X", Replacement: "namespace Y"}},
			content:     "namespace X\ncode",
			want:        "namespace Y\ncode",
			wantChanged: true,
		},
		{
			name:        "every_occurrence",
			rules:       []Rule{{Pattern: "World", Replacement: "Universe"}},
			content:     "Hello World World",
			want:        "Hello Universe Universe",
			wantChanged: true,
		},
		{
			name: "sequential_composition",
			rules: []Rule{
				{Pattern: "A", Replacement: "B"},
				{Pattern: "B", Replacement: "C"},
			},
			content:     "A",
			want:        "C",
			wantChanged: true,
		},
		{
			name: "reverse_order_stops_early",
			rules: []Rule{
				{Pattern: "B", Replacement: "C"},
				{Pattern: "A", Replacement: "B"},
			},
			content:     "A",
			want:        "B",
			wantChanged: true,
		},
		{
			name:        "no_match",
			rules:       []Rule{{Pattern: "Goodbye", Replacement: "Hi"}},
			content:     "no match here",
			want:        "no match here",
			wantChanged: false,
		},
		{
			name:        "empty_content",
			rules:       []Rule{{Pattern: "World", Replacement: "Universe"}},
			content:     "",
			want:        "",
			wantChanged: false,
		},
		{
			name:        "empty_rules",
			content:     "Hello World",
			want:        "Hello World",
			wantChanged: false,
		},
		{
			name: "round_trip_is_unchanged",
			rules: []Rule{
				{Pattern: "A", Replacement: "B"},
				{Pattern: "B", Replacement: "A"},
			},
			content:     "A",
			want:        "A",
			wantChanged: false,
		},
		{
			name: "line_scope_isolation",
			rules: []Rule{
				{Pattern: "Old", Replacement: "New", Scope: LineAnchored, Anchor: "declare "},
			},
			content:     "declare Old\nuse Old here\n",
			want:        "declare New\nuse Old here\n",
			wantChanged: true,
		},
		{
			name: "line_scope_trims_indentation",
			rules: []Rule{
				{Pattern: "Old", Replacement: "New", Scope: LineAnchored, Anchor: "declare "},
			},
			content:     "\t  declare Old\r\nOld\r\n",
			want:        "\t  declare New\r\nOld\r\n",
			wantChanged: true,
		},
		{
			name: "line_scope_no_trailing_newline",
			rules: []Rule{
				{Pattern: "Old", Replacement: "New", Scope: LineAnchored, Anchor: "declare "},
			},
			content:     "x\ndeclare Old",
			want:        "x\ndeclare New",
			wantChanged: true,
		},
		{
			name: "replace_whole_line",
			rules: []Rule{
				{Replacement: "namespace App.Common", Scope: LineAnchored, Anchor: "namespace ", ReplaceLine: true},
			},
			content:     "using System;\n    namespace Domain.Interfaces\r\n{\n}\n",
			want:        "using System;\n    namespace App.Common\r\n{\n}\n",
			wantChanged: true,
		},
		{
			name: "replace_whole_line_keeps_bom",
			rules: []Rule{
				{Replacement: "namespace Y", Scope: LineAnchored, Anchor: "namespace ", ReplaceLine: true},
			},
			content:     "\uFEFFnamespace X\n\tnamespace Z\n",
			want:        "\uFEFFnamespace Y\n\tnamespace Y\n",
			wantChanged: true,
		},
		{
			name: "replace_whole_line_already_done",
			rules: []Rule{
				{Replacement: "namespace App.Common", Scope: LineAnchored, Anchor: "namespace ", ReplaceLine: true},
			},
			content:     "namespace App.Common\n",
			want:        "namespace App.Common\n",
			wantChanged: false,
		},
		{
			name: "replace_whole_line_requires_pattern_when_set",
			rules: []Rule{
				{Pattern: "Domain", Replacement: "namespace App", Scope: LineAnchored, Anchor: "namespace ", ReplaceLine: true},
			},
			content:     "namespace Other\n",
			want:        "namespace Other\n",
			wantChanged: false,
		},
		{
			name: "mixed_scopes_in_order",
			rules: []Rule{
				{Pattern: "Old.Ns", Replacement: "New.Ns", Scope: LineAnchored, Anchor: "namespace "},
				{Pattern: "using Old.Ns;", Replacement: "using New.Ns;"},
			},
			content:     "using Old.Ns;\nnamespace Old.Ns\n// Old.Ns\n",
			want:        "using New.Ns;\nnamespace New.Ns\n// Old.Ns\n",
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := New(tt.rules...)
			require.NoError(t, err)

			got, changed := set.Apply(tt.content)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestRuleSet_Rewrite(t *testing.T) {
	set, err := New(
		Rule{Pattern: "Svc", Replacement: "Services", Files: "Interfaces/Services/**"},
		Rule{Pattern: "Repo", Replacement: "Repositories", Files: "Interfaces/Repositories/*.cs"},
		Rule{Pattern: "Domain", Replacement: "Application"},
	)
	require.NoError(t, err)

	tests := []struct {
		name      string
		path      string
		content   string
		want      string
		wantCount int
	}{
		{
			name:      "service_rule_applies",
			path:      "Interfaces/Services/deep/IUserService.cs",
			content:   "Domain.Svc Repo",
			want:      "Application.Services Repo",
			wantCount: 2,
		},
		{
			name:      "repository_rule_applies",
			path:      "Interfaces/Repositories/IUserRepository.cs",
			content:   "Domain.Repo Svc",
			want:      "Application.Repositories Svc",
			wantCount: 2,
		},
		{
			name:      "only_unrestricted_rule",
			path:      "Other/File.cs",
			content:   "Domain Domain Svc Repo",
			want:      "Application Application Svc Repo",
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := set.Rewrite(tt.path, tt.content)
			assert.Equal(t, tt.want, res.Content)
			assert.Equal(t, tt.wantCount, res.Replacements)
			assert.True(t, res.Changed)
		})
	}
}

func TestRuleSet_ApplyIsIdempotent(t *testing.T) {
	set, err := New(
		Rule{Pattern: "FEMEE.Infrastructure.Security.Settings", Replacement: "FEMEE.Application.Configurations"},
		Rule{Pattern: "FEMEE.Infrastructure.Security.Services", Replacement: "FEMEE.Application.Services"},
		Rule{Replacement: "namespace FEMEE.Application.Interfaces.Common", Scope: LineAnchored, Anchor: "namespace ", ReplaceLine: true},
	)
	require.NoError(t, err)
	require.Empty(t, set.Lint())

	content := "using FEMEE.Infrastructure.Security.Settings;\nnamespace FEMEE.Domain.Interfaces\n{\n}\n"

	first, changed := set.Apply(content)
	require.True(t, changed)

	second, changed := set.Apply(first)
	assert.False(t, changed, "second pass should be a no-op")
	assert.Equal(t, first, second)
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{in: "", want: WholeContent},
		{in: "content", want: WholeContent},
		{in: "WHOLE_CONTENT", want: WholeContent},
		{in: "line", want: LineAnchored},
		{in: " line_anchored ", want: LineAnchored},
		{in: "regex", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
