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
	"fmt"
	"strings"
)

// ⚠️ HazardKind names a rule-authoring problem Lint can detect
type HazardKind string

const (
	// HazardSelfOverlap: the replacement contains the rule's own pattern, so
	// a second run rewrites the file again.
	HazardSelfOverlap HazardKind = "self_overlap"
	// HazardChained: an earlier replacement produces a later rule's pattern.
	HazardChained HazardKind = "chained"
	// HazardShadowed: an earlier pattern is a substring of a later pattern,
	// so the later rule never sees that text.
	HazardShadowed HazardKind = "shadowed"
)

// Hazard is one finding from Lint. Other is -1 for single-rule findings.
type Hazard struct {
	Kind  HazardKind
	Rule  int
	Other int
}

func (h Hazard) String() string {
	switch h.Kind {
	case HazardSelfOverlap:
		return fmt.Sprintf("rule %d: replacement contains its own pattern; rewrite is not idempotent", h.Rule)
	case HazardChained:
		return fmt.Sprintf("rule %d: replacement contains the pattern of rule %d; rule %d will rewrite its output", h.Rule, h.Other, h.Other)
	case HazardShadowed:
		return fmt.Sprintf("rule %d: pattern occurs inside the pattern of rule %d; rule %d can no longer match text rule %d rewrote", h.Rule, h.Other, h.Other, h.Rule)
	default:
		return fmt.Sprintf("rule %d: %s", h.Rule, h.Kind)
	}
}

// Lint reports overlaps between patterns and replacements. The engine still
// applies overlapping rules in order; this is advisory.
func (s *RuleSet) Lint() []Hazard {
	var hazards []Hazard

	for i, r := range s.rules {
		if !r.ReplaceLine && strings.Contains(r.Replacement, r.Pattern) {
			hazards = append(hazards, Hazard{Kind: HazardSelfOverlap, Rule: i, Other: -1})
		}

		for j := i + 1; j < len(s.rules); j++ {
			later := s.rules[j]
			if later.Pattern == "" {
				continue
			}
			if strings.Contains(r.Replacement, later.Pattern) {
				hazards = append(hazards, Hazard{Kind: HazardChained, Rule: i, Other: j})
			}
			if r.Scope == WholeContent && later.Pattern != r.Pattern && strings.Contains(later.Pattern, r.Pattern) {
				hazards = append(hazards, Hazard{Kind: HazardShadowed, Rule: i, Other: j})
			}
		}
	}

	return hazards
}
