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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"gitlab.com/tozd/go/errors"
)

// ErrHazards is returned by lint when the rule table has hazards
var ErrHazards = errors.New("rule hazards found")

// NewLintCmd creates the lint command
func NewLintCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report rules whose order makes the result surprising",
		Long: `Lint checks the configured rule table for rules that are not idempotent,
rules whose output is rewritten again by a later rule, and later rules that an
earlier rule prevents from ever matching. Nothing is read from the roots.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.LoadConfig(cmd.Context(), true)
			if err != nil {
				return err
			}

			set, err := cfg.RuleSet()
			if err != nil {
				return err
			}

			hazards := set.Lint()
			if len(hazards) == 0 {
				o.UserLogger.LogValidation(true, fmt.Sprintf("%d rules, no hazards", set.Len()), nil)
				return nil
			}

			o.UserLogger.LogHazards(hazards)
			return errors.Errorf("%w: %d", ErrHazards, len(hazards))
		},
	}
}
