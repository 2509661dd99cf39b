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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/textenc"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes raw config bytes. dir is the directory of the file.
	Parse(ctx context.Context, data []byte, dir string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 RuleConfig is one replacement rule as written in a config file
type RuleConfig struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Scope       string `json:"scope,omitempty" yaml:"scope,omitempty"`             // content (default) or line
	Anchor      string `json:"anchor,omitempty" yaml:"anchor,omitempty"`           // required for line scope
	ReplaceLine bool   `json:"replace_line,omitempty" yaml:"replace_line,omitempty"` // swap the whole anchored line
	Files       string `json:"files,omitempty" yaml:"files,omitempty"`             // doublestar glob, root relative
}

// 📚 Config represents the complete configuration
type Config struct {
	Roots      []string     `json:"roots,omitempty" yaml:"roots,omitempty"`           // directories to walk, relative to the config file
	Extensions []string     `json:"extensions,omitempty" yaml:"extensions,omitempty"` // file name filter, empty means all files
	Encoding   string       `json:"encoding,omitempty" yaml:"encoding,omitempty"`     // IANA charset, default utf-8
	Workers    int          `json:"workers,omitempty" yaml:"workers,omitempty"`       // concurrent files, default 1
	Rules      []RuleConfig `json:"rules" yaml:"rules"`

	location string
}

// 🎯 Load loads and validates the configuration file at path
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	dir := filepath.Dir(path)
	cfg, err := p.Parse(ctx, data, dir)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	for i, root := range cfg.Roots {
		if !filepath.IsAbs(root) {
			cfg.Roots[i] = filepath.Join(dir, root)
		}
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{dir}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Strs("roots", cfg.Roots).Int("rules", len(cfg.Rules)).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if len(cfg.Rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative")
	}

	for i, r := range cfg.Rules {
		if _, err := rules.ParseScope(r.Scope); err != nil {
			return errors.Errorf("rules[%d]: %w", i, err)
		}
	}

	if _, err := textenc.Lookup(cfg.Encoding); err != nil {
		return errors.Errorf("encoding: %w", err)
	}

	for i, root := range cfg.Roots {
		cfg.Roots[i] = filepath.Clean(root)
	}
	for i, ext := range cfg.Extensions {
		cfg.Extensions[i] = strings.TrimSpace(ext)
	}

	if cfg.Encoding == "" {
		cfg.Encoding = textenc.DefaultName
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	return nil
}

// RuleSet builds the validated rule set. Errors wrap rules.ErrConfiguration.
func (cfg *Config) RuleSet() (*rules.RuleSet, error) {
	rs := make([]rules.Rule, 0, len(cfg.Rules))
	for i, r := range cfg.Rules {
		scope, err := rules.ParseScope(r.Scope)
		if err != nil {
			return nil, errors.Errorf("rule %d: %w: %s", i, rules.ErrConfiguration, err.Error())
		}
		rs = append(rs, rules.Rule{
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Scope:       scope,
			Anchor:      r.Anchor,
			ReplaceLine: r.ReplaceLine,
			Files:       r.Files,
		})
	}

	set, err := rules.New(rs...)
	if err != nil {
		return nil, errors.Errorf("building rules from %s: %w", cfg.Location(), err)
	}
	return set, nil
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	if cfg.location == "" {
		return "flags"
	}
	return cfg.location
}

// Path returns the file the config was loaded from, or "" when it was built
// from flags
func (cfg *Config) Path() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d rules over %s (%s)", len(cfg.Rules), strings.Join(cfg.Roots, ", "), cfg.Encoding)
}
