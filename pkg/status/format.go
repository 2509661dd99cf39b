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
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/rewriterc/pkg/rewrite"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 50 // base width for the file path
	statusWidth = 15 // width for status text
)

// 🎯 FormatFileResult formats a single file outcome for display
func FormatFileResult(res rewrite.FileResult, dryRun bool) string {
	var prefix, status, detail string
	switch {
	case res.Err != nil:
		prefix = color.RedString("✗")
		status = string(res.Err.Kind) + " error"
		detail = res.Err.Err.Error()
	case res.Changed && dryRun:
		prefix = color.YellowString("~")
		status = "would update"
		detail = replacements(res.Replacements)
	case res.Changed:
		prefix = color.GreenString("⟳")
		status = "updated"
		detail = replacements(res.Replacements)
	default:
		prefix = color.HiBlackString("-")
		status = "unchanged"
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, res.Path)
	statusPart := fmt.Sprintf("%-*s", statusWidth, status)

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		statusPart,
		detail,
	), " ")
}

func replacements(n int) string {
	if n == 1 {
		return "1 replacement"
	}
	return fmt.Sprintf("%d replacements", n)
}

// 🖍️ ColorizeDiff colors the added and removed lines of a unified diff
func ColorizeDiff(diff string) string {
	if diff == "" {
		return ""
	}
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(color.CyanString("%s", line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(color.RedString("%s", line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
