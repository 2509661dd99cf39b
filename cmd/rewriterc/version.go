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

package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is stamped by release builds with -ldflags "-X main.version=v1.2.3"
var version string

// buildStamp identifies the running binary
type buildStamp struct {
	Version  string
	Revision string
	Dirty    bool
	Go       string
}

func readBuildStamp(bi *debug.BuildInfo, ok bool) buildStamp {
	s := buildStamp{Version: version, Go: runtime.Version()}
	if ok {
		if s.Version == "" && bi.Main.Version != "(devel)" {
			s.Version = bi.Main.Version
		}
		for _, kv := range bi.Settings {
			switch kv.Key {
			case "vcs.revision":
				s.Revision = kv.Value
			case "vcs.modified":
				s.Dirty = kv.Value == "true"
			}
		}
	}
	if s.Version == "" {
		s.Version = "dev"
	}
	return s
}

// String renders "rewriterc v1.2.3 (abc123def456-dirty) go1.23.5 linux/amd64"
func (s buildStamp) String() string {
	out := "rewriterc " + s.Version
	if rev := s.Revision; rev != "" {
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if s.Dirty {
			rev += "-dirty"
		}
		out += " (" + rev + ")"
	}
	return fmt.Sprintf("%s %s %s/%s", out, s.Go, runtime.GOOS, runtime.GOARCH)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), readBuildStamp(debug.ReadBuildInfo()).String())
		},
	}
}
