package main

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/aretw0/tourguide"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tourguide version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		writeVersion(cmd.OutOrStdout(), tourguide.Version, info)
	},
}

// writeVersion prints the release line followed by whatever the binary
// recorded about its build. info may be nil.
func writeVersion(w io.Writer, version string, info *debug.BuildInfo) {
	fmt.Fprintf(w, "tourguide version %s\n", strings.TrimSpace(version))
	if info == nil {
		return
	}
	fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
	if info.Main.Path != "" {
		fmt.Fprintf(w, "  module:   %s %s\n", info.Main.Path, info.Main.Version)
	}
	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision != "" {
		if modified == "true" {
			revision += " (dirty)"
		}
		fmt.Fprintf(w, "  revision: %s\n", revision)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
