// Package buildinfo exposes version metadata injected at link time:
//
//	go build -ldflags "-X github.com/agentfree/sessionkit/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build metadata block printed by every binary on
// startup.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}

// UserAgent identifies outbound HTTP probes.
func UserAgent(component string) string {
	return fmt.Sprintf("sessionkit-%s/%s", component, Version)
}
