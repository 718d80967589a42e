// Package cli carries version information shared by the exalt command-line
// tools.
package cli

import (
	"fmt"
	"runtime"
)

// Version information, overridable at build time.
var (
	Version   = "0.1.0"
	CommitSHA = "unknown"
)

// PrintVersion writes version information for one tool in a consistent
// format.
func PrintVersion(toolName string) {
	fmt.Printf("%s v%s (%s)\n", toolName, Version, CommitSHA)
	fmt.Printf("  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
