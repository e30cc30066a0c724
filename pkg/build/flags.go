// SPDX-License-Identifier: MIT
//
// Package build provides functionality to manage and retrieve build
// information for the application. It allows embedding metadata such as
// the application name, build timestamp, Git commit hash, semantic
// version and a unique build identifier into the binary at compile time
// using linker flags, for example:
//
//	go build -ldflags "-X harp/pkg/build.buildName=harp -X harp/pkg/build.buildVersion=0.1.0 ..."
//
// This information is surfaced by the version command and the version
// endpoint.
package build

import "fmt"

type ldFlags struct {
	Name    string // Application name
	Time    string // Build timestamp (RFC3339)
	Commit  string // Git commit hash
	Version string // Semantic version
	Uuid    string // Unique build identifier
}

// Package-level variables for build information. These are populated by
// -ldflags during compilation. Default values of "unknown" are used
// during development.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildUuid    string
	buildFlags   = &ldFlags{
		Name:    "unknown",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "unknown",
		Uuid:    "unknown",
	}
)

// Initialize validates and copies build information from ldflags
// variables into the buildFlags struct. This should be called early in
// program startup. Returns an error if any required build flag is
// missing; development builds can ignore it and run with the "unknown"
// defaults.
func Initialize() error {
	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}
	if buildUuid == "" {
		return fmt.Errorf("BuildUuid is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion
	buildFlags.Uuid = buildUuid

	return nil
}

// GetBuildFlags returns the current build information. Initialize()
// should be called first; afterwards this is safe to call from any
// goroutine.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
