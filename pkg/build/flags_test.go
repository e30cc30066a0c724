// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origUuid    string
	origFlags   ldFlags
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	origUuid = buildUuid
	if buildFlags != nil {
		origFlags = *buildFlags
	}

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	buildUuid = origUuid
	if buildFlags != nil {
		*buildFlags = origFlags
	}

	os.Exit(exitCode)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildTime   string
		buildCommit string
		buildVer    string
		buildUuid   string
		wantErrMsg  string
	}{
		{
			"Missing BuildName",
			"",
			"2025-08-25",
			"abcdef123",
			"v0.1.0",
			"b0a7c0de",
			"BuildName is required",
		},
		{
			"Missing BuildTime",
			"harp",
			"",
			"abcdef123",
			"v0.1.0",
			"b0a7c0de",
			"BuildTime is required",
		},
		{
			"Missing BuildCommit",
			"harp",
			"2025-08-25",
			"",
			"v0.1.0",
			"b0a7c0de",
			"BuildCommit is required",
		},
		{
			"Missing BuildVersion",
			"harp",
			"2025-08-25",
			"abcdef123",
			"",
			"b0a7c0de",
			"BuildVersion is required",
		},
		{
			"Missing BuildUuid",
			"harp",
			"2025-08-25",
			"abcdef123",
			"v0.1.0",
			"",
			"BuildUuid is required",
		},
		{
			"Success Case",
			"harp",
			"2025-08-25",
			"abcdef123",
			"v0.1.0",
			"b0a7c0de",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildFlags = &ldFlags{
				Name:    "unknown",
				Time:    "unknown",
				Commit:  "unknown",
				Version: "unknown",
				Uuid:    "unknown",
			}

			buildName = tt.buildName
			buildTime = tt.buildTime
			buildCommit = tt.buildCommit
			buildVersion = tt.buildVer
			buildUuid = tt.buildUuid

			err := Initialize()

			if tt.wantErrMsg != "" {
				if err == nil {
					t.Errorf("Initialize() expected error, got nil")
					return
				}
				if err.Error() != tt.wantErrMsg {
					t.Errorf("Initialize() error = %v, want %v", err, tt.wantErrMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("Initialize() unexpected error: %v", err)
				return
			}

			if buildFlags.Name != tt.buildName {
				t.Errorf("buildFlags.Name = %v, want %v", buildFlags.Name, tt.buildName)
			}
			if buildFlags.Time != tt.buildTime {
				t.Errorf("buildFlags.Time = %v, want %v", buildFlags.Time, tt.buildTime)
			}
			if buildFlags.Commit != tt.buildCommit {
				t.Errorf("buildFlags.Commit = %v, want %v", buildFlags.Commit, tt.buildCommit)
			}
			if buildFlags.Version != tt.buildVer {
				t.Errorf("buildFlags.Version = %v, want %v", buildFlags.Version, tt.buildVer)
			}
			if buildFlags.Uuid != tt.buildUuid {
				t.Errorf("buildFlags.Uuid = %v, want %v", buildFlags.Uuid, tt.buildUuid)
			}
		})
	}
}

func TestGetBuildFlags(t *testing.T) {
	expected := ldFlags{
		Name:    "harp",
		Time:    "2025-08-25",
		Commit:  "abcdef123",
		Version: "v0.1.0",
		Uuid:    "b0a7c0de",
	}
	buildFlags = &expected

	flags := GetBuildFlags()

	if flags.Name != expected.Name ||
		flags.Time != expected.Time ||
		flags.Commit != expected.Commit ||
		flags.Version != expected.Version ||
		flags.Uuid != expected.Uuid {
		t.Errorf("GetBuildFlags() = %+v, want %+v", flags, expected)
	}
}
