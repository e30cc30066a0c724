// SPDX-License-Identifier: MIT
package main

import (
	"harp/cmd"
	"harp/internal/log"
	"harp/pkg/build"
)

func main() {
	// Release binaries carry their metadata in ldflags; development
	// builds run with the "unknown" defaults.
	if err := build.Initialize(); err != nil {
		log.Debugf("build info: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
