// SPDX-License-Identifier: MIT
// Package cmd implements the harp command line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"harp/internal/config"
	"harp/internal/log"
	"harp/pkg/build"
)

// rootOptions carries the persistent flags and the configuration every
// subcommand starts from.
type rootOptions struct {
	configPath string
	logLevel   string
	quiet      bool

	cfg *config.Config
}

// Execute parses the arguments and runs the selected command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	buildInfo := build.GetBuildFlags()
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "harp",
		Short:         "Harmonica bending trainer and pitch detection toolkit",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to a YAML config file (default: harp.yaml, config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false,
		"Only log errors")

	rootCmd.AddCommand(
		newAnalyzeCommand(opts),
		newSynthCommand(opts),
		newLayoutCommand(opts),
		newCompareCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

// load resolves the configuration and logger once per invocation,
// before any subcommand runs.
func (o *rootOptions) load() error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	if parsed, ok := log.ParseLevel(level); ok {
		log.SetLevel(parsed)
	}
	if o.quiet {
		log.SetLevel(log.LevelError)
	}
	return nil
}
