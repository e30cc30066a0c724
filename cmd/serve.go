// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"harp/internal/log"
	"harp/internal/server"
)

type serveOptions struct {
	root *rootOptions

	address string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{root: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trainer REST API and websocket endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.address, "address", "", "Listen address (default from config)")
	return cmd
}

func runServe(opts *serveOptions) error {
	cfg := opts.root.cfg
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}

	srv := server.New(cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-done:
		log.Infof("received %s", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownGraceSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}
