package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fluorine-dev/fluorine/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		address string
		cells   int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live spreadsheet",
		Long: `Serve the spreadsheet as a web page with live updates.

Every connected browser edits the same sheet; a patch is pushed to a
session only when its view actually changed. Prometheus metrics are
exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(&server.ServerConfig{
				Address:   address,
				SheetSize: cells,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", ":8080", "listen address")
	cmd.Flags().IntVarP(&cells, "cells", "n", 4, "number of cells in the sheet")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}
