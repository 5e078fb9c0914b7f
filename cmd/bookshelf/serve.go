/**
 * Copyright (c) 2026, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/botobag/bookshelf/internal/app"
	"github.com/botobag/bookshelf/internal/config"
	"github.com/botobag/bookshelf/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newServeCommand() *subCommand {
	sc := &subCommand{}
	sc.Cmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL API server",
		Long: `
Run the GraphQL API server. The server listens on port 4000 of all interfaces by default, serves
http://localhost:4000/graphql and stops on SIGINT or SIGTERM.`,
		Args: checkNoArgs,
		RunE: sc.serve,
	}
	addServeFlags(sc.Cmd.Flags())
	return sc
}

// addServeFlags registers the flags of serve. The root command has them too since it serves by
// default.
func addServeFlags(flags *pflag.FlagSet) {
	defaults := config.Default()
	flags.String(config.KeyHost, defaults.Host, "Host to listen on; all interfaces when empty")
	flags.IntP(config.KeyPort, "p", defaults.Port, "Port to listen on")
	flags.String(config.KeyPath, defaults.Path, "Path of the GraphQL endpoint")
	flags.Bool(config.KeyGraphiQL, defaults.GraphiQL, "Serve GraphiQL to browsers")
	flags.String(config.KeyCatalog, defaults.CatalogFile,
		"YAML or JSON file with the books to serve instead of the built-in ones")
	flags.Bool(config.KeyMetrics, defaults.Metrics, "Expose Prometheus metrics at /metrics")
}

// serve runs the server with the configuration of sc until SIGINT or SIGTERM.
func (sc *subCommand) serve(cmd *cobra.Command, args []string) error {
	cfg, err := sc.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := app.New(cfg, logger, app.NewRegistry())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Start(ctx, nil)
}
