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
	"github.com/botobag/bookshelf/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// subCommand pairs a command with the configuration read from its flags, the environment and the
// config file.
type subCommand struct {
	Cmd  *cobra.Command
	Conf *viper.Viper
}

// Load returns the validated configuration of the command.
func (sc *subCommand) Load() (config.Config, error) {
	return config.Load(sc.Conf, sc.Conf.GetString("config"))
}

func newRootCommand() *cobra.Command {
	defaults := config.Default()

	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "bookshelf: a GraphQL API serving a list of books",
		Long: `
bookshelf serves a fixed list of books through a GraphQL endpoint. Browsers visiting the endpoint
get GraphiQL, an in-browser IDE to explore the schema and run queries.

Running bookshelf without a subcommand is the same as running "bookshelf serve".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	flags.String(config.KeyLogLevel, defaults.LogLevel,
		"Log level, one of [debug, info, warn, error]")
	flags.String(config.KeyLogFormat, defaults.LogFormat,
		"Log format, one of [console, json]")

	subcommands := []*subCommand{
		newServeCommand(),
		newSchemaCommand(),
		newBooksCommand(),
	}
	for _, sc := range subcommands {
		root.AddCommand(sc.Cmd)
		sc.Conf = config.NewViper()
		sc.Conf.BindPFlags(sc.Cmd.Flags())
		sc.Conf.BindPFlags(root.PersistentFlags())
	}

	// Without a subcommand, the root command serves.
	rootCmd := &subCommand{
		Cmd:  root,
		Conf: config.NewViper(),
	}
	addServeFlags(root.Flags())
	rootCmd.Conf.BindPFlags(root.Flags())
	rootCmd.Conf.BindPFlags(root.PersistentFlags())
	root.RunE = rootCmd.serve

	return root
}

func checkNoArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.Errorf("%s: unexpected arguments %q", cmd.CommandPath(), args)
	}
	return nil
}
