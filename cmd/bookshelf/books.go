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
	"github.com/botobag/bookshelf/catalog"
	"github.com/botobag/bookshelf/internal/app"
	"github.com/botobag/bookshelf/internal/config"
	"github.com/spf13/cobra"
)

func newBooksCommand() *subCommand {
	sc := &subCommand{}
	sc.Cmd = &cobra.Command{
		Use:   "books",
		Short: "Print the books served by the server as JSON",
		Long: `
Print the books served by the server as JSON. Use it with --catalog to check a seed file.`,
		Args: checkNoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sc.Load()
			if err != nil {
				return err
			}

			books, err := app.LoadCatalog(cfg)
			if err != nil {
				return err
			}

			data, err := catalog.Encode(books)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			_, err = out.Write([]byte("\n"))
			return err
		},
	}

	sc.Cmd.Flags().String(config.KeyCatalog, "",
		"YAML or JSON file with the books to print instead of the built-in ones")

	return sc
}
