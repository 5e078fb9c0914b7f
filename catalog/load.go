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

package catalog

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a seed file.
type Format int

// Enumeration of Format
const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// FormatOf determines the seed file format from the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatUnknown
}

// Load reads a seed file and builds a Catalog from it. The file contains a list of objects with
// "title" and "author" keys; its format is determined by FormatOf.
func Load(path string) (*Catalog, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, errors.Errorf("catalog: unsupported seed file %q (want .yaml, .yml or .json)", path)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: read seed file")
	}

	c, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: load %s", path)
	}
	return c, nil
}

// Decode builds a Catalog from seed data in the given format.
func Decode(data []byte, format Format) (*Catalog, error) {
	var books []Book

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&books); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "decode yaml")
		}

	case FormatJSON:
		if len(bytes.TrimSpace(data)) > 0 {
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &books); err != nil {
				return nil, errors.Wrap(err, "decode json")
			}
		}

	default:
		return nil, errors.Errorf("unsupported format %s", format)
	}

	return New(books...), nil
}

// Encode writes the books in c as JSON.
func Encode(c *Catalog) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(c.books, "", "  ")
}
