// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textenc converts file bytes to rewritable text and back.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultName is used when no encoding is configured
const DefaultName = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 🔤 Codec decodes and encodes file content in one character encoding
type Codec struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

// 🎯 Lookup resolves an IANA charset name. The empty name is UTF-8.
func Lookup(name string) (*Codec, error) {
	name = strings.TrimSpace(name)
	if name == "" || isUTF8(name) {
		return &Codec{name: DefaultName}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Errorf("looking up encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, errors.Errorf("encoding %q is not supported", name)
	}

	return &Codec{name: displayName(enc, name), enc: enc}, nil
}

// displayName prefers the MIME name ("ISO-8859-1") over the IANA primary
// name ("ISO_8859-1:1987").
func displayName(enc encoding.Encoding, fallback string) string {
	if n, err := ianaindex.MIME.Name(enc); err == nil && n != "" {
		return n
	}
	if n, err := ianaindex.IANA.Name(enc); err == nil && n != "" {
		return n
	}
	return fallback
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

// Name returns the canonical encoding name
func (c *Codec) Name() string {
	return c.name
}

// 📖 Decoded is file text plus what Encode needs to restore the original framing
type Decoded struct {
	Text string
	bom  bool
}

// Decode converts raw file bytes to text. For UTF-8, invalid sequences are an
// error and a leading byte-order mark is held aside so rules never see it.
func (c *Codec) Decode(raw []byte) (Decoded, error) {
	if c.enc == nil {
		bom := bytes.HasPrefix(raw, utf8BOM)
		if bom {
			raw = raw[len(utf8BOM):]
		}
		if !utf8.Valid(raw) {
			return Decoded{}, errors.Errorf("content is not valid %s", c.name)
		}
		return Decoded{Text: string(raw), bom: bom}, nil
	}

	out, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return Decoded{}, errors.Errorf("decoding %s: %w", c.name, err)
	}
	return Decoded{Text: string(out)}, nil
}

// Encode converts text back to bytes, restoring a UTF-8 BOM if Decode saw one.
// Characters the target encoding cannot represent are an error.
func (c *Codec) Encode(d Decoded) ([]byte, error) {
	if c.enc == nil {
		if !d.bom {
			return []byte(d.Text), nil
		}
		out := make([]byte, 0, len(utf8BOM)+len(d.Text))
		out = append(out, utf8BOM...)
		return append(out, d.Text...), nil
	}

	out, err := c.enc.NewEncoder().Bytes([]byte(d.Text))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", c.name, err)
	}
	return out, nil
}

// WithText returns a copy of d holding text, keeping d's framing.
func (d Decoded) WithText(text string) Decoded {
	d.Text = text
	return d
}
