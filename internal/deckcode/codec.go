// Package deckcode converts an ordered list of card ids to and from the
// shareable "FRY:" deck code.
//
// A deck code is the prefix followed by standard base64 of the UTF-8 JSON
// array of ids, e.g. FRY:WyJhMWIyYzMiLCJkNGU1ZjYiXQ==.
package deckcode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Prefix marks a string as a deck code.
const Prefix = "FRY:"

// ErrMalformed is returned by Decode for any input that is not a deck code.
var ErrMalformed = errors.New("deckcode: malformed deck code")

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)

// Encode returns the deck code for ids. Order and duplicates are kept.
// Decode(Encode(ids)) returns ids for valid UTF-8 ids; invalid bytes are
// replaced with U+FFFD.
func Encode(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding a []string cannot fail
	_ = enc.Encode(ids)
	body := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return Prefix + base64.StdEncoding.EncodeToString(body)
}

// Decode returns the ids carried by code. The prefix is optional so a bare
// base64 body pasted on its own still decodes. Every failure is reported as
// ErrMalformed and no partial result is returned.
func Decode(code string) ([]string, error) {
	body := strings.TrimPrefix(strings.TrimSpace(code), Prefix)
	raw, ok := decodeBase64(body)
	if !ok || !utf8.Valid(raw) {
		return nil, ErrMalformed
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, ErrMalformed
	}
	list, ok := v.([]any)
	if !ok {
		return nil, ErrMalformed
	}
	ids := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, ErrMalformed
		}
		ids = append(ids, s)
	}
	return ids, nil
}

// LooksLikeDeckCode reports whether value is worth handing to Decode: it
// carries the prefix, or it is a long run of base64 alphabet characters.
// Long alphanumeric search terms match too; callers fall back on a failed
// Decode.
func LooksLikeDeckCode(value string) bool {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(v, Prefix) {
		return true
	}
	return len(v) > 20 && base64Alphabet.MatchString(v)
}

// decodeBase64 follows the browser atob rules: ASCII whitespace is
// ignored and trailing padding is optional.
func decodeBase64(s string) ([]byte, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)
	if len(s)%4 == 0 {
		s = strings.TrimSuffix(s, "=")
		s = strings.TrimSuffix(s, "=")
	}
	if len(s)%4 == 1 {
		return nil, false
	}
	raw, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return raw, true
}
