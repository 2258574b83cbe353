package deckcode

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KnownShape(t *testing.T) {
	t.Parallel()

	want := Prefix + base64.StdEncoding.EncodeToString([]byte(`["a1b2c3","d4e5f6"]`))
	assert.Equal(t, want, Encode([]string{"a1b2c3", "d4e5f6"}))
}

func TestEncode_HasPrefix(t *testing.T) {
	t.Parallel()

	for _, ids := range [][]string{{"x"}, {"card-001", "card-002"}, {""}} {
		assert.True(t, strings.HasPrefix(Encode(ids), Prefix), "ids=%q", ids)
	}
}

func TestEncode_DoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	code := Encode([]string{"<a&b>"})
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(code, Prefix))
	require.NoError(t, err)
	assert.Equal(t, `["<a&b>"]`, string(raw))
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Prefix+base64.StdEncoding.EncodeToString([]byte("[]")), Encode(nil))
	ids, err := Decode(Encode(nil))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEncode_InvalidUTF8IsReplaced(t *testing.T) {
	t.Parallel()

	got, err := Decode(Encode([]string{"a\xffb"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a\ufffdb"}, got)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ids  []string
	}{
		{"empty", []string{}},
		{"single", []string{"a1b2c3"}},
		{"duplicates keep order", []string{"card-001", "card-002", "card-002"}},
		{"accented", []string{"carté-é1"}},
		{"mixed scripts", []string{"カード", "🂡", "ünïcödé", "plain"}},
		{"json metacharacters", []string{`quote"`, `back\slash`, "new\nline", "[", "]"}},
		{"uuids", []string{
			"5f0c7e1a-93f4-4c1d-9d0b-2a1f0e6b7c11",
			"0b8a3c4d-1e2f-4a5b-8c7d-9e0f1a2b3c4d",
			"5f0c7e1a-93f4-4c1d-9d0b-2a1f0e6b7c11",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(Encode(tt.ids))
			require.NoError(t, err)
			assert.Equal(t, tt.ids, got)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()

	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name string
		code string
	}{
		{"not base64", "not valid base64 !!!"},
		{"empty payload", "FRY:"},
		{"blank", "   "},
		{"numbers", Prefix + b64("[1,2,3]")},
		{"mixed element types", Prefix + b64(`["a",2]`)},
		{"nested array", Prefix + b64(`[["a"]]`)},
		{"object", Prefix + b64(`{"ids":["a"]}`)},
		{"bare string", Prefix + b64(`"a"`)},
		{"null", Prefix + b64("null")},
		{"broken json", Prefix + b64(`["a",`)},
		{"trailing data", Prefix + b64(`["a"] ["b"]`)},
		{"invalid utf8", Prefix + base64.StdEncoding.EncodeToString([]byte{'[', '"', 0xff, '"', ']'})},
		{"padding in middle", "FRY:WyJh=Il0="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ids, err := Decode(tt.code)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, ids)
		})
	}
}

func TestDecode_Lenient(t *testing.T) {
	t.Parallel()

	body := strings.TrimPrefix(Encode([]string{"a1b2c3", "d4e5f6"}), Prefix)
	want := []string{"a1b2c3", "d4e5f6"}

	tests := []struct {
		name string
		code string
	}{
		{"bare body", body},
		{"surrounding whitespace", "  \n" + Prefix + body + "\t "},
		{"missing padding", Prefix + strings.TrimRight(body, "=")},
		{"wrapped lines", Prefix + body[:8] + "\n" + body[8:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(tt.code)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLooksLikeDeckCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"FRY:abc", true},
		{"  FRY:abc  ", true},
		{"hello", false},
		{"", false},
		{"QUJDREVGR0hJSktMTU5PUFFSU1Q=", true},
		{strings.Repeat("A", 25), true},
		{strings.Repeat("A", 20), false},
		{"this has spaces in it and is long", false},
		{"user_name_that_is_very_long", false},
		{"LongAlphanumericUsername123", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeDeckCode(tt.value), "value=%q", tt.value)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add("card-001", "card-002")
	f.Add("carté-é1", "")
	f.Add(`"]`, " ")

	f.Fuzz(func(t *testing.T, a, b string) {
		if !utf8.ValidString(a) || !utf8.ValidString(b) {
			t.Skip()
		}
		ids := []string{a, b, a}
		got, err := Decode(Encode(ids))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != len(ids) {
			t.Fatalf("got %d ids, want %d", len(got), len(ids))
		}
		for i := range ids {
			if got[i] != ids[i] {
				t.Fatalf("id %d: got %q, want %q", i, got[i], ids[i])
			}
		}
	})
}
