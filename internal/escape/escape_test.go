package escape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii", "one", "one"},
		{"multi-byte utf8", "čćšß€", "čćšß€"},
		{"all sequences", `1\[2\]3\\4\r5\n6\t`, "1[2]3\\4\r5\n6\t"},
		{"empty", "", ""},
		{"only escapes", `\\\\`, `\\`},
		{"unknown sequence", `a\qb`, "a?b"},
		{"trailing backslash", `ab\`, "ab"},
		{"escape at start", `\nx`, "\nx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Unescape([]byte(tt.input))))
		})
	}
}

func TestUnescape_NoAllocationWithoutBackslash(t *testing.T) {
	in := []byte("nothing to do")
	out := Unescape(in)
	assert.Same(t, &in[0], &out[0])
}

func TestUnescapeStrict(t *testing.T) {
	out, err := UnescapeStrict([]byte(`a\]b`))
	require.NoError(t, err)
	assert.Equal(t, "a]b", string(out))

	_, err = UnescapeStrict([]byte(`ab\x`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEscape))
	var seqErr *SequenceError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, 2, seqErr.Offset)
	assert.Equal(t, byte('x'), seqErr.Byte)
	assert.Equal(t, `unknown escape sequence \x at offset 2`, err.Error())

	_, err = UnescapeStrict([]byte(`ab\`))
	assert.True(t, errors.Is(err, ErrTrailingBackslash))
	assert.Equal(t, "backslash at end of field at offset 2", err.Error())
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"brackets", "[x]", `\[x\]`},
		{"backslash", `a\b`, `a\\b`},
		{"control bytes", "a\nb\rc\td", `a\nb\rc\td`},
		{"utf8 untouched", "€[", `€\[`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Escape([]byte(tt.input))))
			assert.Equal(t, tt.want, EscapeString(tt.input))
		})
	}
}

func TestEscape_ReturnsInputWhenClean(t *testing.T) {
	in := []byte("clean")
	out := Escape(in)
	assert.Same(t, &in[0], &out[0])
}

func TestAppendEscaped(t *testing.T) {
	dst := []byte("prefix:")
	dst = AppendEscaped(dst, []byte("a]b"))
	assert.Equal(t, `prefix:a\]b`, string(dst))
}

func TestNeedsEscape(t *testing.T) {
	assert.False(t, NeedsEscape([]byte("abc €")))
	for _, b := range []byte{'\\', '[', ']', '\n', '\r', '\t'} {
		assert.True(t, NeedsEscape([]byte{'a', b}), "byte %q", b)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		`\`,
		`\\`,
		"ends with backslash\\",
		"[nested]\n[table]\n",
		"\x00\xff binary",
	}
	for _, in := range inputs {
		assert.Equal(t, in, string(Unescape(Escape([]byte(in)))))
		out, err := UnescapeStrict(Escape([]byte(in)))
		require.NoError(t, err)
		assert.Equal(t, in, string(out))
	}
}

func TestEscapeOfUnescape(t *testing.T) {
	wellFormed := []string{`a\\b`, `\[\]`, `x\ny\rz\t`, "plain"}
	for _, in := range wellFormed {
		assert.Equal(t, in, string(Escape(Unescape([]byte(in)))))
	}
}
