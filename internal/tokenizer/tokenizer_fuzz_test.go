package tokenizer

import (
	"errors"
	"io"
	"testing"
)

// FuzzTokenizer checks that arbitrary input never panics and that every
// failure is a positioned lexical error inside the buffer bounds.
// Run with: go test -fuzz=FuzzTokenizer -fuzztime=30s ./internal/tokenizer
func FuzzTokenizer(f *testing.F) {
	seeds := []string{
		"",
		"[",
		"]",
		"[]",
		"[]\n",
		"[a][b]\n[c]\n",
		"[a\\]]\n",
		"[a\\\\]\n",
		"[a]\n\n",
		"[a]1[b]1",
		"\\",
		"[\\",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		tok := New(input)
		for i := 0; i <= len(input)+1; i++ {
			token, err := tok.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				var lexErr *Error
				if !errors.As(err, &lexErr) {
					t.Fatalf("non-lexical error %v", err)
				}
				if lexErr.Pos < 0 || lexErr.Pos > len(input) {
					t.Fatalf("error position %d outside input of length %d", lexErr.Pos, len(input))
				}
				return
			}
			if token.Kind == KindField && token.Pos+len(token.Value) > len(input) {
				t.Fatalf("field %v exceeds input", token)
			}
		}
		t.Fatalf("tokenizer did not terminate on %q", input)
	})
}
