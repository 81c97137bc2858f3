package csvsource

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// newTokenizer creates a tokenizer over stream. Matchers are tried in
// order: newlines (CRLF before LF), the separator, the quote, and field
// content.
func newTokenizer(stream tokenizer.Stream, comma rune) tokenizer.Tokenizer {
	tok := tokenizer.NewTokenizerWithoutWhitespace(
		tokenizer.StringMatcherFunc(TokenNewline, "\r\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\n"),
		tokenizer.StringMatcherFunc(TokenComma, string(comma)),
		tokenizer.StringMatcherFunc(TokenDQuote, `"`),
		fieldContentMatcher(comma),
	)
	tok.InitializeFromStream(stream)
	return tok
}

// fieldContentMatcher matches runs of characters that are not the
// separator, a quote, CR or LF.
//
// Grammar:
//
//	Field = Character+ ;
//	Character = <any character except separator, quote, CR, LF> ;
func fieldContentMatcher(comma rune) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if comma < 128 {
			if byteStream, ok := stream.(tokenizer.ByteStream); ok {
				return fieldContentBytes(byteStream, byte(comma))
			}
		}
		return fieldContentRunes(stream, comma)
	}
}

// fieldContentBytes scans ASCII delimiters byte by byte.
func fieldContentBytes(stream tokenizer.ByteStream, comma byte) *tokenizer.Token {
	startPos := stream.BytePosition()
	for {
		b, ok := stream.PeekByte()
		if !ok || b == comma || b == '"' || b == '\n' || b == '\r' {
			break
		}
		stream.NextByte()
	}
	if stream.BytePosition() == startPos {
		return nil
	}
	return tokenizer.NewToken(TokenField, []rune(string(stream.SliceFrom(startPos))))
}

func fieldContentRunes(stream tokenizer.Stream, comma rune) *tokenizer.Token {
	var value []rune
	for {
		r, ok := stream.PeekChar()
		if !ok || r == comma || r == '"' || r == '\n' || r == '\r' {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}
	if len(value) == 0 {
		return nil
	}
	return tokenizer.NewToken(TokenField, value)
}
