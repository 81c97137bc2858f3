// Package csvsource reads RFC 4180 records using Shape's tokenizer
// framework. It feeds the batch conversions that turn CSV exports into
// QVS20 tables.
package csvsource

// Token type constants for CSV input.
//
// The tokenizer emits character-level tokens; the reader decides where
// quoted fields begin and end.
const (
	TokenComma   = "Comma"   // field separator
	TokenDQuote  = "DQuote"  // quote delimiter
	TokenNewline = "Newline" // \n or \r\n
	TokenField   = "Field"   // run of any other characters
)
