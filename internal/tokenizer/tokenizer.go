package tokenizer

import (
	"io"
	"iter"
)

// Tokenizer produces tokens from an immutable byte buffer.
//
// It never copies the input: field tokens are sub-slices of it. A Tokenizer is
// not safe for concurrent use, but independent Tokenizers over independent
// buffers are.
type Tokenizer struct {
	input []byte
	state CursorState
	pos   int
	err   error
}

// New creates a Tokenizer over input. The caller must not modify input while
// the Tokenizer or any token it produced is in use.
func New(input []byte) *Tokenizer {
	return &Tokenizer{input: input, state: StartOfField}
}

// State returns the current cursor state.
func (t *Tokenizer) State() CursorState {
	return t.state
}

// Pos returns the current byte offset.
func (t *Tokenizer) Pos() int {
	return t.pos
}

// Input returns the buffer being scanned.
func (t *Tokenizer) Input() []byte {
	return t.input
}

// Next returns the next token. It returns io.EOF after the final row
// delimiter, or immediately for empty input. A lexical error is terminal:
// every later call returns the same *Error.
func (t *Tokenizer) Next() (Token, error) {
	if t.err != nil {
		return Token{}, t.err
	}
	if len(t.input) == 0 {
		t.state = EndOfFile
	}
	for {
		if t.state == EndOfFile {
			return Token{}, io.EOF
		}
		tr, err := step(t.state, t.input, t.pos)
		if err != nil {
			t.err = err
			return Token{}, err
		}
		t.state, t.pos = tr.state, tr.pos
		if tr.emit {
			return tr.token, nil
		}
	}
}

// All returns the remaining tokens as a sequence. Iteration stops after the
// first error, which is yielded with a zero Token.
func (t *Tokenizer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := t.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// transition is the outcome of one step of the state machine.
type transition struct {
	state CursorState
	pos   int
	token Token
	emit  bool
}

// step advances the state machine by one transition from state at pos.
// It is a pure function of its arguments.
func step(state CursorState, input []byte, pos int) (transition, error) {
	switch state {
	case StartOfField:
		if pos >= len(input) || input[pos] != FieldStart {
			return transition{}, errAt(pos, ErrNoFieldStart)
		}
		pos++
		if pos >= len(input) {
			return transition{}, errAt(pos, ErrPrematureEndOfFile)
		}
		return transition{state: InsideOfField, pos: pos}, nil

	case InsideOfField:
		start := pos
		for i := pos; i < len(input); {
			switch input[i] {
			case EscapeByte:
				// an escape always spans two bytes; only a lone trailing
				// backslash or an escaped final ']' ends the input early
				if i+1 >= len(input) || (i+2 == len(input) && input[i+1] == FieldEnd) {
					return transition{}, errAt(len(input), ErrPrematureEndOfFile)
				}
				i += 2
			case FieldEnd:
				return transition{
					state: OutsideOfField,
					pos:   i + 1,
					token: Field(input[start:i:i], start),
					emit:  true,
				}, nil
			default:
				i++
			}
		}
		return transition{}, errAt(start, ErrNoFieldEnd)

	case OutsideOfField:
		if pos >= len(input) {
			return transition{}, errAt(pos, ErrNoLastRowDelimiter)
		}
		if input[pos] == FieldStart {
			return transition{state: StartOfField, pos: pos}, nil
		}
		return transition{state: InsideRowDelimiter, pos: pos}, nil

	case InsideRowDelimiter:
		tok := RowDelimiter(input[pos], pos)
		if pos+1 >= len(input) {
			return transition{state: EndOfFile, pos: pos + 1, token: tok, emit: true}, nil
		}
		if input[pos+1] == FieldStart {
			return transition{state: StartOfField, pos: pos + 1, token: tok, emit: true}, nil
		}
		return transition{}, errAt(pos, ErrRowDelimiterMoreThan1Byte)

	default:
		return transition{state: EndOfFile, pos: pos}, nil
	}
}
