package csvsource

import (
	"bytes"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

// candidates are the separators SniffComma chooses from, in order of
// preference on equal scores.
var candidates = []rune{',', '\t', ';', '|'}

// SniffComma guesses the field separator of a CSV sample. Separators inside
// quotes are not counted. A separator found the same number of times on
// every line scores ten times higher than one whose count varies. The
// default is ','.
func SniffComma(sample []byte) rune {
	var lines [][]byte
	for _, line := range bytes.Split(sample, []byte("\n")) {
		if line = bytes.TrimSuffix(line, []byte("\r")); len(line) > 0 {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ','
	}

	best, bestScore := ',', 0
	for _, c := range candidates {
		first := countOutsideQuotes(lines[0], c)
		if first == 0 {
			continue
		}
		score := first * 10
		for _, line := range lines[1:] {
			if countOutsideQuotes(line, c) != first {
				score = first
				break
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func countOutsideQuotes(line []byte, c rune) int {
	n := 0
	inQuotes := false
	for _, r := range string(line) {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == c && !inQuotes:
			n++
		}
	}
	return n
}

// inferOrder lists the types InferType tries, narrowest first.
var inferOrder = []types.DataType{
	types.TypeInteger,
	types.TypeFloat,
	types.TypeBool,
	types.TypeDate,
	types.TypeTime,
	types.TypeDateTime,
}

// InferType returns the first type of Integer, Float, Bool, Date, Time and
// DateTime that accepts every value, or String. Empty values are accepted by
// every type but Integer; a column without any non-empty value is a String.
func InferType(values []string) types.DataType {
	nonEmpty := false
	for _, v := range values {
		if v != "" {
			nonEmpty = true
			break
		}
	}
	if !nonEmpty {
		return types.TypeString
	}
	for _, dt := range inferOrder {
		if acceptsAll(dt, values) {
			return dt
		}
	}
	return types.TypeString
}

func acceptsAll(dt types.DataType, values []string) bool {
	for _, v := range values {
		if _, err := types.ParseText(dt, []byte(v)); err != nil {
			return false
		}
	}
	return true
}
