package csvsource

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

func TestSniffComma(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{"empty", "", ','},
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"semicolon", "a;b\r\n1;2\r\n", ';'},
		{"pipe", "a|b|c\n1|2|3", '|'},
		{"quoted commas ignored", "a;b\n\"x,y,z\";2\n", ';'},
		{"consistent beats frequent", "a;b,c,d\n1;2\n", ';'},
		{"no separator", "single\ncolumn\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(SniffComma([]byte(tt.sample))))
		})
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   types.DataType
	}{
		{"integers", []string{"1", "-20", "300"}, types.TypeInteger},
		{"integer with empty", []string{"1", ""}, types.TypeFloat},
		{"floats", []string{"1.5", "2", "1e3"}, types.TypeFloat},
		{"bools", []string{"true", "false", ""}, types.TypeBool},
		{"dates", []string{"2024-01-31", ""}, types.TypeDate},
		{"times", []string{"10:00:00", "23:59:59.5"}, types.TypeTime},
		{"datetimes", []string{"2024-01-31T10:00:00Z", "2024-02-01T00:00:00+02:00"}, types.TypeDateTime},
		{"mixed", []string{"1", "x"}, types.TypeString},
		{"all empty", []string{"", ""}, types.TypeString},
		{"none", nil, types.TypeString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.String(), InferType(tt.values).String())
		})
	}
}
