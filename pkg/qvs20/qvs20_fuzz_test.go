package qvs20

import (
	"testing"
)

// FuzzParse checks that every table Parse accepts survives a Marshal round
// trip. Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/qvs20
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"[",
		"[one]",
		fullTable,
		"[t]\n[String][String]\n[][]\n[x][x]\n",
		"[t]1[Integer][Float]1[][]1[a][b]1[-5][1e9]1",
		"[t]\n[String]\n[]\n[a]\n[\\\\]\n[\\q]\n",
		"[t]\n[Date][Time][DateTime][Decimal][Bool]\n[][][][][]\n[a][b][c][d][e]\n[2024-02-29][23:59:59.5][2024-02-29T23:59:59Z][-1.5][false]\n",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		table, err := Parse(data)
		if err != nil {
			return
		}
		out, err := Marshal(table)
		if err != nil {
			t.Fatalf("Marshal of a parsed table failed: %v", err)
		}
		back, err := Parse(out)
		if err != nil {
			t.Fatalf("Parse of marshaled output failed: %v\n%q", err, out)
		}
		if !table.Equal(back) {
			t.Fatalf("round trip changed the table:\n%q\n%q", data, out)
		}
	})
}
