package crates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-qvs20/internal/csvsource"
)

const cratesCSV = `created_at,description,documentation,downloads,homepage,id,max_upload_size,name,readme,repository,textsearchable_index_col,updated_at
2014-11-11,"A generic serialization framework",,100,,463,,serde,,https://github.com/serde-rs/serde,,2024-01-01
2015-02-03,"Random numbers, ""fast""",,50,,1103,,rand,,https://github.com/rust-random/rand,,2024-01-01
2020-05-05,,,0,,9001,,empty,,,,2024-01-01
`

const versionsCSV = `crate_id,crate_size,created_at,downloads,features,id,license,num,published_by,updated_at,yanked
463,1,x,1,{},1,MIT,1.0.9,,x,f
463,1,x,1,{},2,MIT,1.0.10,,x,f
463,1,x,1,{},3,MIT,2.0.0,,x,t
463,1,x,1,{},4,MIT,1.0.10-rc.1,,x,f
1103,1,x,1,{},5,MIT,0.8.5,,x,f
1103,1,x,1,{},6,MIT,not-a-version,,x,f
9001,1,x,1,{},7,MIT,0.1.0,,x,t
`

func TestLatestVersions(t *testing.T) {
	got, err := LatestVersions(strings.NewReader(versionsCSV))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"463":  "1.0.10",
		"1103": "0.8.5",
	}, got)
}

func TestLatestVersionsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing column", "crate_id,num\n1,1.0.0\n"},
		{"bad yanked", "crate_id,num,yanked\n1,1.0.0,maybe\n"},
		{"short record", "crate_id,num,yanked\n1,1.0.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LatestVersions(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := LatestVersions(strings.NewReader("crate_id,num\n"))
	assert.ErrorIs(t, err, csvsource.ErrMissingColumn)
}

func TestLatestVersionsEmpty(t *testing.T) {
	got, err := LatestVersions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConvert(t *testing.T) {
	var buf bytes.Buffer
	n, err := Convert(context.Background(), strings.NewReader(cratesCSV),
		map[string]string{"463": "1.0.10"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want := "[crates]\n" +
		"[String][String][String][String][String]\n" +
		"[][][][][]\n" +
		"[name][description][repository][id][last_version]\n" +
		"[serde][A generic serialization framework][https://github.com/serde-rs/serde][463][1.0.10]\n" +
		"[rand][Random numbers, \"fast\"][https://github.com/rust-random/rand][1103][0.0.0]\n" +
		"[empty][][][9001][0.0.0]\n"
	assert.Equal(t, want, buf.String())
}

func TestConvertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Convert(ctx, strings.NewReader(cratesCSV), nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild(t *testing.T) {
	table, err := Build(context.Background(), strings.NewReader(cratesCSV), strings.NewReader(versionsCSV))
	require.NoError(t, err)
	require.NoError(t, table.Validate())

	assert.Equal(t, TableName, table.Name)
	assert.Equal(t, Schema().ColumnNames, table.ColumnNames)
	require.Len(t, table.Rows, 3)

	last, ok := table.ColumnIndex("last_version")
	require.True(t, ok)
	versions := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		versions[i], _ = row.Values[last].AsString()
	}
	assert.Equal(t, []string{"1.0.10", "0.8.5", "0.0.0"}, versions)
}

func TestBuildWithoutCrates(t *testing.T) {
	table, err := Build(context.Background(), strings.NewReader(""), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.True(t, Schema().Equal(table))
}
