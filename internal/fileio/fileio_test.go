package fileio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = "[t]\n[String]\n[]\n[name]\n[a]\n"

func TestReadWriteFile(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		compressed bool
	}{
		{"plain", "t.qvs20", false},
		{"zstd", "t.qvs20.zst", true},
		{"zstd upper case", "t.qvs20.ZST", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, WriteFile(path, []byte(doc), nil))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.compressed, bytes.HasPrefix(raw, zstdMagic))

			got, err := ReadFile(path, nil)
			require.NoError(t, err)
			assert.Equal(t, doc, string(got))
		})
	}
}

func TestStdio(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteFile(Stdio, []byte(doc), &out))
	assert.Equal(t, doc, out.String())

	got, err := ReadFile(Stdio, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestReadCompressedStdin(t *testing.T) {
	z, err := Compress([]byte(doc))
	require.NoError(t, err)
	got, err := ReadFile(Stdio, bytes.NewReader(z))
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadFile(filepath.Join(dir, "missing.qvs20"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "fake.zst")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err = ReadFile(path, nil)
	assert.ErrorContains(t, err, "not a zstd stream")

	bad := append(append([]byte{}, zstdMagic...), 0xff, 0xff, 0xff)
	require.NoError(t, os.WriteFile(path, bad, 0o644))
	_, err = ReadFile(path, nil)
	assert.Error(t, err)
}

func TestCompressed(t *testing.T) {
	assert.True(t, Compressed("a.zst"))
	assert.False(t, Compressed("a.qvs20"))
	assert.False(t, Compressed("-"))
}
