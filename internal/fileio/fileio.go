// Package fileio reads and writes whole QVS20 documents. The path "-" means
// standard input or output, and a ".zst" suffix compresses with zstd.
package fileio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Stdio is the path that selects standard input or output.
const Stdio = "-"

// Ext is the file extension of compressed documents.
const Ext = ".zst"

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Compressed reports whether path names a compressed document.
func Compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// ReadFile returns the content of path, or of stdin when path is "-".
// Compressed content is detected by its frame header and decompressed.
func ReadFile(path string, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	if path == Stdio {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, zstdMagic) {
		data, err = Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if Compressed(path) {
		return nil, fmt.Errorf("%s: not a zstd stream", path)
	}
	return data, nil
}

// WriteFile writes data to path, or to stdout when path is "-". Paths
// ending in ".zst" are compressed.
func WriteFile(path string, data []byte, stdout io.Writer) error {
	if Compressed(path) {
		var err error
		if data, err = Compress(data); err != nil {
			return err
		}
	}
	if path == Stdio {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Compress returns data as a single zstd frame.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
