package qvs20

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

// Buffer pool for marshaling to reduce allocations
var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// getBuffer retrieves a buffer from the pool.
func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool.
func putBuffer(buf *bytes.Buffer) {
	// Only return reasonably sized buffers to the pool
	if buf.Cap() < 64*1024 {
		bufferPool.Put(buf)
	}
}

// Marshal returns the QVS20 encoding of table. The table must satisfy
// Table.Validate; Parse of the result returns an equal table.
//
// Example:
//
//	data, err := qvs20.Marshal(table)
func Marshal(table *types.Table) ([]byte, error) {
	return MarshalWithOptions(table, DefaultWriterOptions())
}

// MarshalWithOptions is Marshal with custom options.
func MarshalWithOptions(table *types.Table, opts WriterOptions) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := MarshalToWithOptions(buf, table, opts); err != nil {
		return nil, err
	}

	// Copy since the buffer goes back to the pool
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// MarshalTo writes the QVS20 encoding of table to w.
func MarshalTo(w io.Writer, table *types.Table) error {
	return MarshalToWithOptions(w, table, DefaultWriterOptions())
}

// MarshalToWithOptions is MarshalTo with custom options. Nothing is written
// when the table is invalid.
func MarshalToWithOptions(w io.Writer, table *types.Table, opts WriterOptions) error {
	if table == nil {
		return fmt.Errorf("qvs20: Marshal(nil)")
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("qvs20: %w", err)
	}
	tw, err := NewWriterWithOptions(w, table, opts)
	if err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := tw.WriteRow(row); err != nil {
			return err
		}
	}
	return tw.Close()
}

// MarshalString is Marshal returning a string.
func MarshalString(table *types.Table) (string, error) {
	data, err := Marshal(table)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
