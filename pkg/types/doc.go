// Package types defines the QVS20 data model: column data types, cell values,
// rows and the Table aggregate.
//
// A Table is built wholesale by the decoder or by a caller, and is read-only
// input to the encoder. Table.Validate checks every structural invariant the
// wire format relies on.
package types
