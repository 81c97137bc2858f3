package types

import (
	"fmt"
)

// DataType is the declared type of a column.
type DataType uint8

const (
	TypeString DataType = iota + 1
	TypeInteger
	TypeDecimal
	TypeFloat
	TypeBool
	TypeDate
	TypeTime
	TypeDateTime
	TypeTable
)

var dataTypeNames = [...]string{
	TypeString:   "String",
	TypeInteger:  "Integer",
	TypeDecimal:  "Decimal",
	TypeFloat:    "Float",
	TypeBool:     "Bool",
	TypeDate:     "Date",
	TypeTime:     "Time",
	TypeDateTime: "DateTime",
	TypeTable:    "Table",
}

// DataTypes lists every DataType in declaration order.
func DataTypes() []DataType {
	return []DataType{
		TypeString, TypeInteger, TypeDecimal, TypeFloat, TypeBool,
		TypeDate, TypeTime, TypeDateTime, TypeTable,
	}
}

// String returns the wire name of the type.
func (dt DataType) String() string {
	if dt.Valid() {
		return dataTypeNames[dt]
	}
	return fmt.Sprintf("DataType(%d)", dt)
}

// Valid reports whether dt is one of the declared types.
func (dt DataType) Valid() bool {
	return dt >= TypeString && dt <= TypeTable
}

// ParseDataType maps a wire name to its DataType. Matching is exact and
// case-sensitive.
func ParseDataType(name string) (DataType, error) {
	for _, dt := range DataTypes() {
		if dataTypeNames[dt] == name {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}

// Kind returns the Value variant that carries values of this type.
func (dt DataType) Kind() Kind {
	switch dt {
	case TypeString:
		return KindString
	case TypeInteger:
		return KindInteger
	default:
		return KindBytes
	}
}

// MarshalText implements encoding.TextMarshaler.
func (dt DataType) MarshalText() ([]byte, error) {
	if !dt.Valid() {
		return nil, fmt.Errorf("invalid data type %d", dt)
	}
	return []byte(dt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (dt *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
