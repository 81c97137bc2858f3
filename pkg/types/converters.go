package types

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Textual layouts of the date and time types.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05.999999999"
	DateTimeLayout = time.RFC3339Nano
)

// Converter validates the wire text of one DataType and converts it to a
// native Go value.
type Converter interface {
	// Check reports whether raw is valid text for the type.
	Check(raw []byte) error
	// Native converts raw into the type's Go representation.
	Native(raw []byte) (interface{}, error)
}

// ConverterFunc adapts a conversion function to the Converter interface.
// Check runs the conversion and discards the result.
type ConverterFunc func(raw []byte) (interface{}, error)

// Check implements Converter.
func (f ConverterFunc) Check(raw []byte) error {
	_, err := f(raw)
	return err
}

// Native implements Converter.
func (f ConverterFunc) Native(raw []byte) (interface{}, error) {
	return f(raw)
}

var converters = map[DataType]Converter{
	TypeString: ConverterFunc(func(raw []byte) (interface{}, error) {
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("invalid UTF-8 text")
		}
		return string(raw), nil
	}),
	TypeInteger: ConverterFunc(func(raw []byte) (interface{}, error) {
		return strconv.ParseInt(string(raw), 10, 64)
	}),
	TypeDecimal: nullable(func(s string) (interface{}, error) {
		return decimal.NewFromString(s)
	}),
	TypeFloat: nullable(func(s string) (interface{}, error) {
		return strconv.ParseFloat(s, 64)
	}),
	TypeBool: nullable(func(s string) (interface{}, error) {
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("cannot convert %q to Bool", s)
	}),
	TypeDate: nullable(func(s string) (interface{}, error) {
		return time.Parse(DateLayout, s)
	}),
	TypeTime: nullable(func(s string) (interface{}, error) {
		return time.Parse(TimeLayout, s)
	}),
	TypeDateTime: nullable(func(s string) (interface{}, error) {
		return time.Parse(DateTimeLayout, s)
	}),
	TypeTable: ConverterFunc(func(raw []byte) (interface{}, error) {
		return append([]byte{}, raw...), nil
	}),
}

// nullable wraps a text conversion so that an empty field converts to nil.
func nullable(fn func(s string) (interface{}, error)) ConverterFunc {
	return func(raw []byte) (interface{}, error) {
		if len(raw) == 0 {
			return nil, nil
		}
		return fn(string(raw))
	}
}

// ConverterFor returns the converter of dt.
func ConverterFor(dt DataType) (Converter, bool) {
	c, ok := converters[dt]
	return c, ok
}

// ParseText builds the Value for unescaped field text of type dt.
func ParseText(dt DataType, raw []byte) (Value, error) {
	conv, ok := converters[dt]
	if !ok {
		return Value{}, fmt.Errorf("invalid data type %d", dt)
	}
	switch dt {
	case TypeString:
		s, err := conv.Native(raw)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s.(string)), nil
	case TypeInteger:
		n, err := conv.Native(raw)
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %q to Integer: %w", raw, err)
		}
		return IntegerValue(n.(int64)), nil
	default:
		if err := conv.Check(raw); err != nil {
			return Value{}, fmt.Errorf("%s: %w", dt, err)
		}
		return BytesValue(raw), nil
	}
}

// CheckValue reports whether v is an acceptable value for a column of type dt.
func CheckValue(dt DataType, v Value) error {
	if !v.CompatibleWith(dt) {
		return fmt.Errorf("%s value in %s column", v.Kind(), dt)
	}
	switch dt {
	case TypeString:
		if s, _ := v.AsString(); !utf8.ValidString(s) {
			return fmt.Errorf("invalid UTF-8 text")
		}
		return nil
	case TypeInteger:
		return nil
	default:
		if err := converters[dt].Check(v.raw); err != nil {
			return fmt.Errorf("%s: %w", dt, err)
		}
		return nil
	}
}

// Native converts v to the Go value of dt: string, int64, decimal.Decimal,
// float64, bool, time.Time or []byte. Empty Bytes values convert to nil.
func (v Value) Native(dt DataType) (interface{}, error) {
	if err := CheckValue(dt, v); err != nil {
		return nil, err
	}
	switch dt {
	case TypeString:
		return v.str, nil
	case TypeInteger:
		return v.num, nil
	default:
		return converters[dt].Native(v.raw)
	}
}

// DecimalValue returns the Decimal value of d.
func DecimalValue(d decimal.Decimal) Value {
	return Value{kind: KindBytes, raw: []byte(d.String())}
}

// ParseDecimalValue validates s as a decimal literal.
func ParseDecimalValue(s string) (Value, error) {
	return ParseText(TypeDecimal, []byte(s))
}

// FloatValue returns the Float value of f.
func FloatValue(f float64) Value {
	return Value{kind: KindBytes, raw: strconv.AppendFloat(nil, f, 'g', -1, 64)}
}

// BoolValue returns the Bool value of b.
func BoolValue(b bool) Value {
	return Value{kind: KindBytes, raw: strconv.AppendBool(nil, b)}
}

// DateValue returns the Date value of t's calendar day.
func DateValue(t time.Time) Value {
	return Value{kind: KindBytes, raw: t.AppendFormat(nil, DateLayout)}
}

// TimeValue returns the Time value of t's clock time.
func TimeValue(t time.Time) Value {
	return Value{kind: KindBytes, raw: t.AppendFormat(nil, TimeLayout)}
}

// DateTimeValue returns the DateTime value of t.
func DateTimeValue(t time.Time) Value {
	return Value{kind: KindBytes, raw: t.AppendFormat(nil, DateTimeLayout)}
}

// NullValue returns the empty Bytes value, valid in every column that is not
// String or Integer.
func NullValue() Value {
	return Value{kind: KindBytes, raw: []byte{}}
}
