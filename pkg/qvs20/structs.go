package qvs20

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

// MarshalStructs returns the QVS20 encoding of v, which must be a slice (or
// pointer to a slice) of structs or of pointers to structs. Each exported
// field becomes a column in declaration order and each element a row; nil
// elements are skipped.
//
// The column of a field is customized by the "qvs20" key in its tag:
//
//	// Column "name" of the default type for the field
//	Name string `qvs20:"name"`
//
//	// Column "born" of type Date with additional property "birthday"
//	Born time.Time `qvs20:"born,type=Date,prop=birthday"`
//
//	// Field is ignored
//	Secret string `qvs20:"-"`
//
// Default types: string is String, signed and unsigned integers are Integer,
// floats are Float, bool is Bool, decimal.Decimal is Decimal, time.Time is
// DateTime and []byte is Table. A string field may declare any type; its
// text is validated against it. Pointer fields write nil as an empty value,
// which only types other than String and Integer accept.
func MarshalStructs(tableName string, v interface{}) ([]byte, error) {
	table, err := TableFromStructs(tableName, v)
	if err != nil {
		return nil, err
	}
	return Marshal(table)
}

// UnmarshalStructs parses data and appends one struct per data row to the
// slice v points to, after resetting it. Columns are matched to fields by
// name; columns without a field are ignored and fields without a column keep
// their zero value.
func UnmarshalStructs(data []byte, v interface{}) error {
	table, err := Parse(data)
	if err != nil {
		return err
	}
	return StructsFromTable(table, v)
}

// TableFromStructs builds the table MarshalStructs encodes.
func TableFromStructs(tableName string, v interface{}) (*types.Table, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || v == nil {
		return nil, fmt.Errorf("qvs20: MarshalStructs(nil)")
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("qvs20: MarshalStructs(nil %s)", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("qvs20: MarshalStructs expects slice, got %s", rv.Type())
	}
	structType, _, err := sliceStruct(rv.Type())
	if err != nil {
		return nil, err
	}
	info, err := getStructInfo(structType)
	if err != nil {
		return nil, err
	}

	cols := make([]types.Column, len(info.columns))
	for i, c := range info.columns {
		cols[i] = types.Column{Name: c.name, Type: c.dt, Property: c.prop}
	}
	table := types.NewTable(tableName, types.DefaultRowDelimiter, cols...)

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		values := make([]types.Value, len(info.columns))
		for j, c := range info.columns {
			val, err := encodeField(elem.Field(c.index), c.dt)
			if err != nil {
				return nil, fmt.Errorf("qvs20: element %d, field %s: %w", i, c.field, err)
			}
			values[j] = val
		}
		table.Rows = append(table.Rows, types.NewRow(values...))
	}
	return table, nil
}

// StructsFromTable stores the rows of table in the slice v points to.
func StructsFromTable(table *types.Table, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("qvs20: UnmarshalStructs expects non-nil pointer, got %T", v)
	}
	sliceValue := rv.Elem()
	if sliceValue.Kind() != reflect.Slice {
		return fmt.Errorf("qvs20: UnmarshalStructs expects pointer to slice, got %T", v)
	}
	structType, isPtr, err := sliceStruct(sliceValue.Type())
	if err != nil {
		return err
	}
	info, err := getStructInfo(structType)
	if err != nil {
		return err
	}

	// column index of each struct column, -1 when the table lacks it
	colIdx := make([]int, len(info.columns))
	for i, c := range info.columns {
		idx, ok := table.ColumnIndex(c.name)
		if !ok {
			colIdx[i] = -1
			continue
		}
		if dt := table.DataTypes[idx]; !supports(structType.Field(c.index).Type, dt) {
			return fmt.Errorf("qvs20: field %s cannot hold %s column %q", c.field, dt, c.name)
		}
		colIdx[i] = idx
	}

	out := reflect.MakeSlice(sliceValue.Type(), 0, len(table.Rows))
	for r, row := range table.Rows {
		elem := reflect.New(structType).Elem()
		for i, c := range info.columns {
			idx := colIdx[i]
			if idx < 0 {
				continue
			}
			if err := decodeField(row.Values[idx], table.DataTypes[idx], elem.Field(c.index)); err != nil {
				return fmt.Errorf("qvs20: row %d, column %q: %w", r+1, c.name, err)
			}
		}
		if isPtr {
			out = reflect.Append(out, elem.Addr())
		} else {
			out = reflect.Append(out, elem)
		}
	}
	sliceValue.Set(out)
	return nil
}

// structColumn maps an exported struct field to a column.
type structColumn struct {
	index int
	field string
	name  string
	dt    types.DataType
	prop  string
}

// structInfo holds cached column metadata of a struct type.
type structInfo struct {
	columns []structColumn
}

// Global cache for struct metadata
var structCache sync.Map // map[reflect.Type]*structInfo

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// getStructInfo retrieves or computes the columns of structType.
func getStructInfo(structType reflect.Type) (*structInfo, error) {
	if cached, ok := structCache.Load(structType); ok {
		return cached.(*structInfo), nil
	}
	info, err := computeStructInfo(structType)
	if err != nil {
		return nil, err
	}
	structCache.Store(structType, info)
	return info, nil
}

func computeStructInfo(structType reflect.Type) (*structInfo, error) {
	info := &structInfo{}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		// Skip unexported fields
		if field.PkgPath != "" {
			continue
		}
		tag := field.Tag.Get("qvs20")
		if tag == "-" {
			continue
		}

		col := structColumn{index: i, field: field.Name, name: field.Name, dt: defaultType(field.Type)}
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			col.name = parts[0]
		}
		for _, opt := range parts[1:] {
			key, value, _ := strings.Cut(opt, "=")
			switch key {
			case "type":
				dt, err := types.ParseDataType(value)
				if err != nil {
					return nil, fmt.Errorf("qvs20: field %s: %w", field.Name, err)
				}
				col.dt = dt
			case "prop":
				col.prop = value
			default:
				return nil, fmt.Errorf("qvs20: field %s: unknown tag option %q", field.Name, opt)
			}
		}
		if !col.dt.Valid() || !supports(field.Type, col.dt) {
			return nil, fmt.Errorf("qvs20: field %s: unsupported type %s for column type %s", field.Name, field.Type, col.dt)
		}
		info.columns = append(info.columns, col)
	}
	if len(info.columns) == 0 {
		return nil, fmt.Errorf("qvs20: %s has no exported fields", structType)
	}
	return info, nil
}

// sliceStruct returns the struct type of a slice of structs or of pointers
// to structs.
func sliceStruct(sliceType reflect.Type) (reflect.Type, bool, error) {
	elemType := sliceType.Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct || elemType == timeType || elemType == decimalType {
		return nil, false, fmt.Errorf("qvs20: expects slice of structs, got slice of %s", sliceType.Elem())
	}
	return elemType, isPtr, nil
}

func defaultType(t reflect.Type) types.DataType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case decimalType:
		return types.TypeDecimal
	case timeType:
		return types.TypeDateTime
	}
	switch t.Kind() {
	case reflect.String:
		return types.TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return types.TypeInteger
	case reflect.Float32, reflect.Float64:
		return types.TypeFloat
	case reflect.Bool:
		return types.TypeBool
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return types.TypeTable
		}
	}
	return 0
}

// supports reports whether a field of type t can hold values of dt.
func supports(t reflect.Type, dt types.DataType) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case decimalType:
		return dt == types.TypeDecimal
	case timeType:
		return dt == types.TypeDate || dt == types.TypeTime || dt == types.TypeDateTime
	}
	switch t.Kind() {
	case reflect.String:
		return dt.Valid()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return dt == types.TypeInteger
	case reflect.Float32, reflect.Float64:
		return dt == types.TypeFloat || dt == types.TypeDecimal
	case reflect.Bool:
		return dt == types.TypeBool
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8 && dt.Kind() == types.KindBytes
	}
	return false
}

// encodeField converts a field to the value of a dt column.
func encodeField(rv reflect.Value, dt types.DataType) (types.Value, error) {
	if rv.Kind() == reflect.Ptr {
		if !rv.IsNil() {
			return encodeField(rv.Elem(), dt)
		}
		switch dt.Kind() {
		case types.KindBytes:
			return types.NullValue(), nil
		case types.KindString:
			return types.StringValue(""), nil
		default:
			return types.Value{}, fmt.Errorf("nil pointer in %s column", dt)
		}
	}

	switch rv.Type() {
	case decimalType:
		return types.DecimalValue(rv.Interface().(decimal.Decimal)), nil
	case timeType:
		t := rv.Interface().(time.Time)
		switch dt {
		case types.TypeDate:
			return types.DateValue(t), nil
		case types.TypeTime:
			return types.TimeValue(t), nil
		default:
			return types.DateTimeValue(t), nil
		}
	}

	switch rv.Kind() {
	case reflect.String:
		if dt == types.TypeString {
			return types.StringValue(rv.String()), nil
		}
		return types.ParseText(dt, []byte(rv.String()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.IntegerValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return types.Value{}, fmt.Errorf("value %d overflows Integer", u)
		}
		return types.IntegerValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		bits := rv.Type().Bits()
		if dt == types.TypeDecimal {
			return types.DecimalValue(decimal.NewFromFloat(rv.Float())), nil
		}
		return types.BytesValue(strconv.AppendFloat(nil, rv.Float(), 'g', -1, bits)), nil
	case reflect.Bool:
		return types.BoolValue(rv.Bool()), nil
	case reflect.Slice:
		return types.ParseText(dt, rv.Bytes())
	}
	return types.Value{}, fmt.Errorf("unsupported type %s", rv.Type())
}

// decodeField stores the value of a dt column in field. Empty values of
// types other than String and Integer set pointer fields to nil and other
// fields to their zero value.
func decodeField(v types.Value, dt types.DataType, field reflect.Value) error {
	if field.Kind() == reflect.Ptr {
		if dt.Kind() == types.KindBytes && len(v.Text()) == 0 {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		ptr := reflect.New(field.Type().Elem())
		if err := decodeField(v, dt, ptr.Elem()); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	native, err := v.Native(dt)
	if err != nil {
		return err
	}

	switch field.Type() {
	case decimalType, timeType:
		if native == nil {
			field.Set(reflect.Zero(field.Type()))
		} else {
			field.Set(reflect.ValueOf(native))
		}
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := native.(int64)
		if field.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, field.Type())
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := native.(int64)
		if n < 0 || field.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, field.Type())
		}
		field.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		var f float64
		switch x := native.(type) {
		case float64:
			f = x
		case decimal.Decimal:
			f = x.InexactFloat64()
		}
		if field.OverflowFloat(f) {
			return fmt.Errorf("value %g overflows %s", f, field.Type())
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, _ := native.(bool)
		field.SetBool(b)
	case reflect.Slice:
		raw, _ := v.AsBytes()
		field.SetBytes(append([]byte(nil), raw...))
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}
