package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Variants(t *testing.T) {
	s := StringValue("abc")
	i := IntegerValue(-42)
	b := BytesValue([]byte("2024-01-02"))

	str, ok := s.AsString()
	assert.True(t, ok)
	assert.Equal(t, "abc", str)
	_, ok = s.AsInteger()
	assert.False(t, ok)

	n, ok := i.AsInteger()
	assert.True(t, ok)
	assert.Equal(t, int64(-42), n)
	assert.Equal(t, "-42", i.String())

	raw, ok := b.AsBytes()
	assert.True(t, ok)
	assert.Equal(t, "2024-01-02", string(raw))
	assert.Equal(t, KindBytes, b.Kind())
}

func TestValue_ZeroIsEmptyString(t *testing.T) {
	var v Value
	assert.Equal(t, KindString, v.Kind())
	s, ok := v.AsString()
	assert.True(t, ok)
	assert.Equal(t, "", s)
	assert.True(t, v.Equal(StringValue("")))
}

func TestBytesValue_Copies(t *testing.T) {
	src := []byte("abc")
	v := BytesValue(src)
	src[0] = 'x'
	raw, _ := v.AsBytes()
	assert.Equal(t, "abc", string(raw))
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, IntegerValue(1).Equal(IntegerValue(1)))
	assert.False(t, IntegerValue(1).Equal(StringValue("1")))
	assert.True(t, BytesValue(nil).Equal(NullValue()))
	assert.False(t, BytesValue([]byte("a")).Equal(BytesValue([]byte("b"))))
}

func TestRow(t *testing.T) {
	r := NewRow(StringValue("a"), IntegerValue(2))
	assert.Equal(t, 2, r.Len())
	v, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, "2", v.String())
	_, ok = r.Get(2)
	assert.False(t, ok)
	assert.True(t, r.Equal(NewRow(StringValue("a"), IntegerValue(2))))
	assert.False(t, r.Equal(NewRow(StringValue("a"))))
}

func TestParseText(t *testing.T) {
	tests := []struct {
		name    string
		dt      DataType
		raw     string
		wantErr bool
	}{
		{"string", TypeString, "hello", false},
		{"string invalid utf8", TypeString, "\xff\xfe", true},
		{"integer", TypeInteger, "-9223372036854775808", false},
		{"integer overflow", TypeInteger, "9223372036854775808", true},
		{"integer empty", TypeInteger, "", true},
		{"integer text", TypeInteger, "12a", true},
		{"decimal", TypeDecimal, "-12.3400", false},
		{"decimal exponent", TypeDecimal, "1.5e3", false},
		{"decimal bad", TypeDecimal, "1,5", true},
		{"decimal empty", TypeDecimal, "", false},
		{"float", TypeFloat, "3.25", false},
		{"float bad", TypeFloat, "pi", true},
		{"bool true", TypeBool, "true", false},
		{"bool yes", TypeBool, "yes", true},
		{"date", TypeDate, "2020-02-29", false},
		{"date bad", TypeDate, "2021-02-29", true},
		{"time", TypeTime, "13:45:00", false},
		{"time fraction", TypeTime, "13:45:00.125", false},
		{"time bad", TypeTime, "25:00:00", true},
		{"datetime", TypeDateTime, "2024-05-01T10:00:00Z", false},
		{"datetime offset", TypeDateTime, "2024-05-01T10:00:00.5+02:00", false},
		{"datetime bad", TypeDateTime, "2024-05-01 10:00:00", true},
		{"table", TypeTable, "[t]1[String]1[]1[a]1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseText(tt.dt, []byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dt.Kind(), v.Kind())
			assert.Equal(t, tt.raw, v.String())
			assert.NoError(t, CheckValue(tt.dt, v))
		})
	}
}

func TestCheckValue_WrongVariant(t *testing.T) {
	assert.Error(t, CheckValue(TypeInteger, StringValue("1")))
	assert.Error(t, CheckValue(TypeDate, StringValue("2020-01-01")))
	assert.Error(t, CheckValue(TypeString, IntegerValue(1)))
	assert.Error(t, CheckValue(DataType(0), StringValue("")))
	assert.Error(t, CheckValue(TypeBool, BytesValue([]byte("maybe"))))
	assert.NoError(t, CheckValue(TypeBool, NullValue()))
}

func TestNative(t *testing.T) {
	ts := time.Date(2024, 3, 9, 8, 7, 6, 500000000, time.UTC)

	got, err := DateTimeValue(ts).Native(TypeDateTime)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.(time.Time)))

	got, err = DateValue(ts).Native(TypeDate)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", got.(time.Time).Format(DateLayout))

	got, err = TimeValue(ts).Native(TypeTime)
	require.NoError(t, err)
	assert.Equal(t, "08:07:06.5", got.(time.Time).Format(TimeLayout))

	got, err = FloatValue(0.1).Native(TypeFloat)
	require.NoError(t, err)
	assert.Equal(t, 0.1, got)

	got, err = BoolValue(true).Native(TypeBool)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	d := decimal.RequireFromString("10.25")
	got, err = DecimalValue(d).Native(TypeDecimal)
	require.NoError(t, err)
	assert.True(t, d.Equal(got.(decimal.Decimal)))

	got, err = NullValue().Native(TypeFloat)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = IntegerValue(7).Native(TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	_, err = StringValue("x").Native(TypeInteger)
	assert.Error(t, err)
}

func TestParseDecimalValue(t *testing.T) {
	v, err := ParseDecimalValue("0.001")
	require.NoError(t, err)
	assert.Equal(t, "0.001", v.String())

	_, err = ParseDecimalValue("one")
	assert.Error(t, err)
}

func TestConverterFor(t *testing.T) {
	for _, dt := range DataTypes() {
		_, ok := ConverterFor(dt)
		assert.True(t, ok, dt.String())
	}
	_, ok := ConverterFor(DataType(0))
	assert.False(t, ok)
}
