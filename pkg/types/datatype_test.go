package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	for _, dt := range DataTypes() {
		t.Run(dt.String(), func(t *testing.T) {
			got, err := ParseDataType(dt.String())
			require.NoError(t, err)
			assert.Equal(t, dt, got)
		})
	}

	for _, bad := range []string{"", "string", "INTEGER", "Int", "Table "} {
		_, err := ParseDataType(bad)
		assert.Error(t, err, "%q", bad)
	}
}

func TestDataType_String(t *testing.T) {
	assert.Equal(t, "DateTime", TypeDateTime.String())
	assert.Equal(t, "Table", TypeTable.String())
	assert.Equal(t, "DataType(0)", DataType(0).String())
	assert.Equal(t, "DataType(99)", DataType(99).String())
}

func TestDataType_Kind(t *testing.T) {
	assert.Equal(t, KindString, TypeString.Kind())
	assert.Equal(t, KindInteger, TypeInteger.Kind())
	for _, dt := range []DataType{TypeDecimal, TypeFloat, TypeBool, TypeDate, TypeTime, TypeDateTime, TypeTable} {
		assert.Equal(t, KindBytes, dt.Kind(), dt.String())
	}
}

func TestDataType_Text(t *testing.T) {
	text, err := TypeBool.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Bool", string(text))

	var dt DataType
	require.NoError(t, dt.UnmarshalText([]byte("Decimal")))
	assert.Equal(t, TypeDecimal, dt)

	assert.Error(t, dt.UnmarshalText([]byte("Money")))
	_, err = DataType(0).MarshalText()
	assert.Error(t, err)
}
