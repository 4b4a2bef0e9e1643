package workorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacyDateTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"05-Mar-24 14:07:09", "2024-03-05T14:07:09"},
		{"5-mar-24 4:07:09", "2024-03-05T04:07:09"},
		{"31-DEC-99 23:59:59", "1999-12-31T23:59:59"},
		{"01-Jan-68 00:00:00", "2068-01-01T00:00:00"},
	}
	for _, tc := range cases {
		got, err := ParseLegacyDateTime(tc.in)
		require.NoError(t, err, tc.in)
		require.NotNil(t, got)
		assert.Equal(t, tc.want, *got, tc.in)
	}
}

func TestParseLegacyDateTimeEmptyIsNil(t *testing.T) {
	got, err := ParseLegacyDateTime("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseLegacyDateTimeRejectsOtherFormats(t *testing.T) {
	for _, in := range []string{"2024-03-05 14:07:09", "05-Mar-24", "nan", "32-Mar-24 10:00:00"} {
		_, err := ParseLegacyDateTime(in)
		require.Error(t, err, in)
		assert.True(t, IsFormatError(err), in)
	}
}

func TestISOFromDateValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"45366.5", "2024-03-15T12:00:00"},
		{"45366", "2024-03-15T00:00:00"},
		{"2024-03-15T08:30:00Z", "2024-03-15T08:30:00"},
		{"2024-03-15T08:30:00-03:00", "2024-03-15T08:30:00"},
		{"2024-03-15 08:30:00", "2024-03-15T08:30:00"},
		{"2024-03-15 08:30:00.25", "2024-03-15T08:30:00.250000"},
		{"2024-03-15", "2024-03-15T00:00:00"},
	}
	for _, tc := range cases {
		got, err := ISOFromDateValue(tc.in, false)
		require.NoError(t, err, tc.in)
		require.NotNil(t, got, tc.in)
		assert.Equal(t, tc.want, *got, tc.in)
	}
}

func TestISOFromDateValue1904(t *testing.T) {
	got, err := ISOFromDateValue("43904.5", true)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T12:00:00", *got)
}

func TestISOFromDateValueNotAValue(t *testing.T) {
	for _, in := range []string{"", "  ", "nan", "NaN", "NaT"} {
		got, err := ISOFromDateValue(in, false)
		require.NoError(t, err, in)
		assert.Nil(t, got, in)
	}
}

func TestISOFromDateValueRejectsGarbage(t *testing.T) {
	_, err := ISOFromDateValue("tomorrow", false)
	assert.True(t, IsFormatError(err))

	_, err = ISOFromDateValue("-3", false)
	assert.True(t, IsFormatError(err))
}

func TestStripIdentifierMarker(t *testing.T) {
	got := StripIdentifierMarker("#0A1B", true)
	require.NotNil(t, got)
	assert.Equal(t, "0A1B", *got)

	got = StripIdentifierMarker("X", true)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	got = StripIdentifierMarker("çABC", true)
	require.NotNil(t, got)
	assert.Equal(t, "ABC", *got)

	got = StripIdentifierMarker("", true)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	assert.Nil(t, StripIdentifierMarker("nan", true))
	assert.Nil(t, StripIdentifierMarker("", false))
	assert.Nil(t, StripIdentifierMarker("#abc", false))
}

func TestMapStatusCodeIsTotal(t *testing.T) {
	for _, in := range []string{"", "Finished", "Shipped", "garbage", "200"} {
		assert.Equal(t, 200, MapStatusCode(in), in)
	}

	table := StatusTable{"Cancelled": 410}
	assert.Equal(t, 410, table.Code("Cancelled"))
	assert.Equal(t, 200, table.Code("Open"))
}

func TestProductType(t *testing.T) {
	assert.Equal(t, 2, ProductType("Adicional"))
	assert.Equal(t, 1, ProductType("adicional"))
	assert.Equal(t, 1, ProductType("Normal"))
	assert.Equal(t, 1, ProductType(""))
}
