package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "blank", input: "   ", want: 0},
		{name: "plain", input: "42", want: 42},
		{name: "float text", input: "12.0", want: 12},
		{name: "truncates", input: "7.9", want: 7},
		{name: "negative", input: "-3", want: -3},
		{name: "thousands", input: "1,250", want: 1250},
		{name: "nbsp padded", input: "\u00a05\u00a0", want: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCount(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCountRejectsText(t *testing.T) {
	for _, in := range []string{"abc", "nan", "1e400", "12 pcs"} {
		_, err := ParseCount(in)
		assert.Error(t, err, "input %q", in)
	}
}
