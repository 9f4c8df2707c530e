package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSplitParcels(t *testing.T) {
	cases := []struct {
		name string
		raw  *string
		want []string
	}{
		{
			name: "null column",
			raw:  nil,
			want: nil,
		},
		{
			name: "single identifier",
			raw:  strPtr("750560000A0123"),
			want: []string{"750560000A0123"},
		},
		{
			name: "ordered list",
			raw:  strPtr("750560000A0123;750560000A0124;130010000B0001"),
			want: []string{"750560000A0123", "750560000A0124", "130010000B0001"},
		},
		{
			name: "duplicates preserved",
			raw:  strPtr("750560000A0123;750560000A0123"),
			want: []string{"750560000A0123", "750560000A0123"},
		},
		{
			name: "blank entries dropped",
			raw:  strPtr("750560000A0123;;  ;750560000A0124"),
			want: []string{"750560000A0123", "750560000A0124"},
		},
		{
			name: "empty string",
			raw:  strPtr(""),
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitParcels(tc.raw))
		})
	}
}
