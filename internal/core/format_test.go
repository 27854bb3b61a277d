package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1234, "1,234 B"},
		{1048575, "1,048,575 B"},
		{2 * MB, "2.0 MB"},
		{MB + MB/2, "1.5 MB"},
		{3 * GB, "3.0 GB"},
		{GB + GB/2, "1.5 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%d)", tt.in)
	}
}

func TestParseSize(t *testing.T) {
	n, err := ParseSize("100MB")
	require.NoError(t, err)
	assert.Equal(t, 100*MB, n)

	n, err = ParseSize("4096")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)

	n, err = ParseSize("")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = ParseSize("lots")
	assert.Error(t, err)
}
