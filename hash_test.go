package typeddict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldHash(t *testing.T) {
	tests := []struct {
		name  string
		input uint64
		want  int32
	}{
		{
			name:  "Zero value",
			input: 0,
			want:  0,
		},
		{
			name:  "Low half only",
			input: 0x12345678,
			want:  0x12345678,
		},
		{
			name:  "High half only",
			input: 0x12345678 << 32,
			want:  0x12345678,
		},
		{
			name:  "Halves cancel",
			input: 0xDEADBEEFDEADBEEF,
			want:  0,
		},
		{
			name:  "Max uint64",
			input: 0xFFFFFFFFFFFFFFFF,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, foldHash(tt.input))
		})
	}
}

func TestBucketFor(t *testing.T) {
	require.Equal(t, uint32(5), bucketFor(5, 7))
	require.Equal(t, uint32(5), bucketFor(13, 7))
	require.Equal(t, uint32(7), bucketFor(-1, 7))
	require.Equal(t, uint32(0), bucketFor(-8, 7))
}

func TestHashString_Deterministic(t *testing.T) {
	require.Equal(t, hashString("foo"), hashString("foo"))
	require.NotEqual(t, hashString("foo"), hashString("bar"))
}
