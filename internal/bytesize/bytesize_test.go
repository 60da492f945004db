package bytesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"0", 0, false},
		{"5242880", 5 * MiB, false},
		{"1024B", 1024, false},
		{"1024b", 1024, false},
		{"5MiB", 5 * MiB, false},
		{"5Mi", 5 * MiB, false},
		{"5mib", 5 * MiB, false},
		{"512KB", 512 * KB, false},
		{"2K", 2000, false},
		{"1GiB", GiB, false},
		{"1 Gi", GiB, false},
		{"  10MiB  ", 10 * MiB, false},
		{"1.5KiB", 1536, false},
		{"", 0, true},
		{"   ", 0, true},
		{"MiB", 0, true},
		{"-1MiB", 0, true},
		{"10XB", 0, true},
		{"1.2.3MiB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseByteSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByteSize_String(t *testing.T) {
	assert.Equal(t, "512B", ByteSize(512).String())
	assert.Equal(t, "5MiB", (5 * MiB).String())
	assert.Equal(t, "1.50KiB", ByteSize(1536).String())
	assert.Equal(t, "2GiB", (2 * GiB).String())
}

func TestByteSize_TextRoundTrip(t *testing.T) {
	for _, size := range []ByteSize{0, 1, 1536, 5 * MiB, 3 * GiB} {
		text, err := size.MarshalText()
		require.NoError(t, err)

		var back ByteSize
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, size, back)
	}
}

func TestByteSize_KiBFloat(t *testing.T) {
	assert.InDelta(t, 5120.0, (5 * MiB).KiBFloat(), 0.0001)
}
