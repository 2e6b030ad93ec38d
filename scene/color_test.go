package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"#ff0000", 0xffff0000},
		{"#f00", 0xffff0000},
		{" #102030 ", 0xff102030},
		{"#ff000080", 0x80800000},
		{"#ffffff00", 0x00000000},
		{"0x80400000", 0x80400000},
		{"0XFF00FF00", 0xff00ff00},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "got %#08x", got)
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "red", "#12", "#ff0000zz", "0xzz", "0x1ffffffff"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseColor(in)
			assert.Error(t, err)
		})
	}
}
