package base32nix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Encode(nil))
	assert.Equal(t, "", Encode([]byte{}))
}

func TestEncodeAllZero(t *testing.T) {
	t.Parallel()
	raw := make([]byte, 32)
	got := Encode(raw)
	require.Len(t, got, 52)
	for _, c := range got {
		assert.Equal(t, byte('0'), byte(c))
	}
}

func TestEncodeOnlyUsesAlphabet(t *testing.T) {
	t.Parallel()
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03}
	got := Encode(raw)
	for _, c := range got {
		assert.Contains(t, alphabet, string(c))
	}
}

func TestEncodeLength(t *testing.T) {
	t.Parallel()
	for n := 0; n <= 64; n++ {
		raw := make([]byte, n)
		got := Encode(raw)
		want := (n*8 + 4) / 5
		if n == 0 {
			want = 0
		}
		assert.Equal(t, want, len(got), "len(raw)=%d", n)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	cases := [][]byte{
		{},
		{0x00},
		{0xFF},
		{0x01, 0x02, 0x03, 0x04, 0x05},
		{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		make([]byte, 32),
	}
	for _, raw := range cases {
		enc := Encode(raw)
		dec, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, raw, dec)
	}
}

func TestDecodeRejectsInvalidCharacter(t *testing.T) {
	t.Parallel()
	_, err := Decode("0000e000") // 'e' is not in the alphabet
	assert.Error(t, err)
}
