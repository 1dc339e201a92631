package codec

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("1234567890ABCDEF")

func TestNewRejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 8, 15, 17, 33} {
		_, err := New(make([]byte, n))
		assert.ErrorIs(t, err, ErrBadKey, "key length %d", n)
	}
	for _, n := range []int{16, 24, 32} {
		_, err := New(make([]byte, n))
		assert.NoError(t, err, "key length %d", n)
	}
}

func TestRoundTrip(t *testing.T) {
	c, err := New(testKey)
	require.NoError(t, err)

	for _, id := range []string{"H001", "H12345", "a", strings.Repeat("x", 40)} {
		payload, err := c.Encode(id)
		require.NoError(t, err)

		got, err := c.Decode(payload)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c, err := New(testKey)
	require.NoError(t, err)

	cases := map[string]string{
		"not base64":       "!!definitely not base64!!",
		"empty":            "",
		"short ciphertext": base64.StdEncoding.EncodeToString([]byte("tooshort")),
		"unaligned length": base64.StdEncoding.EncodeToString(make([]byte, 17)),
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(payload)
			assert.ErrorIs(t, err, ErrBadPayload)
		})
	}
}

func TestDecodeWrongKeyFails(t *testing.T) {
	c1, err := New(testKey)
	require.NoError(t, err)
	c2, err := New([]byte("FEDCBA0987654321"))
	require.NoError(t, err)

	payload, err := c1.Encode("H001")
	require.NoError(t, err)

	// The wrong key produces padding garbage, never a silent wrong ID.
	got, err := c2.Decode(payload)
	if err == nil {
		assert.NotEqual(t, "H001", got)
	} else {
		assert.ErrorIs(t, err, ErrBadPayload)
	}
}

func TestDecodeRejectsCorruptPadding(t *testing.T) {
	c, err := New(testKey)
	require.NoError(t, err)

	payload, err := c.Encode("H001")
	require.NoError(t, err)

	ct, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	ct[len(ct)-1] ^= 0xff

	_, err = c.Decode(base64.StdEncoding.EncodeToString(ct))
	assert.ErrorIs(t, err, ErrBadPayload)
}
