package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageTokenRoundTrip(t *testing.T) {
	token := EncodePageToken(30)
	require.NotEmpty(t, token)

	offset, err := DecodePageToken(token)
	require.NoError(t, err)
	require.Equal(t, 30, offset)
}

func TestEncodePageTokenZeroOffset(t *testing.T) {
	require.Empty(t, EncodePageToken(0))
	require.Empty(t, EncodePageToken(-5))
}

func TestDecodePageTokenEmpty(t *testing.T) {
	offset, err := DecodePageToken("")
	require.NoError(t, err)
	require.Equal(t, 0, offset)

	offset, err = DecodePageToken("   ")
	require.NoError(t, err)
	require.Equal(t, 0, offset)
}

func TestDecodePageTokenGarbage(t *testing.T) {
	_, err := DecodePageToken("not base64!!")
	require.Error(t, err)

	// Valid base64 but wrong shape.
	_, err = DecodePageToken("aGVsbG8=")
	require.Error(t, err)
}
