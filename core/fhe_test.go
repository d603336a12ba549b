package core

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	values := []float64{0, 0.01, 0.1, 0.5, 1, 1.25, 3.14159, 42, 1e-9, 123456789.987654321, 1e21, math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, v := range values {
		enc := EncryptNumber(v)
		assert.True(t, strings.HasPrefix(enc, FHEPrefix), enc)

		dec, err := DecryptNumber(enc)
		require.NoError(t, err, enc)
		assert.Equal(t, v, dec, enc)
	}
}

func TestEncryptNumber_Format(t *testing.T) {
	assert.Equal(t, "FHE-MC41", EncryptNumber(0.5))
	assert.Equal(t, "FHE-MA==", EncryptNumber(0))
}

func TestDecryptNumber_Plain(t *testing.T) {
	v, err := DecryptNumber("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestDecryptNumber_Errors(t *testing.T) {
	for _, in := range []string{"FHE-***", "FHE-" + "YWJj", "abc", "", "NaN"} {
		_, err := DecryptNumber(in)
		assert.ErrorIs(t, err, ErrorDecode, in)
	}
}

func TestBidPreview(t *testing.T) {
	assert.Equal(t, "FHE-MQ==", BidPreview("FHE-MQ=="))
	long := strings.Repeat("a", 60)
	assert.Equal(t, strings.Repeat("a", 50)+"...", BidPreview(long))
}
