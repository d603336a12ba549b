package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The FHE-prefixed values are a reversible placeholder for encrypted bids.
// Anyone holding the string can recover the number.
const FHEPrefix = "FHE-"

var (
	ErrorDecode = errors.New("decode error")
)

func EncryptNumber(value float64) string {
	plain := strconv.FormatFloat(value, 'f', -1, 64)
	return FHEPrefix + base64.StdEncoding.EncodeToString([]byte(plain))
}

// DecryptNumber reverses EncryptNumber. Values without the prefix are parsed
// as plain decimal numbers.
func DecryptNumber(encrypted string) (float64, error) {
	plain := encrypted
	if strings.HasPrefix(encrypted, FHEPrefix) {
		raw, err := base64.StdEncoding.DecodeString(encrypted[len(FHEPrefix):])
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrorDecode, err)
		}
		plain = string(raw)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(plain), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrorDecode, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: non-finite value %q", ErrorDecode, plain)
	}
	return value, nil
}

// BidPreview shortens an encrypted bid for list views.
func BidPreview(encrypted string) string {
	const previewLen = 50
	if len(encrypted) <= previewLen {
		return encrypted
	}
	return encrypted[:previewLen] + "..."
}
