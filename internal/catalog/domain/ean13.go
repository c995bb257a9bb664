package domain

import (
	"strings"

	"github.com/tair/catalog-admin/pkg/apperror"
)

// EAN13Length is the width every stored code is padded to
const EAN13Length = 13

// NormalizeEAN13 trims raw, checks it is 1 to 13 digits and left-pads it with
// zeros to 13 digits. An empty input yields "" and no error.
func NormalizeEAN13(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", nil
	}
	if len(code) > EAN13Length {
		return "", apperror.Validation("ean13", "The ean13 may not be greater than 13 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", apperror.Validation("ean13", "The ean13 must contain only digits")
		}
	}
	return strings.Repeat("0", EAN13Length-len(code)) + code, nil
}
