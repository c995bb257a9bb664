package command

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tair/catalog-admin/pkg/apperror"
)

const maxNameLength = 255

func checkName(fields apperror.FieldSet, field, name string) {
	switch {
	case strings.TrimSpace(name) == "":
		fields.Add(field, "The "+field+" field is required")
	case utf8.RuneCountInString(name) > maxNameLength:
		fields.Add(field, "The "+field+" may not be greater than 255 characters")
	}
}

func checkOptionalText(fields apperror.FieldSet, field string, value *string) {
	if value != nil && utf8.RuneCountInString(*value) > maxNameLength {
		fields.Add(field, "The "+field+" may not be greater than 255 characters")
	}
}

func checkNonNegative(fields apperror.FieldSet, field string, v int) {
	if v < 0 {
		fields.Add(field, "The "+field+" must be at least 0")
	}
}

func checkPrice(fields apperror.FieldSet, field string, v decimal.Decimal) {
	if v.IsNegative() {
		fields.Add(field, "The "+field+" must be at least 0")
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// dedupe keeps the first occurrence of every id
func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
