package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Column limits of the free-text fields, in characters
const (
	ShortTextMaxLength  = 255
	ItemTypeMaxLength   = 100
	CourseCodeMaxLength = 50
	SlotMaxLength       = 50
)

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsInstitutionalEmail reports whether a normalized email ends with suffix and has
// a non-empty local part. suffix must include the '@'.
func IsInstitutionalEmail(email, suffix string) bool {
	suffix = strings.ToLower(suffix)
	if !strings.HasPrefix(suffix, "@") || !strings.HasSuffix(email, suffix) {
		return false
	}
	local := strings.TrimSuffix(email, suffix)
	return local != "" && !strings.ContainsAny(local, "@ \t\r\n")
}

// StringValidation checks a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation. Lengths are counted in runes.
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)

	if v.Required && value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && value == "" {
		return true
	}

	length := utf8.RuneCountInString(value)
	if v.MinLen > 0 && length < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}

	return true
}

// Required builds a required string check bounded by ShortTextMaxLength
func Required(value string) *StringValidation {
	return NewStringValidation(value).WithMaxLength(ShortTextMaxLength)
}

// Optional builds an optional string check bounded by max
func Optional(value *string, max int) *StringValidation {
	v := ""
	if value != nil {
		v = *value
	}
	return NewStringValidation(v).WithRequired(false).WithMaxLength(max)
}
