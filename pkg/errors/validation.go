package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateOneOf checks that value is one of allowed. The returned error
// carries code and names the field and the accepted values.
func ValidateOneOf(code Code, field, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "invalid %s %q (want one of: %s)", field, value, strings.Join(allowed, ", "))
}

// ValidateFilename validates an output filename derived from user input.
// It must be a plain basename without path components.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "filename too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidInput, "filename must not contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "filename %q is reserved", name)
	}
	return nil
}
