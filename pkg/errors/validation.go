package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateBrandID validates a brand identifier for safety and correctness.
// Identifiers are short lowercase slugs; the check is done before lowercasing
// so callers can pass raw user input.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 64 characters
//   - Only letters, digits, '-' and '_'
func ValidateBrandID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return New(ErrCodeInvalidInput, "brand identifier cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "brand identifier too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			continue
		}
		return New(ErrCodeInvalidInput, "brand identifier contains invalid character: %q", r)
	}

	return nil
}

// ValidateDocxPath validates that path names a .docx file.
func ValidateDocxPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return New(ErrCodeInvalidPath, "not a .docx file: %s", path)
	}

	return nil
}

// ValidateOutputPath validates an output destination against the input path.
// The original document is never overwritten, so an output that resolves to
// the same file as input is rejected.
func ValidateOutputPath(output, input string) error {
	if err := ValidateDocxPath(output); err != nil {
		return err
	}

	outAbs, err := filepath.Abs(output)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "resolve output path")
	}
	inAbs, err := filepath.Abs(input)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "resolve input path")
	}

	if filepath.Clean(outAbs) == filepath.Clean(inAbs) {
		return New(ErrCodeInvalidPath, "output path would overwrite the input document: %s", output)
	}

	return nil
}
