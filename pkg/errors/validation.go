package errors

import (
	"strings"
	"unicode"
)

// MaxNameLength bounds entity names accepted from untrusted input.
const MaxNameLength = 1024

// ValidateEntityName validates a full entity name before it is split into
// path segments. It rejects names that cannot produce a usable path.
//
// The validation rules:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of [MaxNameLength] bytes
//   - At least one non-separator character
func ValidateEntityName(name, sep string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "entity name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidPath, "entity name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "entity name contains invalid control characters")
		}
	}

	if sep != "" && strings.Trim(name, sep) == "" {
		return New(ErrCodeInvalidPath, "entity name %q has no segments", name)
	}

	return nil
}

// ValidateSeparator validates a path separator. Separators must be short,
// printable and free of whitespace.
func ValidateSeparator(sep string) error {
	if sep == "" {
		return New(ErrCodeInvalidSeparator, "separator cannot be empty")
	}

	if len(sep) > 4 {
		return New(ErrCodeInvalidSeparator, "separator too long (max 4 characters)")
	}

	for _, r := range sep {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidSeparator, "separator %q contains whitespace or control characters", sep)
		}
	}

	return nil
}

// ValidatePath validates a relative file path supplied by a client, such
// as an output file name.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
