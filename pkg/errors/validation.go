package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Resource ceilings for diagram sources. Realistic diagrams are a few
// hundred lines; these bound the work one request can cause.
const (
	MaxSourceBytes = 1 << 20
	MaxSourceLines = 10_000
)

// ValidateSourceSize rejects sources above the byte or line ceiling.
func ValidateSourceSize(src string) error {
	if len(src) > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "diagram source too large (%d bytes, max %d)", len(src), MaxSourceBytes)
	}
	if n := strings.Count(src, "\n") + 1; n > MaxSourceLines {
		return New(ErrCodeInvalidInput, "diagram source has too many lines (%d, max %d)", n, MaxSourceLines)
	}
	return nil
}

var diagramIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateDiagramID validates a stored diagram id as it arrives in a URL.
// Ids are generated as UUIDs, but any short token of letters, digits,
// dashes and underscores is accepted so that stores can be seeded by hand.
func ValidateDiagramID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "diagram id cannot be empty")
	}
	if !diagramIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid diagram id: %q", id)
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
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
		if r == '\x00' || unicode.IsControl(r) {
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
