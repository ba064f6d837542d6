package errors

import (
	"strings"
	"unicode"
)

// maxGraphIDLength bounds graph ids, which double as output file stems.
const maxGraphIDLength = 200

// ValidateGraphID checks that a graph id is safe to use as a file name stem.
//
// The orchestrator writes every artifact to <dir>/<id>.<ext>, so ids must not
// escape the output directory:
//   - No empty ids
//   - No control characters or null bytes
//   - No path separators (/ or \)
//   - No "." or ".." ids
//   - Maximum length of 200 characters
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraphID, "graph id cannot be empty")
	}

	if len(id) > maxGraphIDLength {
		return New(ErrCodeInvalidGraphID, "graph id too long (max %d characters)", maxGraphIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraphID, "graph id %q contains control characters", id)
		}
	}

	if strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidGraphID, "graph id %q cannot contain path separators", id)
	}

	if id == "." || id == ".." {
		return New(ErrCodeInvalidGraphID, "graph id %q is reserved", id)
	}

	return nil
}

// ValidateName checks a short identifier such as a dataset, layout or backend
// name received from a user-facing surface.
func ValidateName(kind Code, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(kind, "name cannot be empty")
	}
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return New(kind, "invalid name %q", name)
		}
	}
	return nil
}
