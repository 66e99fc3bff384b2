package errors

import (
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxProjectNameLength bounds project names.
const MaxProjectNameLength = 128

// ValidateProjectName checks a human-readable project name.
//
// Names must be non-empty after trimming, at most MaxProjectNameLength bytes,
// and free of control characters. Path separators are rejected because the
// file store never uses names in paths but the CLI echoes them next to paths.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidProject, "project name cannot be empty")
	}
	if len(name) > MaxProjectNameLength {
		return New(ErrCodeInvalidProject, "project name too long (max %d characters)", MaxProjectNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProject, "project name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidProject, "project name cannot contain path separators")
	}
	return nil
}

// ValidateProjectID checks that id is a canonical UUID.
func ValidateProjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidProject, "project id cannot be empty")
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return Wrap(ErrCodeInvalidProject, err, "invalid project id %q", id)
	}
	if u.String() != id {
		return New(ErrCodeInvalidProject, "project id %q is not in canonical form", id)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
