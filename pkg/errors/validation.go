package errors

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name before it is placed in a
// registry URL path. It rejects names that could escape the intended path.
//
// The rules are:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
//
// It deliberately does not enforce PEP 508 syntax: a malformed name is left
// for the registry to reject with a 404.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}
	if err := checkSegment(name); err != "" {
		return New(ErrCodeInvalidPackage, "package name %s", err)
	}
	return nil
}

// ValidateVersion validates a version string before it is placed in a
// registry URL path. Only path safety is checked; the version format is not.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidInput, "version cannot be empty")
	}
	if len(version) > 128 {
		return New(ErrCodeInvalidInput, "version too long (max 128 characters)")
	}
	if err := checkSegment(version); err != "" {
		return New(ErrCodeInvalidInput, "version %s", err)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}

func checkSegment(s string) string {
	for _, r := range s {
		if unicode.IsControl(r) {
			return "contains invalid control characters"
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "?", "#"} {
		if strings.Contains(s, pattern) {
			return fmt.Sprintf("contains invalid characters: %q", pattern)
		}
	}
	return ""
}
