package errors

import (
	"net"
	"regexp"
	"strings"
	"unicode"
)

// ValidateSessionID validates a session identifier for safety and
// correctness. Session ids end up in store keys and file names, so the
// rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "session id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "session id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "session id contains invalid control characters")
		}
	}

	// Ids become file names in the file store; keep them path-safe.
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "session id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// presetNameRegex matches valid preset names: lowercase alphanumerics
// separated by single dashes.
var presetNameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidatePresetName validates a preset name.
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	}

	if !presetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPreset, "invalid preset name: %q", name)
	}

	return nil
}

// ValidateBatchSize validates a requested batch size against an optional
// per-request cap (0 disables the cap). Non-positive sizes are reported
// at the boundary and never silently coerced.
func ValidateBatchSize(n, maxBatch int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "batch size must be a positive integer, got %d", n)
	}
	if maxBatch > 0 && n > maxBatch {
		return Wrap(ErrCodeInvalidInput, &BatchLimitError{Requested: n, Max: maxBatch}, "batch too large")
	}
	return nil
}

// ValidateListenAddr validates a host:port listen address.
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "listen address cannot be empty")
	}

	if _, _, err := net.SplitHostPort(addr); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid listen address %q", addr)
	}

	return nil
}
