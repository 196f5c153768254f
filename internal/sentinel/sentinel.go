// Package sentinel names and manipulates the on-disk directory that
// represents a held lock. The directory's existence is the lock; its mtime
// is the liveness beacon. No contents are required or written.
package sentinel

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidName is returned when a target name fails validation.
var ErrInvalidName = errors.New("invalid lock target")

// validNamePattern rejects empty names and embedded NUL bytes (other
// control characters are accepted); path traversal and
// absolute-path smuggling are not a concern here since callers always pass
// an already-resolved canonical key.
var validNamePattern = regexp.MustCompile(`^[^\x00]+$`)

// ValidateName rejects empty names and embedded NUL bytes; canonical keys
// are already resolved, absolute paths by the time they reach here, so the
// remaining risk is an empty string or an attacker-supplied string with
// embedded NULs.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: name cannot contain a NUL byte", ErrInvalidName)
	}
	if !validNamePattern.MatchString(name) {
		return fmt.Errorf("%w: unprintable name", ErrInvalidName)
	}
	return nil
}

// defaultSuffix is appended to a canonical key to produce its sentinel path
// when the caller does not supply an override.
const defaultSuffix = ".lock"

// PathOf returns the sentinel path for a canonical key: override if
// non-empty, else canonicalKey + ".lock".
func PathOf(canonicalKey, override string) string {
	if override != "" {
		return override
	}
	return canonicalKey + defaultSuffix
}
