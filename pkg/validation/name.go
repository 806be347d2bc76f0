package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxNameLength is the longest accepted name in bytes
const MaxNameLength = 255

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidationError represents a rejected name.
type ValidationError struct {
	Input  string // Original input that was rejected
	Reason string // Human-readable reason for rejection
}

// Error implements the error interface.
//
// Format: "name validation failed: {Reason} (input: {Input})"
func (e *ValidationError) Error() string {
	return fmt.Sprintf("name validation failed: %s (input: %q)", e.Reason, e.Input)
}

// FileName reports whether name can be used as a single file name inside a
// store directory. It returns nil or a *ValidationError.
func FileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Input: name, Reason: "name cannot be empty"}
	}

	if len(name) > MaxNameLength {
		return &ValidationError{
			Input:  name,
			Reason: fmt.Sprintf("name length exceeds maximum of %d bytes", MaxNameLength),
		}
	}

	// IsLocal accepts "a/b", so separators are checked separately
	if strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) {
		return &ValidationError{Input: name, Reason: "name escapes the store directory"}
	}

	if strings.HasPrefix(name, ".") {
		return &ValidationError{Input: name, Reason: "name cannot start with a dot"}
	}

	for _, ch := range name {
		if unicode.IsControl(ch) {
			return &ValidationError{Input: name, Reason: "name contains control characters"}
		}
	}

	base := strings.ToUpper(name)
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}
	if reservedNames[base] {
		return &ValidationError{Input: name, Reason: fmt.Sprintf("reserved name not allowed: %s", name)}
	}

	return nil
}
