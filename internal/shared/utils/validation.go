package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// String length limits
const (
	MaxBundleIDLength   = 255
	MaxNameLength       = 256
	MaxLogMessageLength = 16 * 1024
	MaxTitleLength      = 512
)

var (
	// BundleIDPattern allows reverse-DNS style ids: alphanumerics, dots, hyphens, underscores
	BundleIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") || !utf8.ValidString(value) {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateBundleID validates an app bundle id
func ValidateBundleID(id string) error {
	if err := ValidateString(id, "bundle_id", 1, MaxBundleIDLength, true); err != nil {
		return err
	}
	if !BundleIDPattern.MatchString(id) {
		return fmt.Errorf("bundle_id contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)")
	}
	return nil
}

// ValidateName validates a display name
func ValidateName(name, fieldName string) error {
	return ValidateString(name, fieldName, 0, MaxNameLength, false)
}

// ValidateTitle validates a window title
func ValidateTitle(title string) error {
	return ValidateString(title, "title", 0, MaxTitleLength, false)
}

// ValidateLogMessage validates one shell log line
func ValidateLogMessage(message string) error {
	return ValidateString(message, "message", 1, MaxLogMessageLength, true)
}
