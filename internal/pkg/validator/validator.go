// Package validator carries the request validation primitives shared by
// the DTO Validate methods.
package validator

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var b strings.Builder
	for i, err := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Field)
		b.WriteString(": ")
		b.WriteString(err.Message)
	}
	return b.String()
}

// ToMap flattens the errors into field-to-message pairs for the API
// error envelope. A later error for the same field wins.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty reports whether s contains nothing but whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// uuidPattern accepts any RFC 4122 UUID; the database generates v4 ids.
var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-8][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func IsValidUUID(id string) bool {
	return uuidPattern.MatchString(strings.ToLower(id))
}

func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidDate parses a YYYY-MM-DD date and returns it alongside the
// verdict so callers do not parse twice.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidPhoneNumber accepts 8 to 15 digits with an optional leading +.
// Spaces and dashes are formatting and get stripped first.
func IsValidPhoneNumber(phone string) bool {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, phone)
	digits = strings.TrimPrefix(digits, "+")

	if len(digits) < 8 || len(digits) > 15 {
		return false
	}
	return IsNumeric(digits)
}

func IsInSlice(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}

var employeeCodePattern = regexp.MustCompile(`^EMP-[0-9A-F]{6}$`)

// IsValidEmployeeCode matches codes of the EMP-3F07A1 form that
// employee provisioning hands out.
func IsValidEmployeeCode(code string) bool {
	return employeeCodePattern.MatchString(code)
}
