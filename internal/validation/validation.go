// Package validation holds the declarative per-endpoint field rules. Every
// field is checked and the first violated rule per field is collected, so a
// 400 response reports the full set of problems at once.
package validation

import (
	"html"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Validator struct {
	errs   []FieldError
	failed map[string]bool
}

func New() *Validator {
	return &Validator{failed: map[string]bool{}}
}

func (v *Validator) Errors() []FieldError {
	return v.errs
}

func (v *Validator) OK() bool {
	return len(v.errs) == 0
}

// Check records message for field when ok is false. Only the first violation
// per field is kept; later rules for an already-failed field are skipped.
func (v *Validator) Check(field string, ok bool, message string) bool {
	if v.failed[field] {
		return false
	}
	if !ok {
		v.failed[field] = true
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
	return ok
}

func (v *Validator) Length(field, value string, min, max int, message string) bool {
	n := len([]rune(value))
	return v.Check(field, n >= min && n <= max, message)
}

func (v *Validator) Email(field, value string) bool {
	_, err := mail.ParseAddress(value)
	return v.Check(field, err == nil, "Please provide a valid email address")
}

func (v *Validator) OneOf(field, value string, allowed []string, message string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return v.Check(field, true, message)
		}
	}
	return v.Check(field, false, message)
}

func (v *Validator) FloatRange(field string, value, min, max float64, message string) bool {
	return v.Check(field, value >= min && value <= max, message)
}

func (v *Validator) IntRange(field string, value, min, max int, message string) bool {
	return v.Check(field, value >= min && value <= max, message)
}

// IntStringRange validates a numeric string such as graduationYear.
func (v *Validator) IntStringRange(field, value string, min, max int, message string) bool {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	return v.Check(field, err == nil && parsed >= min && parsed <= max, message)
}

var nameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)

func (v *Validator) PersonName(field, value string) bool {
	if !v.Length(field, value, 2, 50, field+" must be between 2 and 50 characters") {
		return false
	}
	return v.Check(field, nameRe.MatchString(value), field+" can only contain letters and spaces")
}

var phoneRe = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)

func (v *Validator) Phone(field, value string) bool {
	return v.Check(field, phoneRe.MatchString(value), "Invalid phone number format")
}

// TitleCase collapses whitespace and capitalizes each word, so enum values
// match their canonical form regardless of input casing.
func TitleCase(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Escape neutralizes HTML in free-text fields before they are persisted.
func Escape(value string) string {
	return html.EscapeString(value)
}

func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
