package services

import (
	"regexp"
)

// ValidationError reports a malformed registration field. Message is shown
// to the participant as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// emailPattern only anchors at the start, so trailing text after the domain
// is accepted.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

func ValidateCNP(cnp string) error {
	if len(cnp) != 13 || !digits(cnp) {
		return &ValidationError{Field: "cnp", Message: "CNP must have 13 digits."}
	}
	return nil
}

func ValidatePhone(phone string) error {
	if len(phone) != 10 || !digits(phone) {
		return &ValidationError{Field: "phone", Message: "Phone number must have 10 digits."}
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Invalid email address."}
	}
	return nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
