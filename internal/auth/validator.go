package auth

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samandr77/healthportal/internal/entity"
)

const (
	EmailMaxLen       = 255
	NameMinLen        = 2
	NameMaxLen        = 50
	PasswordMinLen    = 8
	dateOfBirthLayout = "2006-01-02"
)

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegexp = regexp.MustCompile(`^\+?[0-9][0-9\s()-]{6,19}$`)
	nameRegexp  = regexp.MustCompile(`^\p{L}+([\s'-]\p{L}+)*$`)
	spaceRegexp = regexp.MustCompile(`\s+`)
)

func ValidateEmail(email string) error {
	if email == "" {
		return entity.NewValidationError("email", "Please enter your email")
	}

	if len(email) > EmailMaxLen || !emailRegexp.MatchString(email) || strings.Contains(email, "..") {
		return entity.NewValidationError("email", "Please enter a valid email address")
	}

	return nil
}

func NormalizeEmail(email string) string {
	return spaceRegexp.ReplaceAllString(strings.ToLower(strings.TrimSpace(email)), "")
}

func ValidatePassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < PasswordMinLen {
		return entity.NewValidationError("password", "Password must be at least 8 characters")
	}

	if password != confirm {
		return entity.NewValidationError("confirmPassword", "Passwords do not match")
	}

	return nil
}

func ValidateName(field, name string) error {
	n := utf8.RuneCountInString(name)
	if n < NameMinLen || n > NameMaxLen || !nameRegexp.MatchString(name) {
		return entity.NewValidationError(field, "Please enter a valid name")
	}

	return nil
}

func validatePhone(phone string) error {
	if phone != "" && !phoneRegexp.MatchString(phone) {
		return entity.NewValidationError("phone", "Please enter a valid phone number")
	}

	return nil
}

func validateDateOfBirth(dob string, now time.Time) error {
	if dob == "" {
		return nil
	}

	t, err := time.Parse(dateOfBirthLayout, dob)
	if err != nil || t.After(now) {
		return entity.NewValidationError("dateOfBirth", "Please enter a valid date of birth")
	}

	return nil
}
