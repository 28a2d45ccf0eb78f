package forms

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLength = 6

	// MaxUploadBytes caps a single image upload before it is base64-encoded.
	MaxUploadBytes = 8 << 20

	PasswordPolicyMessage   = "Password must be at least 6 characters, include 1 capital letter, 1 number, and 1 special character."
	PasswordMismatchMessage = "Passwords do not match"
)

var (
	ErrWeakPassword     = errors.New("weak password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrUploadTooLarge   = errors.New("upload too large")
)

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ValidatePassword enforces the portal password policy: at least six
// characters with an upper-case letter, a digit and a special character.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrWeakPassword
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}

// ConfirmPassword checks the repeated entry first, then the policy.
func ConfirmPassword(password, again string) error {
	if password != again {
		return ErrPasswordMismatch
	}
	return ValidatePassword(password)
}

// Required returns a *MissingFieldError for the first blank field.
func Required(values url.Values, fields ...string) error {
	for _, f := range fields {
		if strings.TrimSpace(values.Get(f)) == "" {
			return &MissingFieldError{Field: f}
		}
	}
	return nil
}

// Username is the canonical form the API expects.
func Username(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Upper trims and upper-cases free text such as place headings.
func Upper(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// EncodeUpload reads the multipart file in field and returns it as raw
// base64 without a data-URL prefix. A request without that file yields "".
func EncodeUpload(r *http.Request, field string) (string, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("read upload %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload %s: %w", field, err)
	}
	if len(data) > MaxUploadBytes {
		return "", ErrUploadTooLarge
	}
	if len(data) == 0 {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// StripDataURL removes a "data:<mime>;base64," prefix if present.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}
