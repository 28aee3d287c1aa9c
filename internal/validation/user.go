package validation

import (
	"regexp"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/request"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

// ValidateCredentials validates a registration or login request.
//
// Required fields:
//   - username: 3 to 50 letters, digits, '_', '.' or '-'
//   - password: at least MinPasswordLength characters
func ValidateCredentials(req request.CredentialsRequest) error {
	errors := make(map[string]string)

	if !usernamePattern.MatchString(req.Username) {
		errors["username"] = "username must be 3-50 letters, digits, '_', '.' or '-'"
	}
	if len(req.Password) < MinPasswordLength {
		errors["password"] = "password is too short"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
