// Package validation provides input validation utilities
package validation

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// urlPattern matches http(s) URLs the way card links and avatars are
// expected to look.
var urlPattern = regexp.MustCompile(`^http[s]?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)

// ValidateName checks a display name or card title (2-30 characters).
func ValidateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(2, 30),
	)
}

// ValidateAbout checks the profile "about" field (2-30 characters).
func ValidateAbout(about string) error {
	return validation.Validate(about,
		validation.Required,
		validation.Length(2, 30),
	)
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	return validation.Validate(email,
		validation.Required,
		validation.Length(0, 254),
		is.Email,
	)
}

// ValidateURL checks that a link or avatar is URL-shaped.
func ValidateURL(link string) error {
	return validation.Validate(link,
		validation.Required,
		validation.Match(urlPattern),
	)
}

// ValidatePassword checks password length bounds. Passwords are stored only
// as bcrypt hashes, which cap input at 72 bytes.
func ValidatePassword(password string) error {
	return validation.Validate(password,
		validation.Required,
		validation.Length(8, 72),
	)
}
