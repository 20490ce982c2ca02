// Package policy validates password and username strength for login and
// user creation. Rules are checked in a fixed order and the first failing
// rule wins, so callers get a single stable rejection reason.
package policy

import (
	"fmt"
	"strings"
	"unicode"
)

// RejectReason enumerates the causes of a login or validation rejection.
type RejectReason int

const (
	// ReasonNone means the attempt was not rejected.
	ReasonNone RejectReason = iota

	// ReasonUnauthorized means the attempt was unauthorized.
	ReasonUnauthorized

	// ReasonPasswordTooShort means the password is shorter than 8 characters.
	ReasonPasswordTooShort

	// ReasonPasswordNoLowercase means the password lacks a lowercase letter.
	ReasonPasswordNoLowercase

	// ReasonPasswordNoUppercase means the password lacks an uppercase letter.
	ReasonPasswordNoUppercase

	// ReasonPasswordNoDigit means the password lacks a digit.
	ReasonPasswordNoDigit

	// ReasonPasswordNoSpecial means the password lacks a special character.
	ReasonPasswordNoSpecial

	// ReasonUsernameTooShort means the username is shorter than 4 characters.
	ReasonUsernameTooShort

	// ReasonFailedToCreateAdminUser means the bootstrap admin could not be
	// persisted.
	ReasonFailedToCreateAdminUser

	// ReasonInvalidUsernameOrPassword means the credentials did not match.
	ReasonInvalidUsernameOrPassword

	// ReasonNotFound means data related to the user was not found.
	ReasonNotFound
)

// SpecialCharacters is the set a password must draw at least one character from.
const SpecialCharacters = `!@#$%^&*()_+/\-=[]{}|;:,.<>?~`

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 4
)

var reasonNames = map[RejectReason]string{
	ReasonNone:                      "None",
	ReasonUnauthorized:              "Unauthorized",
	ReasonPasswordTooShort:          "PasswordMustBeAtLeast8Characters",
	ReasonPasswordNoLowercase:       "PasswordMustContainAtLeastOneLowercaseLetter",
	ReasonPasswordNoUppercase:       "PasswordMustContainAtLeastOneUppercaseLetter",
	ReasonPasswordNoDigit:           "PasswordMustContainAtLeastOneDigit",
	ReasonPasswordNoSpecial:         "PasswordMustContainAtLeastOneSpecialCharacter",
	ReasonUsernameTooShort:          "UsernameMustBeAtLeast4Characters",
	ReasonFailedToCreateAdminUser:   "FailedToCreateAdminUser",
	ReasonInvalidUsernameOrPassword: "InvalidUsernameOrPassword",
	ReasonNotFound:                  "NotFound",
}

// reasonMessages is the static mapping from rejection reasons to
// human-readable messages.
var reasonMessages = map[RejectReason]string{
	ReasonNone:                      "",
	ReasonUnauthorized:              "Unauthorized",
	ReasonPasswordTooShort:          "Password must be at least 8 characters long.",
	ReasonPasswordNoLowercase:       "Password must contain at least one lowercase letter.",
	ReasonPasswordNoUppercase:       "Password must contain at least one uppercase letter.",
	ReasonPasswordNoDigit:           "Password must contain at least one number.",
	ReasonPasswordNoSpecial:         "Password must contain at least one special character.",
	ReasonUsernameTooShort:          "Username must be at least 4 characters long.",
	ReasonFailedToCreateAdminUser:   "Failed to create admin user.",
	ReasonInvalidUsernameOrPassword: "Invalid username or password.",
	ReasonNotFound:                  "",
}

// String returns the stable enumerated name of the reason.
func (r RejectReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RejectReason(%d)", int(r))
}

// Message returns the human-readable message for the reason.
func (r RejectReason) Message() string {
	return reasonMessages[r]
}

// FormatMessage renders a reason as "<Name>: <message>" for transport to
// callers.
func FormatMessage(r RejectReason) string {
	return fmt.Sprintf("%s: %s", r.String(), r.Message())
}

// CheckPassword validates the password against the complexity rules, in order:
// length, uppercase, lowercase, digit, special character. It returns
// ReasonNone when the password is acceptable.
func CheckPassword(password string) RejectReason {
	if len(password) < MinPasswordLength {
		return ReasonPasswordTooShort
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return ReasonPasswordNoUppercase
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		return ReasonPasswordNoLowercase
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return ReasonPasswordNoDigit
	}
	if !strings.ContainsAny(password, SpecialCharacters) {
		return ReasonPasswordNoSpecial
	}
	return ReasonNone
}

// CheckUsername validates the username. The only rule is a minimum length.
func CheckUsername(username string) RejectReason {
	if len(username) < MinUsernameLength {
		return ReasonUsernameTooShort
	}
	return ReasonNone
}
