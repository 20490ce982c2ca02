package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPassword_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     RejectReason
	}{
		// "short" also lacks uppercase, digit and special, but the length
		// rule wins.
		{"too short wins over everything", "short", ReasonPasswordTooShort},
		{"seven characters", "Ab1%ab1", ReasonPasswordTooShort},
		{"no uppercase", "abcdefg1%", ReasonPasswordNoUppercase},
		{"no lowercase", "ABCDEFG1%", ReasonPasswordNoLowercase},
		{"no digit", "Abcdefgh%", ReasonPasswordNoDigit},
		{"no special", "Abcdefgh1", ReasonPasswordNoSpecial},
		{"valid", "Pa1sword%", ReasonNone},
		{"valid with backslash special", `Pa1sword\`, ReasonNone},
		{"valid with dash special", "Pa1sword-", ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.password))
		})
	}
}

func TestCheckUsername(t *testing.T) {
	assert.Equal(t, ReasonUsernameTooShort, CheckUsername("abc"))
	assert.Equal(t, ReasonUsernameTooShort, CheckUsername(""))
	assert.Equal(t, ReasonNone, CheckUsername("Admin"))
	assert.Equal(t, ReasonNone, CheckUsername("abcd"))
}

func TestRejectReason_String(t *testing.T) {
	assert.Equal(t, "PasswordMustBeAtLeast8Characters", ReasonPasswordTooShort.String())
	assert.Equal(t, "UsernameMustBeAtLeast4Characters", ReasonUsernameTooShort.String())
	assert.Equal(t, "InvalidUsernameOrPassword", ReasonInvalidUsernameOrPassword.String())
	assert.Equal(t, "RejectReason(99)", RejectReason(99).String())
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t,
		"PasswordMustBeAtLeast8Characters: Password must be at least 8 characters long.",
		FormatMessage(ReasonPasswordTooShort))
	assert.Equal(t,
		"InvalidUsernameOrPassword: Invalid username or password.",
		FormatMessage(ReasonInvalidUsernameOrPassword))
}
