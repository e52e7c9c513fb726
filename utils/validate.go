package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{8,20}$`)

// ValidUsername reports whether the username is 8-20 alphanumeric characters.
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

const passwordSpecials = "!@#$%^&*()"

// ValidPassword reports whether the password is 8-20 characters drawn from
// letters, digits and !@#$%^&*(), with at least one letter, one digit and one
// special character.
func ValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 20 {
		return false
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			return false
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// ValidNickname reports whether the nickname is non-empty and at most 8 characters.
func ValidNickname(nickname string) bool {
	n := utf8.RuneCountInString(nickname)
	return n >= 1 && n <= 8
}

// ValidCategoryName reports whether the category name is non-empty and at most 8 characters.
func ValidCategoryName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= 8
}

// ValidCommentContent reports whether the comment is non-empty and at most 120 characters.
func ValidCommentContent(content string) bool {
	n := utf8.RuneCountInString(content)
	return n >= 1 && n <= 120
}
