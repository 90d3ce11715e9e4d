package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	MaxNameLength     = 50
	MaxHandleLength   = 20
	MinHandleLength   = 3
)

var emailPattern = regexp.MustCompile(`^[a-z0-9]+[._]?[a-z0-9]+[@]\w+[.]\w{2,3}(\.\w{2})?$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail expects an already normalized address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= MaxNameLength
}

func ValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}

func ValidHandle(handle string) bool {
	n := utf8.RuneCountInString(handle)
	return n >= MinHandleLength && n <= MaxHandleLength
}
