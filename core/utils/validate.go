package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// IsValidHexColor reports whether s is a "#rgb" or "#rrggbb" color.
func IsValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}
