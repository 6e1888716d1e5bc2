// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"
)

const MaxUsernameLen = 36

type UserID string

// User is the public identity of a connected client as other peers see it.
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// NormalizeName trims the display name and cuts it to MaxUsernameLen runes.
// An empty result is valid: the name is optional.
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) <= MaxUsernameLen {
		return name
	}
	runes := []rune(name)
	return strings.TrimSpace(string(runes[:MaxUsernameLen]))
}
