package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "Alice", want: "Alice"},
		{in: "  Bob  ", want: "Bob"},
		{in: "", want: ""},
		{in: strings.Repeat("ж", MaxUsernameLen), want: strings.Repeat("ж", MaxUsernameLen)},
		{in: strings.Repeat("a", MaxUsernameLen+1), want: strings.Repeat("a", MaxUsernameLen)},
		{in: strings.Repeat("ü", 100), want: strings.Repeat("ü", MaxUsernameLen)},
		{in: strings.Repeat("a", MaxUsernameLen-1) + " tail", want: strings.Repeat("a", MaxUsernameLen-1)},
	}
	for _, tc := range cases {
		got := NormalizeName(tc.in)
		if got != tc.want {
			t.Fatalf("NormalizeName(%q)=%q, want %q", tc.in, got, tc.want)
		}
		if n := utf8.RuneCountInString(got); n > MaxUsernameLen {
			t.Fatalf("NormalizeName(%q) has %d runes", tc.in, n)
		}
	}
}
