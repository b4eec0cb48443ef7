package helpers

import (
	"math/rand"
	"strings"
	"unicode"
)

func GenerateRandomString(length int) string {
	allowedChars := "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = allowedChars[rand.Intn(len(allowedChars))]
	}
	return string(b)
}

// NormalizeOrgCode trims and uppercases an organization join code. All code
// comparisons run on the normalized form.
func NormalizeOrgCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateOrgCode derives a join code from the organization name, e.g.
// "Sri Venkateswara Temple" -> "SRIVENKA-X7K2Q9".
func GenerateOrgCode(name string) string {
	var prefix strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			prefix.WriteRune(r)
		}
		if prefix.Len() >= 8 {
			break
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("ORG")
	}
	return prefix.String() + "-" + GenerateRandomString(6)
}
