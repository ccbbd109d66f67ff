package services

import "strings"

// normalizeIdentifier приводит идентификатор (email, registrationNo) к
// каноническому виду перед сравнением: обрезка пробелов и нижний регистр.
func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
