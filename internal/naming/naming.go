// Package naming converts hyphen-separated element identifiers to the
// camelCase component keys used inside values files.
package naming

import "strings"

// ToCamel converts a hyphen-separated lowercase identifier to camelCase:
// "security-baseline" becomes "securityBaseline". The first segment is
// lowercased, every later segment is capitalised; empty segments from
// doubled hyphens are skipped. Total for any input of letters, digits and
// hyphens.
func ToCamel(name string) string {
	parts := strings.Split(name, "-")
	var b strings.Builder
	first := true
	for _, p := range parts {
		if p == "" {
			continue
		}
		if first {
			b.WriteString(strings.ToLower(p))
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}
