package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// NormalizeEmail lower-cases and trims an address before lookups.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Dedupe returns the non-empty values of in, first occurrence wins.
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
