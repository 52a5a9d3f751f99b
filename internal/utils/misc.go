package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

func Val[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// NilIfBlank returns nil for an empty string, otherwise a pointer to it.
func NilIfBlank(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SplitCSV splits a comma separated list, dropping blank entries.
func SplitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
