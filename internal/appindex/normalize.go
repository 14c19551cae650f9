package appindex

import "strings"

// Normalize puts an identifier into its canonical comparison form: lower-cased,
// otherwise byte-for-byte.
func Normalize(identifier string) string {
	return strings.ToLower(identifier)
}

// Tokens splits a normalized identifier on dots. Reverse-DNS identifiers like
// "com.example.myapp" yield ["com", "example", "myapp"].
func Tokens(identifier string) []string {
	return strings.Split(Normalize(identifier), ".")
}
