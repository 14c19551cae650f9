// Package naming derives display labels from bundle-identifier-like strings.
// The output is advisory only — it is shown to the user and embedded in hint
// text, never used for ownership matching.
package naming

import (
	"strings"
	"unicode"
)

// PlaceholderName is returned when no identifier is available.
const PlaceholderName = "Unknown App"

// Infer derives a human-readable application name from an identifier such as
// "com.example.MyApp". It takes the final dot-separated segment, splits
// compact PascalCase/camelCase words, turns dashes and underscores into
// spaces and title-cases the result.
func Infer(identifier string) string {
	if identifier == "" {
		return PlaceholderName
	}

	parts := strings.Split(identifier, ".")
	name := parts[len(parts)-1]
	if name == "" {
		return PlaceholderName
	}

	name = splitCamelCase(name)
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	return titleCase(name)
}

// splitCamelCase inserts a space at every lowercase→uppercase boundary.
func splitCamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	return b.String()
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
