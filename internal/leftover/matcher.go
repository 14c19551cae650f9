package leftover

import (
	"strings"

	"github.com/appsweep/appsweep/internal/appindex"
)

// A matcher reports whether some installed application owns the artifact key.
// Keys are normalized before matching; index entries are stored normalized.
// Matchers only ever suppress findings, so a looser matcher means fewer
// reported leftovers, never wrong deletions.
type matcher func(key string, index appindex.Index) bool

// matchExact claims an artifact only when an installed identifier equals it.
func matchExact(key string, index appindex.Index) bool {
	return index.Contains(key)
}

// matchSubstring claims an artifact when it contains, or is contained in, any
// installed identifier.
func matchSubstring(key string, index appindex.Index) bool {
	key = appindex.Normalize(key)
	for id := range index {
		if strings.Contains(id, key) || strings.Contains(key, id) {
			return true
		}
	}
	return false
}

// matchToken extends matchSubstring with dot-token equality, so a folder
// named "myapp" is claimed by an installed "com.example.myapp" even when the
// folder name appears nowhere else in the identifier.
func matchToken(key string, index appindex.Index) bool {
	key = appindex.Normalize(key)
	for id := range index {
		if strings.Contains(id, key) || strings.Contains(key, id) {
			return true
		}
		for _, token := range appindex.Tokens(id) {
			if token == key {
				return true
			}
		}
	}
	return false
}

// matchContainedIn claims an artifact only when it is a substring (including
// a prefix or the whole) of an installed identifier. Containment in the other
// direction does not count.
func matchContainedIn(key string, index appindex.Index) bool {
	key = appindex.Normalize(key)
	for id := range index {
		if strings.Contains(id, key) {
			return true
		}
	}
	return false
}
