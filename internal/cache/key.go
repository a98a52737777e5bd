package cache

import "strings"

// Key is an ordered tuple identifying one cached resource: a resource name
// followed by its filter parameters. Prefix matching lets a write
// invalidate every variant of a listing in one go.
type Key []string

func K(parts ...string) Key {
	return Key(parts)
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}
