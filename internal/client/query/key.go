package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a cache entry. Two keys are equal when their parts encode
// to the same JSON.
type Key []any

// K builds a key from its parts.
func K(parts ...any) Key { return Key(parts) }

func (k Key) encodeParts() []string {
	out := make([]string, len(k))
	for i, p := range k {
		b, err := json.Marshal(p)
		if err != nil {
			b = []byte(fmt.Sprintf("%q", fmt.Sprint(p)))
		}
		out[i] = string(b)
	}
	return out
}

// Hash is the canonical string form of k.
func (k Key) Hash() string {
	return "[" + strings.Join(k.encodeParts(), ",") + "]"
}

func (k Key) String() string { return k.Hash() }

func (k Key) Equal(other Key) bool { return k.Hash() == other.Hash() }

// HasPrefix reports whether the leading parts of k equal prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	a, b := k.encodeParts(), prefix.encodeParts()
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
