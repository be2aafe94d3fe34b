// Package clusterutil holds the small pieces shared by the three container
// clusters: the key-to-string rendering the shard router hashes on.
package clusterutil

import "fmt"

// Stringify renders a key for shard routing. A key implementing
// fmt.Stringer uses that rendering directly (this is a strict superset of
// the original's Display-bound generic routing); any other key falls back
// to Go's standard "%v" formatting, which is the same mechanism the
// original's generic Display-bound routing amounts to for primitive key
// types such as strings and integers.
func Stringify[K any](key K) string {
	if s, ok := any(key).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", key)
}
