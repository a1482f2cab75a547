package render

import "hash/fnv"

// SeedFor derives a stable grain seed so repeated renders of a page match.
func SeedFor(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
