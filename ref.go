package kom

import "github.com/kogtools/kom/internal/komtype"

// Ref addresses one entry of an archive: by position, by name, or the
// manifest sentinel.
type Ref = komtype.Ref

// ByIndex returns a Ref addressing the content entry at position i.
func ByIndex(i int) Ref {
	return komtype.ByIndex(i)
}

// ByName returns a Ref addressing the content entry with the given name.
// The reserved manifest name resolves to the manifest entry.
func ByName(name string) Ref {
	return komtype.ByName(name)
}

// Manifest returns the Ref addressing the synthetic manifest entry.
func Manifest() Ref {
	return komtype.Manifest()
}
