package komtype

import "strconv"

// RefKind identifies how a Ref addresses an entry.
type RefKind uint8

const (
	// RefIndex addresses a content entry by position.
	RefIndex RefKind = iota

	// RefName addresses a content entry by name.
	RefName

	// RefManifest addresses the synthetic manifest entry.
	RefManifest
)

// Ref addresses one entry of an archive: by position, by name, or the
// manifest sentinel. The zero Ref is ByIndex(0).
type Ref struct {
	Kind  RefKind
	Index int
	Name  string
}

// ByIndex returns a Ref addressing the content entry at position i.
func ByIndex(i int) Ref {
	return Ref{Kind: RefIndex, Index: i}
}

// ByName returns a Ref addressing the content entry with the given name.
// The reserved manifest name resolves to the manifest entry.
func ByName(name string) Ref {
	return Ref{Kind: RefName, Name: name}
}

// Manifest returns the Ref addressing the synthetic manifest entry.
func Manifest() Ref {
	return Ref{Kind: RefManifest}
}

// String returns a short human-readable form used in error messages.
func (r Ref) String() string {
	switch r.Kind {
	case RefIndex:
		return "index " + strconv.Itoa(r.Index)
	case RefName:
		return strconv.Quote(r.Name)
	case RefManifest:
		return "manifest"
	default:
		return "unknown"
	}
}
