package komtype

import (
	"errors"
	"fmt"
)

// ErrSizeLimit reports a decompressed entry growing past the configured
// per-entry limit. It is always wrapped in a CorruptEntryError.
var ErrSizeLimit = errors.New("kom: entry exceeds size limit")

// FormatError reports a malformed archive: bad magic, unknown version,
// truncated tables, or an entry slice outside the data blob. The archive is
// unusable once a FormatError is returned from parsing.
type FormatError struct {
	// Offset is the byte position in the source where parsing failed,
	// or -1 when no single position applies.
	Offset int64

	// Reason describes what was wrong at Offset.
	Reason string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return "kom: invalid archive: " + e.Reason
	}
	return fmt.Sprintf("kom: invalid archive at offset %d: %s", e.Offset, e.Reason)
}

// CorruptEntryError reports a failed decompression of a single entry.
// Other entries of the same archive remain extractable.
type CorruptEntryError struct {
	// Name is the entry whose compressed stream could not be read.
	Name string

	// Err is the underlying zlib or limit error.
	Err error
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("kom: corrupt entry %q: %v", e.Name, e.Err)
}

func (e *CorruptEntryError) Unwrap() error { return e.Err }

// NameTooLongError reports an entry name whose length is outside the 1-60
// byte range the metadata record can hold.
type NameTooLongError struct {
	Name string
}

func (e *NameTooLongError) Error() string {
	return fmt.Sprintf("kom: entry name length %d outside 1-60 bytes: %q", len(e.Name), e.Name)
}

// ReservedNameError reports an attempt to add or remove the synthetic
// manifest entry by its reserved name.
type ReservedNameError struct {
	Name string
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("kom: name %q is reserved for the manifest", e.Name)
}

// DuplicateNameError reports an entry name already present in the archive.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("kom: duplicate entry name %q", e.Name)
}

// MissingEntryError reports an entry reference that did not resolve.
type MissingEntryError struct {
	// Ref is the string form of the reference that failed to resolve.
	Ref string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("kom: no entry for reference %s", e.Ref)
}
