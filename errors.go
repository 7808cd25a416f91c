package kom

import "github.com/kogtools/kom/internal/komtype"

// Error types re-exported from internal/komtype. The set is closed: every
// failure the codec reports is one of these, matched with errors.As.
type (
	// FormatError reports a malformed archive on parse: bad magic,
	// unknown version, truncated tables, or out-of-range entry slices.
	// The archive is unusable.
	FormatError = komtype.FormatError

	// CorruptEntryError reports a failed decompression of one entry.
	// Extraction of other entries is unaffected.
	CorruptEntryError = komtype.CorruptEntryError

	// NameTooLongError reports an entry name outside the 1-60 byte range.
	NameTooLongError = komtype.NameTooLongError

	// ReservedNameError reports use of the manifest's reserved name.
	ReservedNameError = komtype.ReservedNameError

	// DuplicateNameError reports an entry name already in the archive.
	DuplicateNameError = komtype.DuplicateNameError

	// MissingEntryError reports a reference that did not resolve.
	MissingEntryError = komtype.MissingEntryError
)

// ErrSizeLimit is the cause wrapped in a CorruptEntryError when an entry
// decompresses past the configured MaxEntrySize.
var ErrSizeLimit = komtype.ErrSizeLimit
