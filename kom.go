package kom

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/kogtools/kom/internal/header"
	"github.com/kogtools/kom/internal/komtype"
	"github.com/kogtools/kom/internal/manifest"
	"github.com/kogtools/kom/internal/record"
	"github.com/kogtools/kom/internal/zstream"
)

// Entry represents one named, individually compressed payload.
type Entry = komtype.Entry

// ManifestName is the reserved name of the synthetic manifest entry.
const ManifestName = manifest.EntryName

// DefaultMaxEntrySize is the per-entry decompression limit used when no
// MaxEntrySize option is set.
const DefaultMaxEntrySize = 1 << 30

// EntryInfo is the listing view of one content entry.
type EntryInfo struct {
	// Name is the entry name.
	Name string

	// UncompressedSize is the original byte count of the entry content.
	UncompressedSize uint32

	// CompressedSize is the stored byte count of the entry payload.
	CompressedSize uint32
}

// Archive is a KOM container: a format version and an ordered sequence of
// content entries, with the synthetic crc.xml manifest tracked separately.
//
// An Archive is either parsed from existing bytes with Open or built
// incrementally with New and AddEntry; both forms accept further AddEntry
// calls and support Extract. Archive is not safe for concurrent use;
// callers must serialize access externally.
type Archive struct {
	version  int
	reserved uint32
	entries  []*Entry

	// manifest is the entry parsed from disk, or the one cached by the
	// last Serialize. Any mutation discards it; it is rebuilt from the
	// final entry order on the next Serialize.
	manifest *Entry

	level        int
	maxEntrySize uint64
	logger       *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.logger
}

// New creates an empty archive with the given format version (0 through 5).
func New(version int, opts ...Option) (*Archive, error) {
	if !header.ValidVersion(version) {
		return nil, &komtype.FormatError{Offset: -1, Reason: fmt.Sprintf("unsupported version %d", version)}
	}

	a := &Archive{
		version:      version,
		reserved:     1,
		entries:      make([]*Entry, 0),
		level:        zstream.DefaultLevel,
		maxEntrySize: DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Open parses an archive from data. The last metadata record always
// describes the manifest; it is split off from the content entries.
//
// Entry payloads are copied out of data, so the caller may reuse the input
// buffer after Open returns.
func Open(data []byte, opts ...Option) (*Archive, error) {
	h, err := header.Parse(data)
	if err != nil {
		return nil, err
	}
	if h.EntryCount == 0 {
		return nil, &komtype.FormatError{Offset: header.Size - 8, Reason: "archive has no manifest entry"}
	}

	tableSize := uint64(record.Size) * uint64(h.EntryCount)
	blobStart := uint64(header.Size) + tableSize
	if blobStart > uint64(len(data)) {
		return nil, &komtype.FormatError{Offset: int64(header.Size), Reason: fmt.Sprintf("truncated metadata table: %d records declared", h.EntryCount)}
	}
	blob := data[blobStart:]

	entries := make([]*Entry, 0, h.EntryCount)
	for i := uint64(0); i < uint64(h.EntryCount); i++ {
		recOff := uint64(header.Size) + i*record.Size
		rec, err := record.Parse(data[recOff:recOff+record.Size], int64(recOff))
		if err != nil {
			return nil, err
		}

		end := uint64(rec.RelativeOffset) + uint64(rec.CompressedSize)
		if end > uint64(len(blob)) {
			return nil, &komtype.FormatError{
				Offset: int64(recOff),
				Reason: fmt.Sprintf("entry %q spans [%d, %d) beyond data blob of %d bytes", rec.Name, rec.RelativeOffset, end, len(blob)),
			}
		}

		entries = append(entries, &Entry{
			Name:             rec.Name,
			UncompressedSize: rec.UncompressedSize,
			CompressedSize:   rec.CompressedSize,
			RelativeOffset:   rec.RelativeOffset,
			Data:             bytes.Clone(blob[rec.RelativeOffset:end]),
		})
	}

	a := &Archive{
		version:      h.Version,
		reserved:     h.Reserved,
		entries:      entries[:len(entries)-1],
		manifest:     entries[len(entries)-1],
		level:        zstream.DefaultLevel,
		maxEntrySize: DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.log().Debug("opened archive",
		"version", a.version,
		"entries", len(a.entries),
		"manifest", a.manifest.Name)
	return a, nil
}

// Version returns the archive's format version digit.
func (a *Archive) Version() int {
	return a.version
}

// Len returns the number of content entries, excluding the manifest.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Entries returns the listing view of the content entries in their current
// order: parsed order for opened archives, insertion order for constructed
// ones. Serialization always uses ascending name order regardless.
func (a *Archive) Entries() []EntryInfo {
	infos := make([]EntryInfo, 0, len(a.entries))
	for _, e := range a.entries {
		infos = append(infos, EntryInfo{
			Name:             e.Name,
			UncompressedSize: e.UncompressedSize,
			CompressedSize:   e.CompressedSize,
		})
	}
	return infos
}

// AddEntry compresses raw and appends it as a new content entry.
//
// The name must be 1-60 bytes of ASCII, must not be the reserved manifest
// name, and must not collide with an existing entry. Each violation is a
// distinct error type so callers can decide between skipping the entry and
// aborting the whole operation.
func (a *Archive) AddEntry(name string, raw []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	for _, e := range a.entries {
		if e.Name == name {
			return &komtype.DuplicateNameError{Name: name}
		}
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return &komtype.FormatError{Offset: -1, Reason: fmt.Sprintf("entry %q is %d bytes, format limit is 4 GiB", name, len(raw))}
	}

	data, err := zstream.Compress(raw, a.level)
	if err != nil {
		return err
	}

	a.entries = append(a.entries, &Entry{
		Name:             name,
		UncompressedSize: uint32(len(raw)),
		CompressedSize:   uint32(len(data)),
		RelativeOffset:   a.nextOffset(),
		Data:             data,
	})
	a.manifest = nil

	a.log().Debug("added entry", "name", name, "size", len(raw), "compressed", len(data))
	return nil
}

// RemoveEntry deletes the referenced content entry. The manifest cannot be
// removed; addressing it yields a ReservedNameError.
func (a *Archive) RemoveEntry(ref Ref) error {
	if ref.Kind == komtype.RefManifest || (ref.Kind == komtype.RefName && ref.Name == ManifestName) {
		return &komtype.ReservedNameError{Name: ManifestName}
	}

	for i, e := range a.entries {
		if matches(ref, i, e.Name) {
			a.entries = slices.Delete(a.entries, i, i+1)
			a.manifest = nil
			a.log().Debug("removed entry", "name", e.Name)
			return nil
		}
	}
	return &komtype.MissingEntryError{Ref: ref.String()}
}

// Serialize emits the archive as header || metadata table || payloads.
//
// Content entries are ordered by ascending name, offsets are recomputed
// from zero by cumulative compressed size, and the manifest is rebuilt from
// that exact order and appended as the final entry continuing the offset
// sequence. Absent intervening mutation the output is bit-identical across
// calls.
func (a *Archive) Serialize() ([]byte, error) {
	sorted := slices.Clone(a.entries)
	slices.SortFunc(sorted, func(x, y *Entry) int {
		return strings.Compare(x.Name, y.Name)
	})

	var total uint64
	for _, e := range sorted {
		if total > math.MaxUint32 {
			return nil, &komtype.FormatError{Offset: -1, Reason: "data blob exceeds 4 GiB offset range"}
		}
		e.RelativeOffset = uint32(total)
		total += uint64(e.CompressedSize)
	}

	mfst, err := a.buildManifestEntry(sorted, total)
	if err != nil {
		return nil, err
	}
	a.manifest = mfst
	total += uint64(mfst.CompressedSize)

	size := uint64(header.Size) + uint64(record.Size)*uint64(len(sorted)+1) + total
	buf := make([]byte, 0, size)

	h := header.Header{
		Version:    a.version,
		EntryCount: uint32(len(sorted) + 1),
		Reserved:   a.reserved,
	}
	buf, err = h.Append(buf)
	if err != nil {
		return nil, err
	}

	all := append(sorted, mfst)
	for _, e := range all {
		rec := record.Record{
			Name:             e.Name,
			UncompressedSize: e.UncompressedSize,
			CompressedSize:   e.CompressedSize,
			RelativeOffset:   e.RelativeOffset,
		}
		if buf, err = rec.Append(buf); err != nil {
			return nil, err
		}
	}
	for _, e := range all {
		buf = append(buf, e.Data...)
	}

	a.log().Debug("serialized archive",
		"version", a.version,
		"entries", len(sorted)+1,
		"bytes", len(buf))
	return buf, nil
}

// Extract resolves ref and returns the entry's decompressed content.
// A broken compressed stream yields a CorruptEntryError scoped to that one
// entry; the rest of the archive stays readable.
func (a *Archive) Extract(ref Ref) ([]byte, error) {
	if ref.Kind == komtype.RefManifest || (ref.Kind == komtype.RefName && ref.Name == ManifestName) {
		return a.ManifestXML()
	}

	for i, e := range a.entries {
		if matches(ref, i, e.Name) {
			return zstream.Decompress(e.Name, e.Data, a.maxEntrySize)
		}
	}
	return nil, &komtype.MissingEntryError{Ref: ref.String()}
}

// ManifestXML returns the manifest document: the stored payload when one
// was parsed from disk or cached by Serialize, otherwise a fresh document
// built from the current entries in ascending name order.
func (a *Archive) ManifestXML() ([]byte, error) {
	if a.manifest != nil {
		return zstream.Decompress(a.manifest.Name, a.manifest.Data, a.maxEntrySize)
	}

	sorted := slices.Clone(a.entries)
	slices.SortFunc(sorted, func(x, y *Entry) int {
		return strings.Compare(x.Name, y.Name)
	})
	return manifest.Build(a.version, sorted)
}

// buildManifestEntry compresses a freshly built manifest document into the
// synthetic entry placed at the given offset.
func (a *Archive) buildManifestEntry(sorted []*Entry, offset uint64) (*Entry, error) {
	xmlBytes, err := manifest.Build(a.version, sorted)
	if err != nil {
		return nil, err
	}
	data, err := zstream.Compress(xmlBytes, a.level)
	if err != nil {
		return nil, err
	}
	if offset > math.MaxUint32 {
		return nil, &komtype.FormatError{Offset: -1, Reason: "data blob exceeds 4 GiB offset range"}
	}
	return &Entry{
		Name:             ManifestName,
		UncompressedSize: uint32(len(xmlBytes)),
		CompressedSize:   uint32(len(data)),
		RelativeOffset:   uint32(offset),
		Data:             data,
	}, nil
}

// nextOffset returns the provisional offset for a newly added entry: one
// past the last entry's payload. Serialize recomputes all offsets anyway.
func (a *Archive) nextOffset() uint32 {
	if len(a.entries) == 0 {
		return 0
	}
	last := a.entries[len(a.entries)-1]
	return last.RelativeOffset + last.CompressedSize
}

// matches reports whether ref addresses the content entry at position i
// with the given name.
func matches(ref Ref, i int, name string) bool {
	switch ref.Kind {
	case komtype.RefIndex:
		return ref.Index == i
	case komtype.RefName:
		return ref.Name == name
	default:
		return false
	}
}

// validateName checks the constraints AddEntry places on entry names.
func validateName(name string) error {
	if name == ManifestName {
		return &komtype.ReservedNameError{Name: name}
	}
	if len(name) == 0 || len(name) > record.NameSize {
		return &komtype.NameTooLongError{Name: name}
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 || name[i] >= 0x80 {
			return &komtype.FormatError{Offset: -1, Reason: fmt.Sprintf("entry name %q is not ASCII", name)}
		}
	}
	return nil
}
