// Package header encodes and decodes the fixed 60-byte KOM archive header.
package header

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/kogtools/kom/internal/komtype"
)

const (
	// Size is the encoded header length in bytes.
	Size = 60

	// MinVersion and MaxVersion bound the known format version tags.
	MinVersion = 0
	MaxVersion = 5

	// magicPrefix precedes the version tag in the 27-byte magic field.
	magicPrefix = "KOG GC TEAM MASSFILE "

	// magicSize is the length of the magic-plus-version field.
	magicSize = 27

	// reservedPad is the zero-filled gap between the magic field and the
	// entry count.
	reservedPad = 25
)

// Header is the decoded archive header.
type Header struct {
	// Version is the format version digit, 0 through 5.
	Version int

	// EntryCount is the number of metadata records that follow, including
	// the manifest entry.
	EntryCount uint32

	// Reserved is the trailing 32-bit field. Every observed archive stores
	// 1 here; its meaning is unknown and the value is carried through
	// verbatim so rewritten archives round-trip.
	Reserved uint32
}

// FormatVersion renders a version digit as the tag embedded in the header
// magic and in the manifest, e.g. "V.0.2.".
func FormatVersion(version int) string {
	return fmt.Sprintf("V.0.%d.", version)
}

// ValidVersion reports whether version is one of the known format tags.
func ValidVersion(version int) bool {
	return version >= MinVersion && version <= MaxVersion
}

// Parse decodes the archive header from the start of b.
func Parse(b []byte) (Header, error) {
	if len(b) < Size {
		return Header{}, &komtype.FormatError{Offset: 0, Reason: fmt.Sprintf("short header: %d bytes, need %d", len(b), Size)}
	}

	magic := string(b[:magicSize])
	parts := strings.Split(magic, ".")
	if len(parts) < 2 {
		return Header{}, &komtype.FormatError{Offset: 0, Reason: "not a KOM archive"}
	}
	version, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return Header{}, &komtype.FormatError{Offset: 0, Reason: "not a KOM archive"}
	}
	if !ValidVersion(version) {
		return Header{}, &komtype.FormatError{Offset: 0, Reason: fmt.Sprintf("unsupported version %d", version)}
	}
	if magic != magicPrefix+FormatVersion(version) {
		return Header{}, &komtype.FormatError{Offset: 0, Reason: "not a KOM archive"}
	}

	return Header{
		Version:    version,
		EntryCount: binary.LittleEndian.Uint32(b[magicSize+reservedPad:]),
		Reserved:   binary.LittleEndian.Uint32(b[magicSize+reservedPad+4:]),
	}, nil
}

// Append encodes h and appends the 60 bytes to dst.
func (h Header) Append(dst []byte) ([]byte, error) {
	if !ValidVersion(h.Version) {
		return nil, &komtype.FormatError{Offset: -1, Reason: fmt.Sprintf("unsupported version %d", h.Version)}
	}

	var buf [Size]byte
	copy(buf[:magicSize], magicPrefix+FormatVersion(h.Version))
	binary.LittleEndian.PutUint32(buf[magicSize+reservedPad:], h.EntryCount)
	binary.LittleEndian.PutUint32(buf[magicSize+reservedPad+4:], h.Reserved)
	return append(dst, buf[:]...), nil
}

// Encode returns the 60-byte encoding of h.
func (h Header) Encode() ([]byte, error) {
	return h.Append(make([]byte, 0, Size))
}
