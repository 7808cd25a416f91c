// Package record encodes and decodes the fixed 72-byte per-entry metadata
// records that follow the archive header.
package record

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/kogtools/kom/internal/komtype"
)

const (
	// Size is the encoded record length in bytes.
	Size = 72

	// NameSize is the fixed width of the NUL-padded name field.
	NameSize = 60
)

// Record is the decoded metadata for one entry.
type Record struct {
	// Name is the entry name with trailing NUL padding removed.
	Name string

	// UncompressedSize is the original byte count of the entry content.
	UncompressedSize uint32

	// CompressedSize is the stored byte count of the entry payload.
	CompressedSize uint32

	// RelativeOffset is the payload's offset into the data blob.
	RelativeOffset uint32
}

// Parse decodes one record from the start of b. The offset is the record's
// position in the archive and is only used for error reporting.
func Parse(b []byte, offset int64) (Record, error) {
	if len(b) < Size {
		return Record{}, &komtype.FormatError{Offset: offset, Reason: fmt.Sprintf("short metadata record: %d bytes, need %d", len(b), Size)}
	}

	name := b[:NameSize]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		// Padding must be NUL to the end of the field.
		for _, c := range name[i:] {
			if c != 0 {
				return Record{}, &komtype.FormatError{Offset: offset, Reason: "entry name contains interior NUL"}
			}
		}
		name = name[:i]
	}
	if len(name) == 0 {
		return Record{}, &komtype.FormatError{Offset: offset, Reason: "empty entry name"}
	}
	for _, c := range name {
		if c >= 0x80 {
			return Record{}, &komtype.FormatError{Offset: offset, Reason: fmt.Sprintf("entry name %q is not ASCII", name)}
		}
	}

	return Record{
		Name:             string(name),
		UncompressedSize: binary.LittleEndian.Uint32(b[NameSize:]),
		CompressedSize:   binary.LittleEndian.Uint32(b[NameSize+4:]),
		RelativeOffset:   binary.LittleEndian.Uint32(b[NameSize+8:]),
	}, nil
}

// Append encodes r and appends the 72 bytes to dst.
func (r Record) Append(dst []byte) ([]byte, error) {
	if len(r.Name) == 0 || len(r.Name) > NameSize {
		return nil, &komtype.NameTooLongError{Name: r.Name}
	}
	for i := 0; i < len(r.Name); i++ {
		if r.Name[i] == 0 || r.Name[i] >= 0x80 {
			return nil, &komtype.FormatError{Offset: -1, Reason: fmt.Sprintf("entry name %q is not ASCII", r.Name)}
		}
	}

	var buf [Size]byte
	copy(buf[:NameSize], r.Name)
	binary.LittleEndian.PutUint32(buf[NameSize:], r.UncompressedSize)
	binary.LittleEndian.PutUint32(buf[NameSize+4:], r.CompressedSize)
	binary.LittleEndian.PutUint32(buf[NameSize+8:], r.RelativeOffset)
	return append(dst, buf[:]...), nil
}
