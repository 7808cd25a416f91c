package komtype

// Entry represents one named, individually compressed payload in an archive.
type Entry struct {
	// Name is the entry's file name, ASCII, 1-60 bytes, unique per archive.
	Name string

	// UncompressedSize is the byte count of the original content.
	UncompressedSize uint32

	// CompressedSize is the byte count of Data.
	CompressedSize uint32

	// RelativeOffset is the byte offset of Data measured from the start of
	// the archive's concatenated data blob, not from the file start.
	// Provisional until the next serialization recomputes it.
	RelativeOffset uint32

	// Data holds the zlib-compressed payload. Decompression is computed on
	// demand and never cached on the entry.
	Data []byte
}
