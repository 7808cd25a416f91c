// Package zstream wraps the zlib codec and checksum used for KOM entry
// payloads.
package zstream

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/kogtools/kom/internal/komtype"
)

// Compression levels accepted by Compress, re-exported so callers do not
// import the zlib package directly.
const (
	DefaultLevel    = zlib.DefaultCompression
	BestSpeed       = zlib.BestSpeed
	BestCompression = zlib.BestCompression
)

// Compress deflates raw at the given level. Output is deterministic for a
// fixed level and input, which serialization idempotency relies on.
func Compress(raw []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(raw)/2 + 64)

	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("kom: zlib writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, fmt.Errorf("kom: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("kom: compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates an entry payload. A broken stream yields a
// CorruptEntryError for name; other entries of the archive stay readable.
// maxSize bounds the inflated size to guard against decompression bombs,
// 0 means no limit.
func Decompress(name string, data []byte, maxSize uint64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &komtype.CorruptEntryError{Name: name, Err: err}
	}
	defer zr.Close()

	if maxSize >= math.MaxInt64 {
		maxSize = 0
	}
	var r io.Reader = zr
	if maxSize > 0 {
		r = io.LimitReader(zr, int64(maxSize)+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &komtype.CorruptEntryError{Name: name, Err: err}
	}
	if maxSize > 0 && uint64(len(raw)) > maxSize {
		return nil, &komtype.CorruptEntryError{Name: name, Err: komtype.ErrSizeLimit}
	}
	return raw, nil
}

// Checksum returns the CRC-32 (IEEE) of b. Manifest checksums are computed
// over the compressed payload bytes, not the original content; that quirk is
// part of the on-disk contract and callers must not "fix" it.
func Checksum(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// FormatChecksum renders a checksum the way the manifest stores it:
// exactly eight lowercase hex digits.
func FormatChecksum(sum uint32) string {
	return fmt.Sprintf("%08x", sum)
}
