// Package manifest builds and parses the crc.xml integrity manifest stored
// as the last entry of every KOM archive.
//
// The manifest is descriptive only. It is regenerated from the final entry
// order on every serialization and is never consulted to validate entries
// when an archive is opened.
package manifest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/kogtools/kom/internal/header"
	"github.com/kogtools/kom/internal/komtype"
	"github.com/kogtools/kom/internal/zstream"
)

// EntryName is the reserved name of the synthetic manifest entry.
const EntryName = "crc.xml"

// xmlDecl matches the declaration the original tooling emits; manifest
// content is ASCII by construction (entry names are validated ASCII).
const xmlDecl = `<?xml version="1.0" encoding="ascii"?>` + "\n"

// Doc is the manifest document.
//
// Schema: FileInfo > Version > Item[@Name=version tag] and
// FileInfo > File > Item[@Name,@Size,@Version,@CheckSum] per content entry.
type Doc struct {
	XMLName xml.Name       `xml:"FileInfo"`
	Version VersionSection `xml:"Version"`
	File    FileSection    `xml:"File"`
}

// VersionSection holds the single archive version record.
type VersionSection struct {
	Item VersionItem `xml:"Item"`
}

// VersionItem carries the formatted version tag, e.g. "V.0.2.".
type VersionItem struct {
	Name string `xml:"Name,attr"`
}

// FileSection holds one item per content entry, in serialized order.
type FileSection struct {
	Items []FileItem `xml:"Item"`
}

// FileItem describes one content entry.
type FileItem struct {
	// Name is the entry name.
	Name string `xml:"Name,attr"`

	// Size is the entry's uncompressed byte count.
	Size uint32 `xml:"Size,attr"`

	// Version is the literal "0" in every observed archive.
	Version string `xml:"Version,attr"`

	// CheckSum is the CRC-32 of the entry's compressed payload as eight
	// lowercase hex digits.
	CheckSum string `xml:"CheckSum,attr"`
}

// Build renders the manifest for the given archive version and entries.
// Entries must already be in their final serialized order; the checksum of
// each is computed over its compressed payload.
func Build(version int, entries []*komtype.Entry) ([]byte, error) {
	if !header.ValidVersion(version) {
		return nil, &komtype.FormatError{Offset: -1, Reason: fmt.Sprintf("unsupported version %d", version)}
	}

	doc := Doc{
		Version: VersionSection{Item: VersionItem{Name: header.FormatVersion(version)}},
		File:    FileSection{Items: make([]FileItem, 0, len(entries))},
	}
	for _, e := range entries {
		doc.File.Items = append(doc.File.Items, FileItem{
			Name:     e.Name,
			Size:     e.UncompressedSize,
			Version:  "0",
			CheckSum: zstream.FormatChecksum(zstream.Checksum(e.Data)),
		})
	}

	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("kom: marshal manifest: %w", err)
	}

	out := make([]byte, 0, len(xmlDecl)+len(body)+1)
	out = append(out, xmlDecl...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// Parse decodes a manifest document for inspection or passthrough. Opening
// an archive never parses the manifest to validate the other entries.
func Parse(b []byte) (Doc, error) {
	dec := xml.NewDecoder(bytes.NewReader(b))
	// Real archives declare encoding="ascii", which the decoder only
	// accepts through a CharsetReader. ASCII is a UTF-8 subset, so the
	// stream passes through unchanged.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "ascii", "us-ascii", "utf-8":
			return input, nil
		default:
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
	}

	var doc Doc
	if err := dec.Decode(&doc); err != nil {
		return Doc{}, fmt.Errorf("kom: parse manifest: %w", err)
	}
	return doc, nil
}
