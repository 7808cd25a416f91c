// Package kom reads and writes KOM game-asset archives: single files
// holding many named, individually zlib-compressed entries plus a
// self-describing crc.xml integrity manifest stored as the last entry.
//
// The on-disk layout is a fixed 60-byte header ("KOG GC TEAM MASSFILE"
// magic plus a V.0.x. version tag), a table of fixed 72-byte metadata
// records, and the concatenated compressed payloads. All integers are
// little-endian; entry offsets are relative to the start of the payload
// blob and tile it exactly.
//
// # Quick Start
//
// Create an archive:
//
//	a, err := kom.New(2)
//	if err != nil {
//	    return err
//	}
//	if err := a.AddEntry("intro.lua", script); err != nil {
//	    return err
//	}
//	data, err := a.Serialize()
//
// Open one and extract a file:
//
//	a, err := kom.Open(data)
//	if err != nil {
//	    return err
//	}
//	content, err := a.Extract(kom.ByName("intro.lua"))
//
// Entries are serialized in ascending name order and the manifest is
// rebuilt from that exact order on every Serialize, so output is
// deterministic. Archives are held fully in memory; there is no streaming
// mode. An Archive is not safe for concurrent use.
package kom
