// Package canon provides RFC 8785 canonical JSON and domain-separated
// hashing for fmtconform.
//
// Canonical bytes are used wherever two runs must agree byte-for-byte:
// the fixture content hash recorded with every run, and the transcript
// snapshots compared against golden files.
//
// Key constraints:
//   - Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//   - No HTML escaping
//   - Strings are NFC normalized
//   - No floats and no null; callers render such values as strings first
package canon
