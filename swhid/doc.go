// Package swhid computes Software Heritage persistent identifiers for
// filesystem objects using Git-compatible object hashing: files and
// symlink targets hash as Git blobs, directories hash as Git trees, and
// the result is rendered as "swh:1:<cnt|dir>:<40-hex-sha1>[;k=v...]".
//
// The Git object framing is bit-for-bit what "git hash-object" produces,
// so a [Hash] of a file's content equals the oid git would assign it.
//
//	id, err := swhid.Hash(ctx, "/path/to/file", nil)
//	// id == "swh:1:cnt:<sha1>"
package swhid
