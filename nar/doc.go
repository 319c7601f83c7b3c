// Package nar implements the Nix ARchive format: a deterministic,
// byte-exact serialization of a filesystem subtree whose SHA-256 is the
// canonical "hash of a path" in the Nix ecosystem.
//
// Encoding and extraction are streaming: a file body, however large, is moved
// through a fixed-size buffer rather than being held in memory, and a
// directory's entries are always visited in sorted order so that the
// output is independent of OS listing order.
//
//	sri, err := nar.Hash(ctx, "/path/to/tree")
//	err = nar.Write(ctx, "/path/to/tree", "out.nar")
//	err = nar.Extract(ctx, "out.nar", "/path/to/restored")
package nar
