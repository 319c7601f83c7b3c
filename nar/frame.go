package nar

import (
	"encoding/binary"
	"io"

	"github.com/meigma/archive/internal/fserr"
)

// magic is the literal string every NAR stream begins with.
const magic = "nix-archive-1"

var zeroPad [8]byte

// padLen returns the number of zero bytes needed to round n up to the next
// multiple of 8; zero is a valid result.
func padLen(n int) int {
	return (8 - n%8) % 8
}

func writeStr(w io.Writer, s string) error {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fserr.Wrap(fserr.IoError, "write", "", err)
	}
	if len(s) > 0 {
		if _, err := io.WriteString(w, s); err != nil {
			return fserr.Wrap(fserr.IoError, "write", "", err)
		}
	}
	if p := padLen(len(s)); p > 0 {
		if _, err := w.Write(zeroPad[:p]); err != nil {
			return fserr.Wrap(fserr.IoError, "write", "", err)
		}
	}
	return nil
}

func writeUint64(w io.Writer, n uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	if _, err := w.Write(buf[:]); err != nil {
		return fserr.Wrap(fserr.IoError, "write", "", err)
	}
	return nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fserr.Wrap(fserr.FormatError, "read", "", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// readStr reads one framed string: an 8-byte little-endian length, the raw
// bytes, and zero padding out to the next 8-byte boundary.
func readStr(r io.Reader) (string, error) {
	n, err := readUint64(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fserr.Wrap(fserr.FormatError, "read", "", err)
		}
	}
	if p := padLen(int(n)); p > 0 {
		pad := make([]byte, p)
		if _, err := io.ReadFull(r, pad); err != nil {
			return "", fserr.Wrap(fserr.FormatError, "read", "", err)
		}
	}
	return string(buf), nil
}

// expectStr reads one framed string and fails with FormatError unless it
// equals want.
func expectStr(r io.Reader, want string) error {
	got, err := readStr(r)
	if err != nil {
		return err
	}
	if got != want {
		return fserr.New(fserr.FormatError, "decode", "", unexpectedTokenErr{want: want, got: got})
	}
	return nil
}

type unexpectedTokenErr struct {
	want, got string
}

func (e unexpectedTokenErr) Error() string {
	return "expected \"" + e.want + "\", got \"" + e.got + "\""
}
