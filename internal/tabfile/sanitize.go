package tabfile

// sanitize.go cleans raw file bytes before CSV parsing. Spreadsheet
// exports from Windows tools routinely carry a UTF-8 BOM and stray
// bytes from legacy encodings; both would otherwise surface as parse
// errors or corrupted header names.

import (
	"io"
	"unicode/utf8"
)

// newSanitizedReader wraps r so that a leading UTF-8 BOM is dropped and
// invalid UTF-8 bytes are replaced with '?'. Both transforms stream, so
// sanitizing never loads the file into memory.
func newSanitizedReader(r io.Reader) io.Reader {
	return &utf8Reader{src: &bomReader{src: r}}
}

// bomReader skips the UTF-8 byte order mark (0xEF 0xBB 0xBF) if the
// stream starts with one.
type bomReader struct {
	src     io.Reader
	checked bool
	rest    []byte
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var head [3]byte
		n, err := io.ReadFull(b.src, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n != 3 || head[0] != 0xEF || head[1] != 0xBB || head[2] != 0xBF {
			b.rest = append(b.rest, head[:n]...)
		}
	}

	if len(b.rest) > 0 {
		n := copy(p, b.rest)
		b.rest = b.rest[n:]
		return n, nil
	}
	return b.src.Read(p)
}

// utf8Reader replaces invalid UTF-8 bytes with '?' as they stream by.
// The replacement is single-byte so sanitizing never grows the data. A
// multi-byte sequence split across two reads is held back until its
// remaining bytes arrive.
type utf8Reader struct {
	src     io.Reader
	pending []byte
}

func (u *utf8Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	off := copy(p, u.pending)
	u.pending = u.pending[:0]

	n, err := u.src.Read(p[off:])
	n += off
	if n == 0 {
		return 0, err
	}

	// Fast path: most tabular data is plain ASCII.
	if allASCII(p[:n]) {
		return n, err
	}
	return u.sanitize(p[:n], err == io.EOF), err
}

// sanitize rewrites data in place and returns the number of bytes kept.
// Unless the stream has ended, a trailing partial sequence moves to
// pending instead of being judged invalid.
func (u *utf8Reader) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		return len(data)
	}

	w := 0
	for r := 0; r < len(data); {
		if !atEOF && partialRune(data[r:]) {
			u.pending = append(u.pending, data[r:]...)
			return w
		}

		c, size := utf8.DecodeRune(data[r:])
		if c == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		copy(data[w:], data[r:r+size])
		w += size
		r += size
	}
	return w
}

func allASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// partialRune reports whether data holds the start of a multi-byte
// sequence with its tail missing.
func partialRune(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return runeLen(data[0]) > len(data)
}

// runeLen returns the length the leading byte announces, or 0 for a
// continuation or invalid byte.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}
