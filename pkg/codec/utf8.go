// Package codec converts between UTF-8 bytes, UTF-16 code units and code points.
//
// Unlike unicode/utf8 the decoders never substitute U+FFFD: a malformed sequence
// is reported as a *DecodeError carrying the number of units that were inspected,
// so the lexer can point a diagnostic at exactly those bytes.
package codec

import (
	"errors"
	"fmt"
)

const (
	// MaxRune is the largest valid code point.
	MaxRune = 0x10FFFF

	surrogateMin = 0xD800
	surrogateMax = 0xDFFF

	// UTFMax is the longest UTF-8 sequence in bytes.
	UTFMax = 4
)

var (
	ErrOutOfRange  = errors.New("codec: code point out of range")
	ErrSurrogate   = errors.New("codec: surrogate code point")
	ErrShortBuffer = errors.New("codec: destination too short")
)

// DecodeError reports a malformed sequence. Size is the number of units
// (bytes for UTF-8, code units for UTF-16) inspected before the failure was
// detected, the offending unit included.
type DecodeError struct {
	Size int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: malformed sequence (%d units)", e.Size)
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// DecodeUTF8 decodes the first code point in src and returns it with its
// encoded length. An empty src yields (0, 0, nil).
func DecodeUTF8(src []byte) (rune, int, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}
	lead := src[0]

	var (
		size    int
		r       rune
		minimum rune
	)
	switch {
	case lead&0x80 == 0x00:
		return rune(lead), 1, nil
	case lead&0xE0 == 0xC0:
		size, r, minimum = 2, rune(lead&0x1F), 0x80
	case lead&0xF0 == 0xE0:
		size, r, minimum = 3, rune(lead&0x0F), 0x800
	case lead&0xF8 == 0xF0:
		size, r, minimum = 4, rune(lead&0x07), 0x10000
	default:
		// continuation byte in lead position, or a legacy 5/6 byte form
		return 0, -1, &DecodeError{Size: 1}
	}

	for i := 1; i < size; i++ {
		if i >= len(src) {
			return 0, -1, &DecodeError{Size: i}
		}
		b := src[i]
		if !isContinuation(b) {
			return 0, -1, &DecodeError{Size: i + 1}
		}
		r = r<<6 | rune(b&0x3F)
	}

	if r < minimum || r > MaxRune || (r >= surrogateMin && r <= surrogateMax) {
		return 0, -1, &DecodeError{Size: size}
	}
	return r, size, nil
}

// SizeUTF8 returns the number of bytes needed to encode r.
func SizeUTF8(r rune) (int, error) {
	switch {
	case r < 0 || r > MaxRune:
		return 0, ErrOutOfRange
	case r >= surrogateMin && r <= surrogateMax:
		return 0, ErrSurrogate
	case r < 0x80:
		return 1, nil
	case r < 0x800:
		return 2, nil
	case r < 0x10000:
		return 3, nil
	default:
		return 4, nil
	}
}

// EncodeUTF8 writes the encoding of r into dst and returns the number of
// bytes written. With a nil dst it only measures.
func EncodeUTF8(dst []byte, r rune) (int, error) {
	n, err := SizeUTF8(r)
	if err != nil {
		return 0, err
	}
	if dst == nil {
		return n, nil
	}
	if len(dst) < n {
		return 0, ErrShortBuffer
	}

	switch n {
	case 1:
		dst[0] = byte(r)
	case 2:
		dst[0] = 0xC0 | byte(r>>6)
		dst[1] = 0x80 | byte(r)&0x3F
	case 3:
		dst[0] = 0xE0 | byte(r>>12)
		dst[1] = 0x80 | byte(r>>6)&0x3F
		dst[2] = 0x80 | byte(r)&0x3F
	default:
		dst[0] = 0xF0 | byte(r>>18)
		dst[1] = 0x80 | byte(r>>12)&0x3F
		dst[2] = 0x80 | byte(r>>6)&0x3F
		dst[3] = 0x80 | byte(r)&0x3F
	}
	return n, nil
}
