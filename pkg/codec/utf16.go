package codec

const (
	highSurrogateMin = 0xD800
	highSurrogateMax = 0xDBFF
	lowSurrogateMin  = 0xDC00
	lowSurrogateMax  = 0xDFFF

	surrogateOffset = 0x10000
)

// DecodeUTF16 decodes the first code point in src and returns it with the
// number of code units it occupied. An empty src yields (0, 0, nil).
func DecodeUTF16(src []uint16) (rune, int, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}
	high := src[0]
	switch {
	case high < highSurrogateMin || high > lowSurrogateMax:
		return rune(high), 1, nil
	case high > highSurrogateMax:
		// low surrogate without a leading high surrogate
		return 0, -1, &DecodeError{Size: 1}
	}

	if len(src) < 2 {
		return 0, -1, &DecodeError{Size: 1}
	}
	low := src[1]
	if low < lowSurrogateMin || low > lowSurrogateMax {
		return 0, -1, &DecodeError{Size: 2}
	}
	r := (rune(high)-highSurrogateMin)<<10 | (rune(low) - lowSurrogateMin)
	return r + surrogateOffset, 2, nil
}

// SizeUTF16 returns the number of code units needed to encode r.
func SizeUTF16(r rune) (int, error) {
	switch {
	case r < 0 || r > MaxRune:
		return 0, ErrOutOfRange
	case r >= surrogateMin && r <= surrogateMax:
		return 0, ErrSurrogate
	case r < surrogateOffset:
		return 1, nil
	default:
		return 2, nil
	}
}

// EncodeUTF16 writes r into dst as one code unit or a surrogate pair. With a
// nil dst it only measures.
func EncodeUTF16(dst []uint16, r rune) (int, error) {
	n, err := SizeUTF16(r)
	if err != nil {
		return 0, err
	}
	if dst == nil {
		return n, nil
	}
	if len(dst) < n {
		return 0, ErrShortBuffer
	}

	if n == 1 {
		dst[0] = uint16(r)
		return 1, nil
	}
	r -= surrogateOffset
	dst[0] = uint16(highSurrogateMin + (r>>10)&0x3FF)
	dst[1] = uint16(lowSurrogateMin + r&0x3FF)
	return 2, nil
}
