package codec

// Bulk conversions are split into a measuring pass and a filling pass so a
// caller can size its destination exactly once. Positional failures come back
// as *TextError wrapping the underlying *DecodeError.

// TextError locates a malformed sequence inside a bulk conversion.
type TextError struct {
	Offset int // in source units
	Err    error
}

func (e *TextError) Error() string {
	return e.Err.Error()
}

func (e *TextError) Unwrap() error {
	return e.Err
}

// MeasureUTF8FromUTF16 returns the number of bytes FillUTF8FromUTF16 writes for src.
func MeasureUTF8FromUTF16(src []uint16) (int, error) {
	return fillUTF8FromUTF16(nil, src)
}

// FillUTF8FromUTF16 transcodes src into dst and returns the bytes written.
func FillUTF8FromUTF16(dst []byte, src []uint16) (int, error) {
	if dst == nil {
		dst = []byte{}
	}
	return fillUTF8FromUTF16(dst, src)
}

func fillUTF8FromUTF16(dst []byte, src []uint16) (int, error) {
	written := 0
	for i := 0; i < len(src); {
		r, n, err := DecodeUTF16(src[i:])
		if err != nil {
			return written, &TextError{Offset: i, Err: err}
		}
		i += n

		var out []byte
		if dst != nil {
			if written > len(dst) {
				return written, ErrShortBuffer
			}
			out = dst[written:]
		}
		w, err := EncodeUTF8(out, r)
		if err != nil {
			return written, &TextError{Offset: i - n, Err: err}
		}
		written += w
	}
	return written, nil
}

// MeasureUTF16FromUTF8 returns the number of code units FillUTF16FromUTF8 writes for src.
func MeasureUTF16FromUTF8(src []byte) (int, error) {
	return fillUTF16FromUTF8(nil, src)
}

// FillUTF16FromUTF8 transcodes src into dst and returns the code units written.
func FillUTF16FromUTF8(dst []uint16, src []byte) (int, error) {
	if dst == nil {
		dst = []uint16{}
	}
	return fillUTF16FromUTF8(dst, src)
}

func fillUTF16FromUTF8(dst []uint16, src []byte) (int, error) {
	written := 0
	for i := 0; i < len(src); {
		r, n, err := DecodeUTF8(src[i:])
		if err != nil {
			return written, &TextError{Offset: i, Err: err}
		}
		i += n

		var out []uint16
		if dst != nil {
			if written > len(dst) {
				return written, ErrShortBuffer
			}
			out = dst[written:]
		}
		w, err := EncodeUTF16(out, r)
		if err != nil {
			return written, &TextError{Offset: i - n, Err: err}
		}
		written += w
	}
	return written, nil
}

// UTF8FromUTF16 measures, allocates once and fills.
func UTF8FromUTF16(src []uint16) ([]byte, error) {
	n, err := MeasureUTF8FromUTF16(src)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, n)
	if _, err := FillUTF8FromUTF16(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}

// UTF16FromUTF8 measures, allocates once and fills.
func UTF16FromUTF8(src []byte) ([]uint16, error) {
	n, err := MeasureUTF16FromUTF8(src)
	if err != nil {
		return nil, err
	}
	dst := make([]uint16, n)
	if _, err := FillUTF16FromUTF8(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}
