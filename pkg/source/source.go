// Package source loads program text into arena memory followed by a sentinel
// byte, so the lexer can detect the end of input without a length check on
// every advance.
package source

import (
	"fmt"
	"io"
	"os"

	"lexis/pkg/arena"
)

// Sentinel terminates every loaded buffer.
const Sentinel = 0x03

type File struct {
	Path string
	// Data holds the source bytes plus the trailing sentinel.
	Data []byte
}

// Load reads the whole file at path into memory pushed from a. The read is all
// or nothing: a short read is an error and no File is returned.
func Load(path string, a *arena.Allocator) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("source: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source: %s is a directory", path)
	}

	size := int(info.Size())
	data := buffer(a, size)
	if _, err := io.ReadFull(f, data[:size]); err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	data[size] = Sentinel

	return &File{Path: path, Data: data}, nil
}

// FromBytes copies src into memory pushed from a. A nil allocator falls back
// to the heap.
func FromBytes(path string, src []byte, a *arena.Allocator) *File {
	data := buffer(a, len(src))
	copy(data, src)
	data[len(src)] = Sentinel
	return &File{Path: path, Data: data}
}

func buffer(a *arena.Allocator, size int) []byte {
	if a == nil {
		return make([]byte, size+1)
	}
	return a.Push(size+1, 8)
}

// Size returns the source length without the sentinel.
func (f *File) Size() int {
	return len(f.Data) - 1
}

// Bytes returns the source without the sentinel.
func (f *File) Bytes() []byte {
	return f.Data[:f.Size()]
}
