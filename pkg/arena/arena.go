// Package arena provides bump-pointer allocation from a chain of fixed-capacity
// regions. Everything pushed lives as long as the allocator; there is no
// per-allocation free.
package arena

import (
	"unsafe"
)

const (
	// PageSize is the granularity the default region size is derived from.
	PageSize = 4096

	// regionOverhead approximates the bookkeeping a region carries next to its data.
	regionOverhead = int(unsafe.Sizeof(Region{}))

	// DefaultMinimumRegionSize is used when New is given a non-positive size.
	DefaultMinimumRegionSize = PageSize - regionOverhead
)

// Region is one fixed-capacity block of the chain.
type Region struct {
	data  []byte
	used  int
	prior *Region
	next  *Region
}

// Capacity returns the number of bytes the region can hold.
func (r *Region) Capacity() int {
	return len(r.data)
}

// Used returns the number of bytes already handed out, padding included.
func (r *Region) Used() int {
	return r.used
}

// padding returns the forward alignment needed for the next push.
func (r *Region) padding(alignment int) int {
	address := uintptr(unsafe.Pointer(unsafe.SliceData(r.data))) + uintptr(r.used)
	return int((uintptr(alignment) - address%uintptr(alignment)) % uintptr(alignment))
}

func (r *Region) fits(size, alignment int) bool {
	return r.used+r.padding(alignment)+size <= len(r.data)
}

// Allocator owns the region chain.
type Allocator struct {
	MinimumRegionSize int

	active *Region
	first  *Region
	last   *Region

	regions int
	pushed  int
}

// New creates an allocator whose regions are at least minimumRegionSize bytes.
// The first region is allocated lazily on the first push.
func New(minimumRegionSize int) *Allocator {
	if minimumRegionSize <= 0 {
		minimumRegionSize = DefaultMinimumRegionSize
	}
	return &Allocator{MinimumRegionSize: minimumRegionSize}
}

// Push returns size zeroed bytes aligned to alignment, which must be a power of two.
func (a *Allocator) Push(size, alignment int) []byte {
	if size < 0 {
		panic("arena: negative size")
	}
	if alignment <= 0 {
		alignment = 1
	}
	if alignment&(alignment-1) != 0 {
		panic("arena: alignment is not a power of two")
	}

	region := a.active
	for region != nil && !region.fits(size, alignment) {
		region = region.next
	}
	if region == nil {
		region = a.grow(size + alignment - 1)
	}
	a.active = region

	region.used += region.padding(alignment)
	memory := region.data[region.used : region.used+size : region.used+size]
	region.used += size
	a.pushed += size

	clear(memory)
	return memory
}

// grow links a new region after the tail of the chain.
func (a *Allocator) grow(size int) *Region {
	if size < a.MinimumRegionSize {
		size = a.MinimumRegionSize
	}
	region := &Region{
		data:  make([]byte, size),
		prior: a.last,
	}
	if a.last != nil {
		a.last.next = region
	} else {
		a.first = region
	}
	a.last = region
	a.regions++
	return region
}

// Reset rewinds every region so the whole chain can be reused. Memory handed
// out before the reset must no longer be used.
func (a *Allocator) Reset() {
	for region := a.first; region != nil; region = region.next {
		region.used = 0
	}
	a.active = a.first
	a.pushed = 0
}

// Stats returns the bytes handed out, the bytes reserved across all regions,
// and the region count.
func (a *Allocator) Stats() (used int, total int, regions int) {
	for region := a.first; region != nil; region = region.next {
		total += len(region.data)
	}
	return a.pushed, total, a.regions
}

// First returns the oldest region, or nil before the first push.
func (a *Allocator) First() *Region {
	return a.first
}

// Next returns the region linked after r.
func (r *Region) Next() *Region {
	return r.next
}

// Copy pushes a copy of src.
func (a *Allocator) Copy(src []byte) []byte {
	memory := a.Push(len(src), 1)
	copy(memory, src)
	return memory
}

// PushSlice returns n zeroed elements of T backed by arena memory. T must not
// contain pointers: the collector does not scan arena bytes.
func PushSlice[T any](a *Allocator, n int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	memory := a.Push(n*size, int(unsafe.Alignof(zero)))
	if n == 0 || size == 0 {
		return make([]T, 0)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(memory))), n)
}
