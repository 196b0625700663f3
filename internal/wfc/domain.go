package wfc

import (
	"math/bits"
	"strconv"
	"strings"
)

// Domain is the set of tiles still possible at a cell, one bit per
// catalog index
type Domain uint64

// FullDomain returns a domain holding tiles 0..n-1
func FullDomain(n int) Domain {
	if n >= MaxTiles {
		return ^Domain(0)
	}
	return Domain(uint64(1)<<uint(n)) - 1
}

// Single returns the domain holding only id
func Single(id TileID) Domain {
	return Domain(uint64(1) << uint(id))
}

// Len returns the number of tiles in the domain (its entropy)
func (d Domain) Len() int {
	return bits.OnesCount64(uint64(d))
}

// IsEmpty returns true if no tile remains
func (d Domain) IsEmpty() bool {
	return d == 0
}

// Has returns true if id is in the domain
func (d Domain) Has(id TileID) bool {
	return d&Single(id) != 0
}

// With returns d with id added
func (d Domain) With(id TileID) Domain {
	return d | Single(id)
}

// Without returns d with id removed
func (d Domain) Without(id TileID) Domain {
	return d &^ Single(id)
}

// Union returns the tiles in either domain
func (d Domain) Union(o Domain) Domain {
	return d | o
}

// Intersect returns the tiles in both domains
func (d Domain) Intersect(o Domain) Domain {
	return d & o
}

// IsSubsetOf returns true if every tile in d is also in o
func (d Domain) IsSubsetOf(o Domain) bool {
	return d&^o == 0
}

// Each calls fn for every tile in ascending id order
func (d Domain) Each(fn func(id TileID)) {
	m := uint64(d)
	for m != 0 {
		b := bits.TrailingZeros64(m)
		m &^= uint64(1) << uint(b)
		fn(TileID(b))
	}
}

// Nth returns the k-th tile in ascending id order
func (d Domain) Nth(k int) (TileID, bool) {
	if k < 0 {
		return 0, false
	}
	m := uint64(d)
	for m != 0 {
		b := bits.TrailingZeros64(m)
		if k == 0 {
			return TileID(b), true
		}
		k--
		m &^= uint64(1) << uint(b)
	}
	return 0, false
}

// First returns the lowest tile id in the domain
func (d Domain) First() (TileID, bool) {
	return d.Nth(0)
}

// Filter returns the tiles of d for which keep returns true
func (d Domain) Filter(keep func(id TileID) bool) Domain {
	var out Domain
	d.Each(func(id TileID) {
		if keep(id) {
			out = out.With(id)
		}
	})
	return out
}

// String renders the domain as a brace-delimited id list, e.g. "{0,3}"
func (d Domain) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	d.Each(func(id TileID) {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(strconv.Itoa(int(id)))
	})
	b.WriteByte('}')
	return b.String()
}
