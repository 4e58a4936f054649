// Package phf builds and evaluates minimal perfect hash tables over a
// fixed set of distinct byte-string keys, using the compress-hash-displace
// (CHD) construction. It is the build-time subroutine of pkg/regdata (the
// registry compiler): every generated name->id lookup is backed by one of
// these tables.
//
// Hashing is done with two independent 64-bit xxhash digests instead of a
// hand-rolled 128-bit hash, grounded on darshanime-pebble's and
// AKJUS-bsc-erigon's use of cespare/xxhash/v2 for content hashing.
package phf

import (
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

// bucketLoad (lambda) is the target average number of keys per bucket.
const bucketLoad = 5

// maxDisp bounds the brute-force search for a bucket's (d1, d2) pair
// before the whole table is reseeded.
const maxDisp = 2048

// Table is the runtime-evaluable output of Build: seed, per-bucket
// displacements, and the value (original index) for each hash slot.
type Table struct {
	Seed  uint64
	Disps []disp
	Vals  []uint32
	m     int // number of keys
}

type disp struct {
	D1, D2 uint32
}

// Build constructs a minimal perfect hash table over names. Names must be
// distinct; duplicate names can never be placed, so Build returns an
// error once its reseed attempts are exhausted.
func Build(names [][]byte) (*Table, error) {
	m := len(names)
	if m == 0 {
		return &Table{Vals: nil}, nil
	}
	g := (m + bucketLoad - 1) / bucketLoad

	seed := deriveSeed(names)
	for attempt := 0; attempt < 64; attempt++ {
		t, err := tryBuild(names, seed, m, g)
		if err == nil {
			return t, nil
		}
		seed = seed*1099511628211 + uint64(attempt) + 1
	}
	return nil, errors.Newf("phf: failed to place %d keys after 64 reseeds", m)
}

// deriveSeed derives a deterministic starting seed from the sum of the
// first entry's bytes and the key count, per spec.md §4.1. Not
// collision-minimizing, but deterministic, which is all the spec
// requires.
func deriveSeed(names [][]byte) uint64 {
	var sum uint64
	if len(names) > 0 {
		for _, b := range names[0] {
			sum += uint64(b)
		}
	}
	return sum + uint64(len(names)) + 0x9E3779B97F4A7C15
}

func hash128(key []byte, seed uint64) (a, b uint64) {
	a = xxhash.Sum64(append(append([]byte{}, key...), byte(seed), byte(seed>>8), byte(seed>>16), byte(seed>>24), byte(seed>>32), byte(seed>>40), byte(seed>>48), byte(seed>>56)))
	b = xxhash.Sum64(append(append([]byte{}, key...), byte(seed^0x9E3779B9), byte((seed^0x9E3779B9)>>8), byte((seed^0x9E3779B9)>>16), byte((seed^0x9E3779B9)>>24), byte((seed^0x9E3779B9)>>32)))
	return a, b
}

func bucketOf(a uint64, g int) int {
	return int((a >> 32) % uint64(g))
}

func slotOf(a, b uint64, d1, d2 uint32, m int) uint32 {
	return uint32((uint64(d2) + a*uint64(d1) + b) % uint64(m))
}

func tryBuild(names [][]byte, seed uint64, m, g int) (*Table, error) {
	type keyInfo struct {
		idx  int
		a, b uint64
	}
	buckets := make([][]keyInfo, g)
	for i, name := range names {
		a, b := hash128(name, seed)
		bk := bucketOf(a, g)
		buckets[bk] = append(buckets[bk], keyInfo{idx: i, a: a, b: b})
	}

	order := make([]int, g)
	for i := range order {
		order[i] = i
	}
	// Decreasing-size order, per spec.
	for i := 0; i < g; i++ {
		for j := i + 1; j < g; j++ {
			if len(buckets[order[j]]) > len(buckets[order[i]]) {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	disps := make([]disp, g)
	occupied := make([]uint32, m) // generation counter per slot, 0 = free
	generation := uint32(1)

	for _, bk := range order {
		keys := buckets[bk]
		if len(keys) == 0 {
			continue
		}
		placed := false
	dispSearch:
		for d1 := uint32(0); d1 < maxDisp && !placed; d1++ {
			for d2 := uint32(0); d2 < maxDisp; d2++ {
				slots := make([]uint32, len(keys))
				ok := true
				for i, k := range keys {
					s := slotOf(k.a, k.b, d1, d2, m)
					if occupied[s] == generation {
						ok = false
						break
					}
					for j := 0; j < i; j++ {
						if slots[j] == s {
							ok = false
							break
						}
					}
					if !ok {
						break
					}
					slots[i] = s
				}
				if ok {
					for _, s := range slots {
						occupied[s] = generation
					}
					disps[bk] = disp{D1: d1, D2: d2}
					placed = true
					break dispSearch
				}
			}
		}
		if !placed {
			return nil, errors.Newf("phf: could not place bucket %d", bk)
		}
		generation++
	}

	vals := make([]uint32, m)
	for i, name := range names {
		a, b := hash128(name, seed)
		bk := bucketOf(a, g)
		d := disps[bk]
		s := slotOf(a, b, d.D1, d.D2, m)
		vals[s] = uint32(i)
	}

	return &Table{Seed: seed, Disps: disps, Vals: vals, m: m}, nil
}

// Lookup evaluates the table for key and returns the slot's stored value.
// The caller must verify the recovered name equals key (via an external
// name table) to reject non-members — phf has no false-negative but can
// have false-positive membership for keys never in the build set.
func (t *Table) Lookup(key []byte) (value uint32, ok bool) {
	if t.m == 0 || len(t.Disps) == 0 {
		return 0, false
	}
	g := len(t.Disps)
	a, b := hash128(key, t.Seed)
	bk := bucketOf(a, g)
	d := t.Disps[bk]
	s := slotOf(a, b, d.D1, d.D2, t.m)
	if int(s) >= len(t.Vals) {
		return 0, false
	}
	return t.Vals[s], true
}
