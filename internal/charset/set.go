// Package charset resolves character classes into concrete candidate sets.
package charset

import (
	"errors"
	"math/rand"
	"sort"
	"unicode"
)

// ErrEmptyCharset is returned when a class leaves no character to choose.
var ErrEmptyCharset = errors.New("empty charset")

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// Set is an immutable set of runes kept as sorted, disjoint, non-adjacent
// ranges. The zero value is the empty set.
type Set struct {
	ranges []Range
}

// Of returns the set holding exactly the given runes.
func Of(runes ...rune) Set {
	rs := make([]Range, 0, len(runes))
	for _, r := range runes {
		rs = append(rs, Range{r, r})
	}
	return FromRanges(rs...)
}

// OfString returns the set of runes in s.
func OfString(s string) Set {
	return Of([]rune(s)...)
}

// FromRanges normalises rs into a Set. Ranges with Lo > Hi are dropped.
func FromRanges(rs ...Range) Set {
	sorted := make([]Range, 0, len(rs))
	for _, r := range rs {
		if r.Lo <= r.Hi {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })

	merged := sorted[:0]
	for _, r := range sorted {
		if n := len(merged); n > 0 && r.Lo <= merged[n-1].Hi+1 {
			if r.Hi > merged[n-1].Hi {
				merged[n-1].Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return Set{ranges: merged}
}

// Ranges returns a copy of the normalised ranges.
func (s Set) Ranges() []Range {
	return append([]Range(nil), s.ranges...)
}

// Len returns the number of runes in the set.
func (s Set) Len() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// IsEmpty reports whether the set holds no rune.
func (s Set) IsEmpty() bool { return len(s.ranges) == 0 }

// Contains reports whether r is in the set.
func (s Set) Contains(r rune) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].Hi >= r })
	return i < len(s.ranges) && s.ranges[i].Lo <= r
}

// At returns the i-th rune in ascending order. It panics if i is out of range.
func (s Set) At(i int) rune {
	for _, r := range s.ranges {
		size := int(r.Hi-r.Lo) + 1
		if i < size {
			return r.Lo + rune(i)
		}
		i -= size
	}
	panic("charset: index out of range")
}

// Union returns the runes in s or o.
func (s Set) Union(o Set) Set {
	rs := make([]Range, 0, len(s.ranges)+len(o.ranges))
	rs = append(rs, s.ranges...)
	rs = append(rs, o.ranges...)
	return FromRanges(rs...)
}

// Subtract returns the runes in s that are not in o.
func (s Set) Subtract(o Set) Set {
	var out []Range
	j := 0
	for _, r := range s.ranges {
		lo := r.Lo
		for j < len(o.ranges) && o.ranges[j].Hi < lo {
			j++
		}
		k := j
		for k < len(o.ranges) && o.ranges[k].Lo <= r.Hi {
			if o.ranges[k].Lo > lo {
				out = append(out, Range{lo, o.ranges[k].Lo - 1})
			}
			if o.ranges[k].Hi >= r.Hi {
				lo = r.Hi + 1
				break
			}
			lo = o.ranges[k].Hi + 1
			k++
		}
		if lo <= r.Hi {
			out = append(out, Range{lo, r.Hi})
		}
	}
	return Set{ranges: out}
}

// FoldCase returns s widened with the upper and lower case forms of its
// members. Special folds such as U+212A KELVIN SIGN are not followed.
func (s Set) FoldCase() Set {
	var extra []Range
	for _, r := range s.ranges {
		for c := r.Lo; c <= r.Hi; c++ {
			if u := unicode.ToUpper(c); u != c {
				extra = append(extra, Range{u, u})
			}
			if l := unicode.ToLower(c); l != c {
				extra = append(extra, Range{l, l})
			}
		}
	}
	if len(extra) == 0 {
		return s
	}
	return s.Union(FromRanges(extra...))
}

// Pick draws one rune uniformly from s.
func Pick(s Set, rng *rand.Rand) (rune, error) {
	n := s.Len()
	if n == 0 {
		return 0, ErrEmptyCharset
	}
	return s.At(rng.Intn(n)), nil
}
