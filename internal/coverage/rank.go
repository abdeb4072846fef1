package coverage

import (
	"cmp"
	"slices"
)

// Sorted returns every OOV character ordered by descending count, ties
// broken by ascending code point.
func (o *OOVRecord) Sorted() []FreqEntry {
	entries := o.entries()
	slices.SortFunc(entries, byCountDesc)
	return entries
}

func (o *OOVRecord) entries() []FreqEntry {
	entries := make([]FreqEntry, 0, len(o.order))
	for _, r := range o.order {
		entries = append(entries, FreqEntry{Char: r, Count: o.counts[r]})
	}
	return entries
}

// Rank returns the topN most frequent and bottomN least frequent OOV
// characters. Ties are broken by ascending code point in both lists, so the
// output does not depend on map iteration or text order. Lists are shorter
// than requested when there are fewer distinct characters, and they overlap
// when there are no more than topN+bottomN of them.
func Rank(oov *OOVRecord, topN, bottomN int) (top, bottom []FreqEntry) {
	if oov == nil {
		return nil, nil
	}
	entries := oov.entries()
	if len(entries) == 0 {
		return nil, nil
	}

	if topN > 0 {
		desc := slices.Clone(entries)
		slices.SortFunc(desc, byCountDesc)
		top = desc[:min(topN, len(desc))]
	}
	if bottomN > 0 {
		asc := slices.Clone(entries)
		slices.SortFunc(asc, byCountAsc)
		bottom = asc[:min(bottomN, len(asc))]
	}
	return top, bottom
}

func byCountDesc(a, b FreqEntry) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return cmp.Compare(a.Char, b.Char)
}

func byCountAsc(a, b FreqEntry) int {
	if c := cmp.Compare(a.Count, b.Count); c != 0 {
		return c
	}
	return cmp.Compare(a.Char, b.Char)
}
