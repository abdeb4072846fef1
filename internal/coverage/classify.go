package coverage

// hanRanges are the blocks whose code points are scored. Radicals, strokes,
// ideographic punctuation and iteration marks sit outside these blocks and
// are ignored like any other non-Han character.
var hanRanges = [...]struct{ lo, hi rune }{
	{0x3400, 0x4DBF},   // CJK Unified Ideographs Extension A
	{0x4E00, 0x9FFF},   // CJK Unified Ideographs
	{0xF900, 0xFAFF},   // CJK Compatibility Ideographs
	{0x20000, 0x2A6DF}, // Extension B
	{0x2A700, 0x2B73F}, // Extension C
	{0x2B740, 0x2B81F}, // Extension D
	{0x2B820, 0x2CEAF}, // Extension E
	{0x2CEB0, 0x2EBEF}, // Extension F
	{0x2EBF0, 0x2EE5D}, // Extension I
	{0x30000, 0x3134F}, // Extension G
	{0x31350, 0x323AF}, // Extension H
	{0x323B0, 0x33479}, // Extension J
}

// IsHan reports whether r is a Han character subject to coverage scoring.
func IsHan(r rune) bool {
	if r < hanRanges[0].lo {
		return false
	}
	for _, rg := range hanRanges {
		if r >= rg.lo && r <= rg.hi {
			return true
		}
	}
	return false
}
