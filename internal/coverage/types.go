// Package coverage measures how much of a Chinese text is covered by one or
// more character inventories.
//
// The package is pure: it performs no I/O, keeps no state between calls and
// never mutates the inventories it is given, so independent analyses may run
// concurrently.
package coverage

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultTopN is the default length of the top-N and bottom-N OOV lists.
const DefaultTopN = 15

// UnionName is the scope name used for the union of all inventories.
const UnionName = "<union>"

var (
	// ErrInvalidOptions is returned when Options fail validation.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrNilInventory is returned when the inventory list contains nil.
	ErrNilInventory = errors.New("nil inventory")
)

// Membership is anything that can answer whether a character is known.
type Membership interface {
	Contains(r rune) bool
}

// Inventory is a named, immutable set of Han characters.
type Inventory struct {
	name    string
	chars   map[rune]struct{}
	dropped int
}

// NewInventory builds an inventory from the characters of s.
// Non-Han characters are filtered out and counted in Dropped; duplicates
// collapse.
func NewInventory(name, s string) *Inventory {
	return NewInventoryFromRunes(name, []rune(s))
}

// NewInventoryFromRunes builds an inventory from a rune slice.
func NewInventoryFromRunes(name string, runes []rune) *Inventory {
	inv := &Inventory{
		name:  name,
		chars: make(map[rune]struct{}, len(runes)),
	}
	for _, r := range runes {
		if !IsHan(r) {
			// Whitespace and line breaks are layout, not malformed content.
			if !isSpace(r) {
				inv.dropped++
			}
			continue
		}
		inv.chars[r] = struct{}{}
	}
	return inv
}

// UnionOf returns a new inventory holding every character of invs.
func UnionOf(name string, invs ...*Inventory) *Inventory {
	size := 0
	for _, inv := range invs {
		size += inv.Len()
	}
	u := &Inventory{name: name, chars: make(map[rune]struct{}, size)}
	for _, inv := range invs {
		for r := range inv.chars {
			u.chars[r] = struct{}{}
		}
	}
	return u
}

// Name returns the inventory label.
func (inv *Inventory) Name() string { return inv.name }

// Len returns the number of distinct characters.
func (inv *Inventory) Len() int { return len(inv.chars) }

// Dropped returns how many non-Han, non-space characters were filtered out
// while the inventory was built.
func (inv *Inventory) Dropped() int { return inv.dropped }

// Contains reports whether r belongs to the inventory.
func (inv *Inventory) Contains(r rune) bool {
	_, ok := inv.chars[r]
	return ok
}

// Chars returns the characters sorted by code point.
func (inv *Inventory) Chars() []rune {
	out := make([]rune, 0, len(inv.chars))
	for r := range inv.chars {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0x3000, 0xFEFF:
		return true
	}
	return false
}

// Text is an ordered sequence of lines without terminators.
type Text []string

// SplitLines splits s on \n, \r\n and \r. A trailing terminator does not
// produce an empty final line, and an empty string yields an empty Text.
func SplitLines(s string) Text {
	if s == "" {
		return Text{}
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return Text(strings.Split(s, "\n"))
}

// Options configure a single analysis.
type Options struct {
	Union       bool // also score the union of all inventories
	TopN        int  // length of the high-frequency OOV list
	BottomN     int  // length of the low-frequency OOV list
	PerLine     bool // compute per-line coverage for every scope
	LineWorkers int  // goroutines for per-line analysis; 0 or 1 runs inline
}

// DefaultOptions returns the defaults: no union, 15/15, no per-line.
func DefaultOptions() Options {
	return Options{
		TopN:    DefaultTopN,
		BottomN: DefaultTopN,
	}
}

// Validate rejects non-positive list sizes and negative worker counts.
func (o Options) Validate() error {
	if o.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidOptions, o.TopN)
	}
	if o.BottomN <= 0 {
		return fmt.Errorf("%w: bottom_n must be positive, got %d", ErrInvalidOptions, o.BottomN)
	}
	if o.LineWorkers < 0 {
		return fmt.Errorf("%w: line workers must not be negative, got %d", ErrInvalidOptions, o.LineWorkers)
	}
	return nil
}

// Tally is the known-character record for one scope.
type Tally struct {
	Known       int    // occurrences, with repetition
	UniqueKnown []rune // distinct known characters, sorted by code point
}

// FreqEntry is one OOV character with its occurrence count.
type FreqEntry struct {
	Char  rune
	Count int
}

// OOVRecord is the multiset of out-of-vocabulary characters for one scope.
type OOVRecord struct {
	counts map[rune]int
	order  []rune // first occurrence in the text
	total  int
}

func newOOVRecord() *OOVRecord {
	return &OOVRecord{counts: make(map[rune]int)}
}

func (o *OOVRecord) add(r rune) {
	if _, seen := o.counts[r]; !seen {
		o.order = append(o.order, r)
	}
	o.counts[r]++
	o.total++
}

// Count returns the occurrences of r.
func (o *OOVRecord) Count(r rune) int { return o.counts[r] }

// Distinct returns the number of distinct OOV characters.
func (o *OOVRecord) Distinct() int { return len(o.order) }

// Total returns the OOV occurrences, with repetition.
func (o *OOVRecord) Total() int { return o.total }

// Chars returns the distinct OOV characters in first-occurrence order.
func (o *OOVRecord) Chars() []rune { return slices.Clone(o.order) }

// LineCoverage is the occurrence-weighted coverage of one line.
type LineCoverage struct {
	Number     int    // 1-based line number
	Text       string // the line as given
	Han        int    // Han occurrences on the line
	Known      int    // known Han occurrences on the line
	Applicable bool   // false when the line has no Han characters
	Percent    float64
}

// ScopeKind tells an inventory scope from the union scope.
type ScopeKind int

const (
	ScopeInventory ScopeKind = iota
	ScopeUnion
)

func (k ScopeKind) String() string {
	if k == ScopeUnion {
		return "union"
	}
	return "inventory"
}

// Scope holds the coverage of the text against one character set.
type Scope struct {
	Name   string
	Kind   ScopeKind
	Size   int // distinct characters in the scope's set
	Tally  Tally
	OOV    *OOVRecord
	Top    []FreqEntry
	Bottom []FreqEntry
	Lines  []LineCoverage // nil unless per-line analysis was requested

	hanTotal    int
	distinctHan int
}

// OccurrenceCoverage is known occurrences over all Han occurrences, in
// percent. It answers how much of the reading time is covered.
func (s *Scope) OccurrenceCoverage() float64 {
	return percent(s.Tally.Known, s.hanTotal)
}

// UniqueCoverage is distinct known characters over distinct Han characters
// in the text, in percent. It answers how much of the vocabulary is covered.
func (s *Scope) UniqueCoverage() float64 {
	return percent(len(s.Tally.UniqueKnown), s.distinctHan)
}

// Unknown returns the OOV occurrences.
func (s *Scope) Unknown() int { return s.OOV.Total() }

// percent treats an empty denominator as vacuously covered.
func percent(num, den int) float64 {
	if den == 0 {
		return 100
	}
	return float64(num) / float64(den) * 100
}

// Result is the outcome of Analyze.
type Result struct {
	HanTotal    int  // Han occurrences
	NonHanTotal int  // every other rune, whitespace included
	DistinctHan int  // distinct Han characters
	LineCount   int  // lines in the analysed text
	HasData     bool // false when the text has no Han characters

	Inventories []*Scope // one per inventory, in input order
	Union       *Scope   // nil unless union mode was requested
}

// Primary returns the scope OOV reporting centres on: the union when
// requested, else the only inventory. It is nil when several inventories are
// reported separately or none were given.
func (r *Result) Primary() *Scope {
	if r.Union != nil {
		return r.Union
	}
	if len(r.Inventories) == 1 {
		return r.Inventories[0]
	}
	return nil
}

// Scopes returns every scope, inventories first and the union last.
func (r *Result) Scopes() []*Scope {
	out := slices.Clone(r.Inventories)
	if r.Union != nil {
		out = append(out, r.Union)
	}
	return out
}

// Scope looks a scope up by name.
func (r *Result) Scope(name string) *Scope {
	for _, s := range r.Scopes() {
		if s.Name == name {
			return s
		}
	}
	return nil
}
