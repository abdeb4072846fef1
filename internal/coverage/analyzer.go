package coverage

import (
	"fmt"
	"slices"
)

// scopeState accumulates one scope during the scan.
type scopeState struct {
	set    Membership
	known  int
	unique map[rune]struct{}
	oov    *OOVRecord
	scope  *Scope
}

func newScopeState(name string, kind ScopeKind, inv *Inventory) *scopeState {
	return &scopeState{
		set:    inv,
		unique: make(map[rune]struct{}),
		oov:    newOOVRecord(),
		scope:  &Scope{Name: name, Kind: kind, Size: inv.Len()},
	}
}

func (st *scopeState) observe(r rune) {
	if st.set.Contains(r) {
		st.known++
		st.unique[r] = struct{}{}
		return
	}
	st.oov.add(r)
}

// Analyze scores text against every inventory and, in union mode, against
// their union. Options are validated before any work is done.
//
// An empty inventory list yields only the aggregate Han and non-Han counts.
func Analyze(text Text, invs []*Inventory, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for i, inv := range invs {
		if inv == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilInventory, i)
		}
	}

	states := make([]*scopeState, 0, len(invs)+1)
	for _, inv := range invs {
		states = append(states, newScopeState(inv.Name(), ScopeInventory, inv))
	}
	var union *scopeState
	if opts.Union && len(invs) > 0 {
		union = newScopeState(UnionName, ScopeUnion, UnionOf(UnionName, invs...))
		states = append(states, union)
	}

	res := &Result{LineCount: len(text)}
	distinct := make(map[rune]struct{})
	for _, line := range text {
		for _, r := range line {
			if !IsHan(r) {
				res.NonHanTotal++
				continue
			}
			res.HanTotal++
			distinct[r] = struct{}{}
			for _, st := range states {
				st.observe(r)
			}
		}
	}
	res.DistinctHan = len(distinct)
	res.HasData = res.HanTotal > 0

	for _, st := range states {
		sc := st.finish(res, opts)
		if opts.PerLine {
			sc.Lines = LineBreakdown(text, st.set, opts.LineWorkers)
		}
		if st == union {
			res.Union = sc
			continue
		}
		res.Inventories = append(res.Inventories, sc)
	}
	return res, nil
}

func (st *scopeState) finish(res *Result, opts Options) *Scope {
	sc := st.scope
	sc.hanTotal = res.HanTotal
	sc.distinctHan = res.DistinctHan
	sc.OOV = st.oov

	uniq := make([]rune, 0, len(st.unique))
	for r := range st.unique {
		uniq = append(uniq, r)
	}
	slices.Sort(uniq)
	sc.Tally = Tally{Known: st.known, UniqueKnown: uniq}
	sc.Top, sc.Bottom = Rank(st.oov, opts.TopN, opts.BottomN)
	return sc
}
