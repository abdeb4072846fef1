package coverage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, text string, opts Options, invs ...*Inventory) *Result {
	t.Helper()
	res, err := Analyze(SplitLines(text), invs, opts)
	require.NoError(t, err)
	return res
}

func TestAnalyzeSingleInventory(t *testing.T) {
	inv := NewInventory("sanzijing", "人之初性本")
	res := analyze(t, "人之初性本善", DefaultOptions(), inv)

	require.Len(t, res.Inventories, 1)
	assert.Nil(t, res.Union)
	assert.Equal(t, 6, res.HanTotal)
	assert.Equal(t, 6, res.DistinctHan)
	assert.True(t, res.HasData)

	sc := res.Primary()
	require.NotNil(t, sc)
	assert.Equal(t, "sanzijing", sc.Name)
	assert.Equal(t, 5, sc.Tally.Known)
	assert.Equal(t, []rune("之人初性本"), sc.Tally.UniqueKnown)
	assert.Equal(t, 1, sc.Unknown())
	assert.Equal(t, []rune{'善'}, sc.OOV.Chars())
	assert.Equal(t, 1, sc.OOV.Count('善'))
	assert.InDelta(t, 500.0/6, sc.OccurrenceCoverage(), 1e-9)
	assert.InDelta(t, 500.0/6, sc.UniqueCoverage(), 1e-9)
}

func TestAnalyzeUnion(t *testing.T) {
	a := NewInventory("A", "人")
	b := NewInventory("B", "之")
	opts := DefaultOptions()
	opts.Union = true
	res := analyze(t, "人之", opts, a, b)

	require.NotNil(t, res.Union)
	assert.Same(t, res.Union, res.Primary())
	assert.Equal(t, ScopeUnion, res.Union.Kind)
	assert.Equal(t, 2, res.Union.Size)
	assert.InDelta(t, 100.0, res.Union.OccurrenceCoverage(), 1e-9)
	assert.Zero(t, res.Union.OOV.Distinct())
	assert.Empty(t, res.Union.Top)

	scA := res.Scope("A")
	scB := res.Scope("B")
	require.NotNil(t, scA)
	require.NotNil(t, scB)
	assert.InDelta(t, 50.0, scA.OccurrenceCoverage(), 1e-9)
	assert.InDelta(t, 50.0, scB.OccurrenceCoverage(), 1e-9)
	assert.Equal(t, []rune{'之'}, scA.OOV.Chars())
	assert.Equal(t, []rune{'人'}, scB.OOV.Chars())
	assert.Len(t, res.Scopes(), 3)
}

func TestAnalyzeMultipleWithoutUnionHasNoPrimary(t *testing.T) {
	res := analyze(t, "人之", DefaultOptions(), NewInventory("A", "人"), NewInventory("B", "之"))
	assert.Nil(t, res.Primary())
	assert.Nil(t, res.Union)
	assert.Len(t, res.Inventories, 2)
}

func TestAnalyzeUnionOfOne(t *testing.T) {
	opts := DefaultOptions()
	opts.Union = true
	res := analyze(t, "人之初", opts, NewInventory("A", "人之"))
	require.NotNil(t, res.Union)
	assert.Equal(t, res.Inventories[0].Tally, res.Union.Tally)
}

func TestAnalyzeEmptyText(t *testing.T) {
	opts := DefaultOptions()
	opts.PerLine = true
	res := analyze(t, "", opts, NewInventory("A", "人"))

	assert.Zero(t, res.HanTotal)
	assert.Zero(t, res.NonHanTotal)
	assert.Zero(t, res.DistinctHan)
	assert.False(t, res.HasData)

	sc := res.Primary()
	require.NotNil(t, sc)
	assert.Zero(t, sc.Tally.Known)
	assert.Zero(t, sc.OOV.Distinct())
	assert.Nil(t, sc.Top)
	assert.Nil(t, sc.Bottom)
	assert.Equal(t, 100.0, sc.OccurrenceCoverage())
	assert.Equal(t, 100.0, sc.UniqueCoverage())
	assert.Empty(t, sc.Lines)
}

func TestAnalyzeNoInventories(t *testing.T) {
	res := analyze(t, "人之初，性本善。abc 123", DefaultOptions())
	assert.Equal(t, 6, res.HanTotal)
	assert.Equal(t, 9, res.NonHanTotal)
	assert.Empty(t, res.Inventories)
	assert.Nil(t, res.Union)
	assert.Nil(t, res.Primary())

	opts := DefaultOptions()
	opts.Union = true
	res = analyze(t, "人", opts)
	assert.Nil(t, res.Union)
}

func TestAnalyzeIgnoresNonHan(t *testing.T) {
	inv := NewInventory("A", "人之")
	res := analyze(t, "人, 之! Hello 2024。\n  之", DefaultOptions(), inv)

	assert.Equal(t, 3, res.HanTotal)
	assert.Equal(t, 2, res.DistinctHan)
	assert.Equal(t, 17, res.NonHanTotal)
	sc := res.Primary()
	assert.Equal(t, 3, sc.Tally.Known)
	assert.Zero(t, sc.Unknown())
	assert.Equal(t, 100.0, sc.OccurrenceCoverage())
}

func TestAnalyzeOccurrenceAndUniqueCoverageDiffer(t *testing.T) {
	inv := NewInventory("A", "之")
	res := analyze(t, "之之之之人", DefaultOptions(), inv)
	sc := res.Primary()
	assert.InDelta(t, 80.0, sc.OccurrenceCoverage(), 1e-9)
	assert.InDelta(t, 50.0, sc.UniqueCoverage(), 1e-9)
}

func TestAnalyzeValidation(t *testing.T) {
	inv := NewInventory("A", "人")
	tests := []struct {
		name string
		opts Options
	}{
		{"zero top", Options{TopN: 0, BottomN: 5}},
		{"negative top", Options{TopN: -1, BottomN: 5}},
		{"zero bottom", Options{TopN: 5, BottomN: 0}},
		{"negative workers", Options{TopN: 5, BottomN: 5, LineWorkers: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(SplitLines("人"), []*Inventory{inv}, tt.opts)
			require.ErrorIs(t, err, ErrInvalidOptions)
			assert.Nil(t, res)
		})
	}
}

func TestAnalyzeNilInventory(t *testing.T) {
	_, err := Analyze(SplitLines("人"), []*Inventory{NewInventory("A", "人"), nil}, DefaultOptions())
	require.ErrorIs(t, err, ErrNilInventory)
	assert.Contains(t, err.Error(), "position 1")
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	invs := []*Inventory{NewInventory("A", "人之初性"), NewInventory("B", "本善性相近")}
	opts := Options{Union: true, TopN: 3, BottomN: 3, PerLine: true}
	text := SplitLines("人之初，性本善。\n性相近，習相遠。\n苟不教，性乃遷。")

	first, err := Analyze(text, invs, opts)
	require.NoError(t, err)
	second, err := Analyze(text, invs, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeUniqueKnownPlusUnknownIsDistinct(t *testing.T) {
	invs := []*Inventory{
		NewInventory("A", "人之初"),
		NewInventory("B", "性本善"),
		NewInventory("C", "天地玄黃"),
	}
	opts := DefaultOptions()
	opts.Union = true
	res := analyze(t, "人之初，性本善。性相近，習相遠。天地玄黃，宇宙洪荒。", opts, invs...)

	for _, sc := range res.Scopes() {
		assert.Equal(t, res.DistinctHan, len(sc.Tally.UniqueKnown)+sc.OOV.Distinct(), sc.Name)
		assert.Equal(t, res.HanTotal, sc.Tally.Known+sc.Unknown(), sc.Name)
	}
}

func TestUnionCoverageIsMonotonic(t *testing.T) {
	text := "天地玄黃，宇宙洪荒。日月盈昃，辰宿列張。寒來暑往，秋收冬藏。"
	invs := []*Inventory{
		NewInventory("one", "天地"),
		NewInventory("two", "玄黃宇宙地"),
		NewInventory("three", "日月"),
		NewInventory("four", "xyz"),
		NewInventory("five", "寒來暑往秋收冬藏"),
	}
	opts := DefaultOptions()
	opts.Union = true

	prev := -1.0
	for k := 1; k <= len(invs); k++ {
		res := analyze(t, text, opts, invs[:k]...)
		got := res.Union.OccurrenceCoverage()
		assert.GreaterOrEqual(t, got, prev, "after adding %s", invs[k-1].Name())
		prev = got
	}
}

// distinctOOVText has 20 distinct OOV characters U+4E00..U+4E13, character i
// occurring (i%4)+1 times, written in reverse code point order.
func distinctOOVText() string {
	var b strings.Builder
	for i := 19; i >= 0; i-- {
		b.WriteString(strings.Repeat(string(rune(0x4E00+i)), i%4+1))
	}
	return b.String()
}

func TestAnalyzeTopNTieBreak(t *testing.T) {
	opts := DefaultOptions()
	opts.TopN = 5
	opts.BottomN = 5
	res := analyze(t, distinctOOVText(), opts, NewInventory("A", "人"))
	sc := res.Primary()
	require.Equal(t, 20, sc.OOV.Distinct())

	require.Len(t, sc.Top, 5)
	assert.Equal(t, []FreqEntry{
		{0x4E03, 4}, {0x4E07, 4}, {0x4E0B, 4}, {0x4E0F, 4}, {0x4E13, 4},
	}, sc.Top)

	require.Len(t, sc.Bottom, 5)
	assert.Equal(t, []FreqEntry{
		{0x4E00, 1}, {0x4E04, 1}, {0x4E08, 1}, {0x4E0C, 1}, {0x4E10, 1},
	}, sc.Bottom)
}

func TestLineOptionsAreCarried(t *testing.T) {
	opts := DefaultOptions()
	opts.PerLine = true
	opts.Union = true
	res := analyze(t, "人之\n\n初", opts, NewInventory("A", "人"), NewInventory("B", "初"))
	for _, sc := range res.Scopes() {
		assert.Len(t, sc.Lines, 3, sc.Name)
	}
	assert.Equal(t, 3, res.LineCount)
}
