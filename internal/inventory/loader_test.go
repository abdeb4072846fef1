package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in   string
		want Source
	}{
		{"inventory_traditional.txt", Source{Path: "inventory_traditional.txt"}},
		{" list#1.txt ", Source{Path: "list#1.txt"}},
		{"deck.apkg", Source{Path: "deck.apkg"}},
		{"deck.APKG#Hanzi", Source{Path: "deck.APKG", Field: "Hanzi"}},
		{"deck.apkg@HSK 1", Source{Path: "deck.apkg", Deck: "HSK 1"}},
		{"dir/deck.apkg#Hanzi@Primer::Sanzijing", Source{Path: "dir/deck.apkg", Field: "Hanzi", Deck: "Primer::Sanzijing"}},
		{"notes.apkg.txt", Source{Path: "notes.apkg.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSource(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSource("  ")
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestSourceLabelAndString(t *testing.T) {
	src := Source{Path: "dir/deck.apkg", Field: "Hanzi", Deck: "HSK"}
	assert.Equal(t, "deck@HSK", src.Label())
	assert.Equal(t, "dir/deck.apkg#Hanzi@HSK", src.String())
	assert.True(t, src.IsAnki())
	assert.Equal(t, "qianzi", Source{Path: "/tmp/qianzi.txt"}.Label())
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sanzijing.txt", "人之初\n性本善\n\n人，之。ABC\n")

	inv, err := Load(Source{Path: path}, "sanzijing")
	require.NoError(t, err)
	assert.Equal(t, "sanzijing", inv.Name())
	assert.Equal(t, 6, inv.Len())
	assert.Equal(t, 5, inv.Dropped())
}

func TestLoadAllDeduplicatesLabels(t *testing.T) {
	a := writeFile(t, t.TempDir(), "primer.txt", "人之")
	b := writeFile(t, t.TempDir(), "primer.txt", "初")
	c := writeFile(t, t.TempDir(), "primer.txt", "性")
	d := writeFile(t, t.TempDir(), "other.txt", "本")

	invs, err := LoadAll([]Source{{Path: a}, {Path: b}, {Path: c}, {Path: d}})
	require.NoError(t, err)
	require.Len(t, invs, 4)

	var names []string
	for _, inv := range invs {
		names = append(names, inv.Name())
	}
	assert.Equal(t, []string{"primer", "primer-2", "primer-3", "other"}, names)
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadAll([]Source{{Path: filepath.Join(t.TempDir(), "nope.txt")}})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(Source{Path: filepath.Join(t.TempDir(), "nope.apkg")}, "nope")
	assert.ErrorContains(t, err, "opening deck")
}

func TestParseAll(t *testing.T) {
	srcs, err := ParseAll([]string{"a.txt, b.txt", "", "deck.apkg#Hanzi"})
	require.NoError(t, err)
	assert.Equal(t, []Source{{Path: "a.txt"}, {Path: "b.txt"}, {Path: "deck.apkg", Field: "Hanzi"}}, srcs)
}
