// Package inventory loads character inventories from disk.
//
// A source is either a plain UTF-8 text file, whose Han characters form the
// inventory regardless of layout, or an Anki deck written as
//
//	deck.apkg[#Field][@Deck]
//
// where Field selects the note field to read (auto-detected when omitted)
// and Deck restricts the notes to one deck and its subdecks.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/sbq/internal/anki"
	"github.com/f3rmion/sbq/internal/coverage"
)

// ErrEmptySource is returned for a blank source string.
var ErrEmptySource = errors.New("empty inventory source")

// Source names one inventory on disk.
type Source struct {
	Path  string
	Field string // Anki only
	Deck  string // Anki only
}

// IsAnki reports whether the source points at an .apkg deck.
func (s Source) IsAnki() bool {
	return strings.EqualFold(filepath.Ext(s.Path), ".apkg")
}

// Label is the default inventory name: the file stem, plus the deck when
// one is selected.
func (s Source) Label() string {
	base := filepath.Base(s.Path)
	label := strings.TrimSuffix(base, filepath.Ext(base))
	if label == "" {
		label = s.Path
	}
	if s.Deck != "" {
		label += "@" + s.Deck
	}
	return label
}

// String renders the source back in flag syntax.
func (s Source) String() string {
	out := s.Path
	if s.Field != "" {
		out += "#" + s.Field
	}
	if s.Deck != "" {
		out += "@" + s.Deck
	}
	return out
}

// ParseSource parses a flag value. The #Field and @Deck suffixes are only
// recognised after an .apkg path so text file names may contain # and @.
func ParseSource(s string) (Source, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Source{}, ErrEmptySource
	}

	idx := strings.Index(strings.ToLower(s), ".apkg")
	if idx < 0 {
		return Source{Path: s}, nil
	}
	src := Source{Path: s[:idx+len(".apkg")]}
	rest := s[idx+len(".apkg"):]
	if rest == "" {
		return src, nil
	}
	if rest[0] != '#' && rest[0] != '@' {
		// Something like "decks.apkg.txt": not a deck after all.
		return Source{Path: s}, nil
	}
	if at := strings.Index(rest, "@"); at >= 0 {
		src.Deck = rest[at+1:]
		rest = rest[:at]
	}
	src.Field = strings.TrimPrefix(rest, "#")
	return src, nil
}

// Load reads one inventory and names it name.
func Load(src Source, name string) (*coverage.Inventory, error) {
	if src.IsAnki() {
		return loadAnki(src, name)
	}
	return loadText(src.Path, name)
}

func loadText(path, name string) (*coverage.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory %s: %w", path, err)
	}
	return coverage.NewInventory(name, string(data)), nil
}

func loadAnki(src Source, name string) (*coverage.Inventory, error) {
	pkg, err := anki.OpenPackage(src.Path)
	if err != nil {
		return nil, fmt.Errorf("opening deck %s: %w", src.Path, err)
	}
	defer pkg.Close()

	chars, _, err := pkg.Characters(src.Field, src.Deck)
	if err != nil {
		return nil, fmt.Errorf("reading deck %s: %w", src, err)
	}
	return coverage.NewInventoryFromRunes(name, chars), nil
}

// LoadAll loads every source in order. Labels collide-proof themselves as
// stem, stem-2, stem-3 and so on.
func LoadAll(sources []Source) ([]*coverage.Inventory, error) {
	invs := make([]*coverage.Inventory, 0, len(sources))
	used := make(map[string]bool, len(sources))
	for _, src := range sources {
		label := uniqueLabel(src.Label(), used)
		inv, err := Load(src, label)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, nil
}

// ParseAll parses flag values, splitting comma-separated lists the way the
// wizard accepts them.
func ParseAll(values []string) ([]Source, error) {
	var out []Source
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			src, err := ParseSource(part)
			if err != nil {
				return nil, err
			}
			out = append(out, src)
		}
	}
	return out, nil
}

func uniqueLabel(base string, used map[string]bool) string {
	label := base
	for n := 2; used[label]; n++ {
		label = fmt.Sprintf("%s-%d", base, n)
	}
	used[label] = true
	return label
}
