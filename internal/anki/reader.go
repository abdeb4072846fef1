// Package anki reads Anki .apkg decks so their cards can serve as character
// inventories.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/f3rmion/sbq/internal/coverage"
	_ "modernc.org/sqlite"
)

// fieldSeparator splits the flds column of a note.
const fieldSeparator = "\x1f"

// ErrNoHanziField is returned when no field with Han characters can be found.
var ErrNoHanziField = errors.New("no field with Chinese characters")

// Package is an opened .apkg file. The embedded SQLite collection is
// extracted to a temporary directory that Close removes.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB

	Models map[int64]*Model
	Decks  map[int64]*Deck
	Notes  []*Note

	// noteDecks maps a note to every deck one of its cards lives in.
	noteDecks map[int64][]int64
}

// Model is an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
}

// Field is one field of a note type.
type Field struct {
	Name string `json:"name"`
	Ord  int    `json:"ord"`
}

// Deck is an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Note is a single Anki note with its fields split out.
type Note struct {
	ID      int64
	ModelID int64
	Fields  []string
}

// OpenPackage extracts and opens an .apkg file.
func OpenPackage(path string) (*Package, error) {
	tempDir, err := os.MkdirTemp("", "sbq-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	pkg := &Package{
		path:      path,
		tempDir:   tempDir,
		Models:    make(map[int64]*Model),
		Decks:     make(map[int64]*Deck),
		noteDecks: make(map[int64][]int64),
	}

	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath := filepath.Join(tempDir, "collection.anki21")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = filepath.Join(tempDir, "collection.anki2")
	}
	if _, err := os.Stat(dbPath); err != nil {
		pkg.Close()
		return nil, fmt.Errorf("no collection in %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pkg.db = db

	for _, load := range []func() error{pkg.loadCollection, pkg.loadNotes, pkg.loadCards} {
		if err := load(); err != nil {
			pkg.Close()
			return nil, err
		}
	}
	return pkg, nil
}

// extract unzips the package into the temp directory.
func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(p.tempDir) + string(os.PathSeparator)
	for _, f := range r.File {
		// Only the collection is needed; media files are skipped.
		if !strings.HasPrefix(f.Name, "collection.anki") {
			continue
		}
		fpath := filepath.Join(p.tempDir, f.Name)
		if !strings.HasPrefix(fpath, root) {
			return fmt.Errorf("illegal file path: %s", f.Name)
		}
		if err := copyZipFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func copyZipFile(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// loadCollection reads models and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]*Model
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, m := range modelsMap {
		if m != nil {
			p.Models[m.ID] = m
		}
	}

	var decksMap map[string]*Deck
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, d := range decksMap {
		if d != nil {
			p.Decks[d.ID] = d
		}
	}
	return nil
}

func (p *Package) loadNotes() error {
	rows, err := p.db.Query("SELECT id, mid, flds FROM notes ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			note Note
			flds string
		)
		if err := rows.Scan(&note.ID, &note.ModelID, &flds); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		note.Fields = strings.Split(flds, fieldSeparator)
		p.Notes = append(p.Notes, &note)
	}
	return rows.Err()
}

func (p *Package) loadCards() error {
	rows, err := p.db.Query("SELECT nid, did FROM cards")
	if err != nil {
		return fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nid, did int64
		if err := rows.Scan(&nid, &did); err != nil {
			return fmt.Errorf("scanning card: %w", err)
		}
		p.noteDecks[nid] = append(p.noteDecks[nid], did)
	}
	return rows.Err()
}

// Close removes the extracted collection.
func (p *Package) Close() error {
	var err error
	if p.db != nil {
		err = p.db.Close()
	}
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
	}
	return err
}

// FieldNames returns the field names of a note's model, by ordinal.
func (p *Package) FieldNames(note *Note) []string {
	model := p.Models[note.ModelID]
	if model == nil {
		return nil
	}
	names := make([]string, len(model.Fields))
	for _, f := range model.Fields {
		if f.Ord >= 0 && f.Ord < len(names) {
			names[f.Ord] = f.Name
		}
	}
	return names
}

// FieldValue returns a note field by case-insensitive name.
func (p *Package) FieldValue(note *Note, name string) (string, bool) {
	for i, n := range p.FieldNames(note) {
		if strings.EqualFold(n, name) && i < len(note.Fields) {
			return note.Fields[i], true
		}
	}
	return "", false
}

// DetectHanziField returns the first field name, in note order, whose value
// contains a Han character.
func (p *Package) DetectHanziField() (string, error) {
	for _, note := range p.Notes {
		names := p.FieldNames(note)
		for i, value := range note.Fields {
			if i < len(names) && containsHan(StripHTML(value)) {
				return names[i], nil
			}
		}
	}
	return "", ErrNoHanziField
}

// InDeck reports whether any card of note lives in a deck named deck or in
// one of its subdecks.
func (p *Package) InDeck(note *Note, deck string) bool {
	for _, did := range p.noteDecks[note.ID] {
		d := p.Decks[did]
		if d == nil {
			continue
		}
		if strings.EqualFold(d.Name, deck) || strings.HasPrefix(strings.ToLower(d.Name), strings.ToLower(deck)+"::") {
			return true
		}
	}
	return false
}

// Characters collects the Han characters of field across all notes, or only
// those in deck when deck is non-empty. An empty field is auto-detected.
func (p *Package) Characters(field, deck string) ([]rune, string, error) {
	if field == "" {
		detected, err := p.DetectHanziField()
		if err != nil {
			return nil, "", err
		}
		field = detected
	}

	var chars []rune
	for _, note := range p.Notes {
		if deck != "" && !p.InDeck(note, deck) {
			continue
		}
		value, ok := p.FieldValue(note, field)
		if !ok {
			continue
		}
		for _, r := range StripHTML(value) {
			if coverage.IsHan(r) {
				chars = append(chars, r)
			}
		}
	}
	return chars, field, nil
}

// DeckNames returns deck names sorted alphabetically.
func (p *Package) DeckNames() []string {
	names := make([]string, 0, len(p.Decks))
	for _, d := range p.Decks {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// Summary describes the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Anki Package: %s\n", p.path))
	sb.WriteString(fmt.Sprintf("  Decks: %d\n", len(p.Decks)))
	for _, name := range p.DeckNames() {
		sb.WriteString(fmt.Sprintf("    - %s\n", name))
	}
	sb.WriteString(fmt.Sprintf("  Models (Note Types): %d\n", len(p.Models)))
	models := make([]*Model, 0, len(p.Models))
	for _, m := range p.Models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	for _, m := range models {
		names := make([]string, len(m.Fields))
		for i, f := range m.Fields {
			names[i] = f.Name
		}
		sb.WriteString(fmt.Sprintf("    - %s (%s)\n", m.Name, strings.Join(names, ", ")))
	}
	sb.WriteString(fmt.Sprintf("  Notes: %d\n", len(p.Notes)))

	return sb.String()
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup so tag names and attributes are not scanned.
func StripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

func containsHan(s string) bool {
	for _, r := range s {
		if coverage.IsHan(r) {
			return true
		}
	}
	return false
}
