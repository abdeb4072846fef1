// Package decomp reads Make Me a Hanzi dictionary data to gloss characters.
package decomp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Entry is one line of Make Me a Hanzi dictionary.txt.
type Entry struct {
	Character  string   `json:"character"`
	Definition string   `json:"definition"`
	Pinyin     []string `json:"pinyin"`
	Radical    string   `json:"radical"`
}

// Dictionary maps characters to entries.
type Dictionary struct {
	entries map[rune]*Entry
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[rune]*Entry)}
}

// LoadFromFile loads a JSON-lines dictionary file.
func (d *Dictionary) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dictionary file: %w", err)
	}
	defer file.Close()

	if err := d.Load(file); err != nil {
		return fmt.Errorf("reading dictionary file: %w", err)
	}
	return nil
}

// Load reads JSON-lines entries from r. Malformed lines and entries that are
// not a single character are skipped.
func (d *Dictionary) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		ch, size := utf8.DecodeRuneInString(entry.Character)
		if ch == utf8.RuneError || size != len(entry.Character) {
			continue
		}
		d.entries[ch] = &entry
	}
	return scanner.Err()
}

// Lookup returns the entry for r, or nil.
func (d *Dictionary) Lookup(r rune) *Entry {
	if d == nil {
		return nil
	}
	return d.entries[r]
}

// Definition returns the English gloss for r, or "" when unknown.
func (d *Dictionary) Definition(r rune) string {
	if e := d.Lookup(r); e != nil {
		return e.Definition
	}
	return ""
}

// Size returns the number of entries.
func (d *Dictionary) Size() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
