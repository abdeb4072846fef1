// Package pinyin annotates characters with their Mandarin readings.
package pinyin

import (
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Annotator looks up tone-marked readings.
type Annotator struct {
	args gopinyin.Args
}

// NewAnnotator creates an annotator returning every reading with tone marks.
func NewAnnotator() *Annotator {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone // zhōng
	args.Heteronym = true
	return &Annotator{args: args}
}

// Readings returns all readings of r, or nil when none are known.
func (a *Annotator) Readings(r rune) []string {
	readings := gopinyin.SinglePinyin(r, a.args)
	if len(readings) == 0 {
		return nil
	}
	return readings
}

// Reading returns the readings of r joined by "/", or "" when unknown.
func (a *Annotator) Reading(r rune) string {
	return strings.Join(a.Readings(r), "/")
}
