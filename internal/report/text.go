// Package report renders coverage results for people and for programs.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/f3rmion/sbq/internal/coverage"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/runenames"
)

// DefaultLineWidth is the display width per-line excerpts are cut to.
const DefaultLineWidth = 60

// ErrUnknownFormat is returned by Render for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// ReadingSource supplies pinyin for a character.
type ReadingSource interface {
	Reading(r rune) string
}

// GlossSource supplies an English definition for a character.
type GlossSource interface {
	Definition(r rune) string
}

// Renderer formats a coverage.Result. Readings and glosses are optional.
type Renderer struct {
	readings  ReadingSource
	glosses   GlossSource
	lineWidth int
}

// NewRenderer creates a renderer; either source may be nil.
func NewRenderer(readings ReadingSource, glosses GlossSource) *Renderer {
	return &Renderer{
		readings:  readings,
		glosses:   glosses,
		lineWidth: DefaultLineWidth,
	}
}

// SetLineWidth sets the display width of per-line excerpts; 0 disables
// truncation.
func (r *Renderer) SetLineWidth(width int) {
	r.lineWidth = width
}

// Render writes res in format "text" or "json".
func (r *Renderer) Render(w io.Writer, res *coverage.Result, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		return r.Text(w, res)
	case "json":
		return r.JSON(w, res)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Text writes the plain-text report.
func (r *Renderer) Text(w io.Writer, res *coverage.Result) error {
	_, err := io.WriteString(w, r.TextString(res))
	return err
}

// TextString returns the plain-text report.
func (r *Renderer) TextString(res *coverage.Result) string {
	var sb strings.Builder

	writeInventories(&sb, res)
	writeTotals(&sb, res)

	for _, sc := range res.Scopes() {
		r.writeScope(&sb, res, sc)
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// HeaderText returns the inventory and text totals that open the report.
func (r *Renderer) HeaderText(res *coverage.Result) string {
	var sb strings.Builder
	writeInventories(&sb, res)
	writeTotals(&sb, res)
	return strings.TrimRight(sb.String(), "\n")
}

// ScopeText returns the report block of a single scope.
func (r *Renderer) ScopeText(res *coverage.Result, sc *coverage.Scope) string {
	var sb strings.Builder
	r.writeScope(&sb, res, sc)
	return strings.Trim(sb.String(), "\n")
}

func writeInventories(sb *strings.Builder, res *coverage.Result) {
	sb.WriteString("=== Inventories Loaded ===\n")
	if len(res.Inventories) == 0 {
		sb.WriteString("(none: only character counts are reported)\n")
	}
	rawSum := 0
	for _, sc := range res.Inventories {
		fmt.Fprintf(sb, "- %s: %s characters\n", sc.Name, humanize.Comma(int64(sc.Size)))
		rawSum += sc.Size
	}
	if res.Union != nil {
		fmt.Fprintf(sb, "- %s: %s (raw sum; union unique size %s)\n",
			coverage.UnionName, humanize.Comma(int64(rawSum)), humanize.Comma(int64(res.Union.Size)))
	}
}

func writeTotals(sb *strings.Builder, res *coverage.Result) {
	sb.WriteString("\n=== Text ===\n")
	fmt.Fprintf(sb, "Lines: %s\n", humanize.Comma(int64(res.LineCount)))
	fmt.Fprintf(sb, "Han characters: %s (%s distinct)\n",
		humanize.Comma(int64(res.HanTotal)), humanize.Comma(int64(res.DistinctHan)))
	fmt.Fprintf(sb, "Other characters (ignored): %s\n", humanize.Comma(int64(res.NonHanTotal)))
	if !res.HasData {
		sb.WriteString("No Han characters in the text: coverage is reported as 100% (no data).\n")
	}
}

func scopeTitle(sc *coverage.Scope) string {
	if sc.Kind == coverage.ScopeUnion {
		return "UNION of inventories"
	}
	return sc.Name
}

func (r *Renderer) writeScope(sb *strings.Builder, res *coverage.Result, sc *coverage.Scope) {
	fmt.Fprintf(sb, "\n=== Results for [%s] ===\n", scopeTitle(sc))
	fmt.Fprintf(sb, "Total counted chars: %s\n", humanize.Comma(int64(res.HanTotal)))
	fmt.Fprintf(sb, "Known (in-inventory): %s\n", humanize.Comma(int64(sc.Tally.Known)))
	fmt.Fprintf(sb, "Unknown (OOV): %s\n", humanize.Comma(int64(sc.Unknown())))
	fmt.Fprintf(sb, "Coverage: %s\n", formatPercent(sc.OccurrenceCoverage(), res.HasData))
	fmt.Fprintf(sb, "Unique coverage: %s (%s/%s distinct)\n",
		formatPercent(sc.UniqueCoverage(), res.HasData),
		humanize.Comma(int64(len(sc.Tally.UniqueKnown))), humanize.Comma(int64(res.DistinctHan)))

	if sc.OOV.Distinct() == 0 {
		if sc.Kind == coverage.ScopeUnion {
			sb.WriteString("\nNo unknown characters under union. 🎉\n")
		} else {
			sb.WriteString("\nNo unknown characters. 🎉\n")
		}
	} else {
		sb.WriteString("\nList of characters not present (unique OOV, freq-desc):\n")
		sb.WriteString(UniqueOOV(sc))
		sb.WriteString("\n")

		fmt.Fprintf(sb, "\nTop %d unknown characters (high frequency):\n", len(sc.Top))
		r.writeEntries(sb, sc.Top)
		fmt.Fprintf(sb, "\nBottom %d unknown characters (low frequency):\n", len(sc.Bottom))
		r.writeEntries(sb, sc.Bottom)
	}

	if sc.Lines != nil {
		sb.WriteString("\nPer-line coverage:\n")
		for _, lc := range sc.Lines {
			sb.WriteString(r.formatLine(lc))
			sb.WriteString("\n")
		}
	}
}

// UniqueOOV returns the distinct OOV characters of sc as one string,
// most frequent first, ties by code point.
func UniqueOOV(sc *coverage.Scope) string {
	var sb strings.Builder
	for _, e := range sc.OOV.Sorted() {
		sb.WriteRune(e.Char)
	}
	return sb.String()
}

func (r *Renderer) writeEntries(sb *strings.Builder, entries []coverage.FreqEntry) {
	for _, e := range entries {
		fields := []string{
			string(e.Char),
			fmt.Sprint(e.Count),
			CodePoint(e.Char),
			UnicodeName(e.Char),
		}
		if r.readings != nil {
			fields = append(fields, r.readings.Reading(e.Char))
		}
		if r.glosses != nil {
			fields = append(fields, r.glosses.Definition(e.Char))
		}
		sb.WriteString(strings.TrimRight(strings.Join(fields, "\t"), "\t"))
		sb.WriteString("\n")
	}
}

func (r *Renderer) formatLine(lc coverage.LineCoverage) string {
	text := lc.Text
	if r.lineWidth > 0 {
		text = runewidth.Truncate(text, r.lineWidth, "…")
	}
	if !lc.Applicable {
		return fmt.Sprintf("%4d: %4s/%-4d %7s | %s", lc.Number, "-", 0, "n/a", text)
	}
	return fmt.Sprintf("%4d: %4d/%-4d %6.2f%% | %s", lc.Number, lc.Known, lc.Han, lc.Percent, text)
}

func formatPercent(p float64, hasData bool) string {
	if !hasData {
		return fmt.Sprintf("%.2f%% (no data)", p)
	}
	return fmt.Sprintf("%.2f%%", p)
}

// CodePoint formats r as U+XXXX.
func CodePoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// UnicodeName returns the Unicode character name of r. Unified ideographs
// are named algorithmically, as the name tables store them as ranges.
func UnicodeName(r rune) string {
	name := runenames.Name(r)
	if name == "" || strings.HasPrefix(name, "<") {
		if coverage.IsHan(r) {
			return fmt.Sprintf("CJK UNIFIED IDEOGRAPH-%04X", r)
		}
		return "<unnamed>"
	}
	return name
}

// Save writes a rendered report to path.
func Save(path string, body string) error {
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
