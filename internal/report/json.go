package report

import (
	"encoding/json"
	"io"

	"github.com/f3rmion/sbq/internal/coverage"
)

type jsonReport struct {
	HanTotal    int         `json:"han_total"`
	NonHanTotal int         `json:"non_han_total"`
	DistinctHan int         `json:"distinct_han"`
	LineCount   int         `json:"line_count"`
	HasData     bool        `json:"has_data"`
	Primary     string      `json:"primary,omitempty"`
	Scopes      []jsonScope `json:"scopes"`
}

type jsonScope struct {
	Name               string      `json:"name"`
	Kind               string      `json:"kind"`
	Size               int         `json:"size"`
	Known              int         `json:"known"`
	Unknown            int         `json:"unknown"`
	UniqueKnown        string      `json:"unique_known"`
	OccurrenceCoverage float64     `json:"coverage"`
	UniqueCoverage     float64     `json:"unique_coverage"`
	OOV                string      `json:"oov"`
	Top                []jsonEntry `json:"top"`
	Bottom             []jsonEntry `json:"bottom"`
	Lines              []jsonLine  `json:"lines,omitempty"`
}

type jsonEntry struct {
	Char       string `json:"char"`
	Count      int    `json:"count"`
	CodePoint  string `json:"code_point"`
	Name       string `json:"name"`
	Reading    string `json:"reading,omitempty"`
	Definition string `json:"definition,omitempty"`
}

type jsonLine struct {
	Number     int      `json:"number"`
	Text       string   `json:"text"`
	Han        int      `json:"han"`
	Known      int      `json:"known"`
	Applicable bool     `json:"applicable"`
	Percent    *float64 `json:"percent"`
}

// JSON writes res as an indented JSON document. Lines without Han
// characters carry a null percent.
func (r *Renderer) JSON(w io.Writer, res *coverage.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r.document(res))
}

func (r *Renderer) document(res *coverage.Result) jsonReport {
	doc := jsonReport{
		HanTotal:    res.HanTotal,
		NonHanTotal: res.NonHanTotal,
		DistinctHan: res.DistinctHan,
		LineCount:   res.LineCount,
		HasData:     res.HasData,
		Scopes:      []jsonScope{},
	}
	if p := res.Primary(); p != nil {
		doc.Primary = p.Name
	}
	for _, sc := range res.Scopes() {
		doc.Scopes = append(doc.Scopes, r.scope(sc))
	}
	return doc
}

func (r *Renderer) scope(sc *coverage.Scope) jsonScope {
	out := jsonScope{
		Name:               sc.Name,
		Kind:               sc.Kind.String(),
		Size:               sc.Size,
		Known:              sc.Tally.Known,
		Unknown:            sc.Unknown(),
		UniqueKnown:        string(sc.Tally.UniqueKnown),
		OccurrenceCoverage: sc.OccurrenceCoverage(),
		UniqueCoverage:     sc.UniqueCoverage(),
		OOV:                UniqueOOV(sc),
		Top:                r.entries(sc.Top),
		Bottom:             r.entries(sc.Bottom),
	}
	for _, lc := range sc.Lines {
		line := jsonLine{
			Number:     lc.Number,
			Text:       lc.Text,
			Han:        lc.Han,
			Known:      lc.Known,
			Applicable: lc.Applicable,
		}
		if lc.Applicable {
			p := lc.Percent
			line.Percent = &p
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func (r *Renderer) entries(in []coverage.FreqEntry) []jsonEntry {
	out := make([]jsonEntry, 0, len(in))
	for _, e := range in {
		je := jsonEntry{
			Char:      string(e.Char),
			Count:     e.Count,
			CodePoint: CodePoint(e.Char),
			Name:      UnicodeName(e.Char),
		}
		if r.readings != nil {
			je.Reading = r.readings.Reading(e.Char)
		}
		if r.glosses != nil {
			je.Definition = r.glosses.Definition(e.Char)
		}
		out = append(out, je)
	}
	return out
}
