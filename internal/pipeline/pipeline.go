// Package pipeline runs one analysis end to end: load the inventories, read
// the text, analyse it. The CLI and the wizard share it.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/f3rmion/sbq/internal/coverage"
	"github.com/f3rmion/sbq/internal/inventory"
)

// Request describes one analysis.
type Request struct {
	Sources []inventory.Source
	Text    string
	Options coverage.Options
}

// Outcome is a finished analysis.
type Outcome struct {
	Inventories []*coverage.Inventory
	Result      *coverage.Result
}

// Run loads the inventories of req and analyses its text.
func Run(req Request) (*Outcome, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	invs, err := inventory.LoadAll(req.Sources)
	if err != nil {
		return nil, err
	}
	for i, inv := range invs {
		slog.Debug("loaded inventory",
			"name", inv.Name(), "source", req.Sources[i].String(), "size", inv.Len())
		if inv.Dropped() > 0 {
			slog.Warn("ignored non-Han characters in inventory",
				"name", inv.Name(), "dropped", inv.Dropped())
		}
	}

	res, err := coverage.Analyze(coverage.SplitLines(req.Text), invs, req.Options)
	if err != nil {
		return nil, err
	}
	slog.Debug("analysis finished",
		"han", res.HanTotal, "distinct", res.DistinctHan, "lines", res.LineCount)

	return &Outcome{Inventories: invs, Result: res}, nil
}

// ReadInput reads the text to analyse from path, or from stdin when path is
// empty or "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
