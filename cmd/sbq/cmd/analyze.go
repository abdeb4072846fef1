package cmd

import (
	"bytes"
	"log/slog"

	"github.com/f3rmion/sbq/internal/coverage"
	"github.com/f3rmion/sbq/internal/inventory"
	"github.com/f3rmion/sbq/internal/pipeline"
	"github.com/f3rmion/sbq/internal/report"
	"github.com/spf13/cobra"
)

func (c *cli) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse a text against character inventories",
		Long: `Analyse a Chinese text against one or more character inventories.

An inventory is a UTF-8 text file whose Han characters are the known set, or
an Anki deck written as deck.apkg[#Field][@Deck]. The text is read from
--input, or from stdin when no input is given.

Examples:
  sbq analyze -i inventory_traditional.txt --input my_text.txt
  sbq analyze -i hsk1.txt -i hsk2.txt --union --per-line < story.txt
  sbq analyze -i "chinese.apkg#Hanzi@HSK 1" --input story.txt --format json -o report.json`,
		Args: cobra.NoArgs,
		RunE: c.runAnalyze,
	}

	f := cmd.Flags()
	f.StringSliceP("inventory", "i", nil, "inventory source, repeatable (default from config)")
	f.String("input", "", "text file to analyse (stdin if not specified)")
	f.StringP("output", "o", "", "also save the report to this file")
	f.Bool("union", false, "also report coverage against the union of all inventories")
	f.Bool("per-line", false, "add a per-line coverage breakdown")
	f.Int("top", coverage.DefaultTopN, "number of most frequent unknown characters")
	f.Int("bottom", coverage.DefaultTopN, "number of least frequent unknown characters")
	f.String("format", "text", "report format: text or json")
	f.String("dict", "", "Make Me a Hanzi dictionary.txt for definitions")
	f.Int("workers", 0, "goroutines for the per-line breakdown (0 or 1 runs serially)")
	f.Bool("no-pinyin", false, "omit pinyin readings")

	for key, flag := range map[string]string{
		"inventories": "inventory",
		"input":       "input",
		"output":      "output",
		"union":       "union",
		"per_line":    "per-line",
		"top_n":       "top",
		"bottom_n":    "bottom",
		"format":      "format",
		"dictionary":  "dict",
		"workers":     "workers",
	} {
		c.v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

// options converts settings to coverage options.
func (s settings) options() coverage.Options {
	return coverage.Options{
		Union:       s.Union,
		TopN:        s.TopN,
		BottomN:     s.BottomN,
		PerLine:     s.PerLine,
		LineWorkers: s.Workers,
	}
}

func (c *cli) runAnalyze(cmd *cobra.Command, args []string) error {
	s := c.settings()
	noPinyin, _ := cmd.Flags().GetBool("no-pinyin")

	srcs, err := inventory.ParseAll(s.Inventories)
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		slog.Warn("no inventories given; only character counts are reported")
	}

	text, err := pipeline.ReadInput(s.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, err := pipeline.Run(pipeline.Request{Sources: srcs, Text: text, Options: s.options()})
	if err != nil {
		return err
	}

	readings, glosses, err := sources(s, !noPinyin)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.NewRenderer(readings, glosses).Render(&buf, out.Result, s.Format); err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return err
	}

	if s.Output != "" {
		if err := report.Save(s.Output, buf.String()); err != nil {
			return err
		}
		slog.Info("report saved", "path", s.Output)
	}
	return nil
}
