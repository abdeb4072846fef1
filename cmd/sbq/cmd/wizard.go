package cmd

import (
	"strings"

	"github.com/f3rmion/sbq/internal/clipboard"
	"github.com/f3rmion/sbq/internal/tui"
	"github.com/f3rmion/sbq/internal/tui/bigchar"
	"github.com/f3rmion/sbq/internal/tui/views"
	"github.com/spf13/cobra"
)

// Wizard defaults used when the config leaves a path empty.
const (
	defaultWizardInput  = "my_text.txt"
	defaultWizardOutput = "coverage_report.txt"
)

func (c *cli) newWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "wizard",
		Aliases: []string{"interactive", "ui"},
		Short:   "Launch the interactive wizard",
		Long: `Launch a terminal wizard that asks for the inventories, the text and the
report options, runs the analysis and opens a results browser.

Results controls:
  tab     Next scope (each inventory, then the union)
  ←/→     Browse unknown characters with a large glyph preview
  c       Copy the unknown characters to the clipboard
  n       Start a new analysis
  q       Quit`,
		Args: cobra.NoArgs,
		RunE: c.runWizard,
	}
}

// wizardOptions builds the app options from resolved settings.
func wizardOptions(s settings) (tui.Options, error) {
	readings, glosses, err := sources(s, true)
	if err != nil {
		return tui.Options{}, err
	}

	defaults := views.FormValues{
		Inventories: strings.Join(s.Inventories, ", "),
		Input:       s.Input,
		Output:      s.Output,
		Union:       s.Union,
		PerLine:     s.PerLine,
		TopN:        s.TopN,
		BottomN:     s.BottomN,
	}
	if defaults.Input == "" {
		defaults.Input = defaultWizardInput
	}
	if defaults.Output == "" {
		defaults.Output = defaultWizardOutput
	}

	return tui.Options{
		Defaults:  defaults,
		Analysis:  s.options(),
		Format:    s.Format,
		Readings:  readings,
		Glosses:   glosses,
		Glyphs:    bigchar.New(),
		Clipboard: clipboard.New(),
	}, nil
}

func (c *cli) runWizard(cmd *cobra.Command, args []string) error {
	opts, err := wizardOptions(c.settings())
	if err != nil {
		return err
	}
	return tui.Run(tui.NewApp(opts))
}
