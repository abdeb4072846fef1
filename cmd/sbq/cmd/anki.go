package cmd

import (
	"errors"
	"fmt"

	"github.com/f3rmion/sbq/internal/anki"
	"github.com/f3rmion/sbq/internal/coverage"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func (c *cli) newAnkiCmd() *cobra.Command {
	ankiCmd := &cobra.Command{
		Use:   "anki",
		Short: "Work with Anki decks",
		Long:  `Commands for reading Anki .apkg files used as character inventories.`,
	}

	inspect := &cobra.Command{
		Use:   "inspect <file.apkg>",
		Short: "Inspect an Anki deck",
		Long: `Inspect an Anki .apkg file to see its structure:
  - Decks
  - Note types (models) and their fields
  - The field sbq would read characters from
  - Sample notes

Example:
  sbq anki inspect chinese.apkg`,
		Args: cobra.ExactArgs(1),
		RunE: runAnkiInspect,
	}
	inspect.Flags().IntP("limit", "n", 5, "Number of sample notes to show")

	ankiCmd.AddCommand(inspect)
	return ankiCmd
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	pkg, err := anki.OpenPackage(args[0])
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Fprint(out, pkg.Summary())
	fmt.Fprintln(out)

	chars, field, err := pkg.Characters("", "")
	switch {
	case errors.Is(err, anki.ErrNoHanziField):
		fmt.Fprintln(out, "Characters: no field with Chinese characters")
	case err != nil:
		return err
	default:
		inv := coverage.NewInventoryFromRunes(field, chars)
		fmt.Fprintf(out, "Characters: %d distinct in field %q\n", inv.Len(), field)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Sample Notes (first %d):\n", limit)
	for i, note := range pkg.Notes {
		if i >= limit {
			break
		}
		fmt.Fprintf(out, "\n  Note %d:\n", note.ID)
		names := pkg.FieldNames(note)
		for j, value := range note.Fields {
			name := fmt.Sprintf("Field %d", j)
			if j < len(names) {
				name = names[j]
			}
			value = runewidth.Truncate(anki.StripHTML(value), 60, "...")
			fmt.Fprintf(out, "    %s: %s\n", name, value)
		}
	}
	return nil
}
