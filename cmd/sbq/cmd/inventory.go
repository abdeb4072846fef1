package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/f3rmion/sbq/internal/inventory"
	"github.com/spf13/cobra"
)

func (c *cli) newInventoryCmd() *cobra.Command {
	invCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Work with character inventories",
	}

	inspect := &cobra.Command{
		Use:   "inspect <source>...",
		Short: "Show what an inventory contains",
		Long: `Load inventories the way analyze does and show their size, the number of
non-Han characters that were ignored, and a sample of the characters.

Examples:
  sbq inventory inspect inventory_traditional.txt
  sbq inventory inspect "chinese.apkg#Hanzi@HSK 1"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInventoryInspect,
	}
	inspect.Flags().IntP("sample", "n", 40, "number of characters to show")

	invCmd.AddCommand(inspect)
	return invCmd
}

func runInventoryInspect(cmd *cobra.Command, args []string) error {
	sample, _ := cmd.Flags().GetInt("sample")

	srcs, err := inventory.ParseAll(args)
	if err != nil {
		return err
	}
	invs, err := inventory.LoadAll(srcs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, inv := range invs {
		fmt.Fprintf(out, "%s (%s)\n", inv.Name(), srcs[i])
		fmt.Fprintf(out, "  Characters: %s\n", humanize.Comma(int64(inv.Len())))
		fmt.Fprintf(out, "  Non-Han ignored: %s\n", humanize.Comma(int64(inv.Dropped())))

		chars := inv.Chars()
		more := ""
		if sample >= 0 && len(chars) > sample {
			chars = chars[:sample]
			more = "…"
		}
		fmt.Fprintf(out, "  Sample: %s%s\n", string(chars), more)
	}
	return nil
}
