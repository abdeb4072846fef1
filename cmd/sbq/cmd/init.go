package cmd

import (
	"fmt"
	"os"

	"github.com/f3rmion/sbq/internal/config"
	"github.com/spf13/cobra"
)

func (c *cli) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write the built-in defaults to the config file so they can be edited.

The file lists the default inventories, report format, list sizes and log
settings. Flags and SBQ_* environment variables still override it.`,
		Args: cobra.NoArgs,
		RunE: c.runInit,
	}
	cmd.Flags().Bool("force", false, "overwrite an existing configuration")
	return cmd
}

func (c *cli) runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, err := c.configPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. List your inventories under 'inventories'")
	fmt.Fprintln(out, "  2. Run 'sbq analyze --input <text>' or just 'sbq' for the wizard")
	return nil
}
