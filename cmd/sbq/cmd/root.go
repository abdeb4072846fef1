// Package cmd contains all CLI commands for sbq.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/f3rmion/sbq/internal/config"
	"github.com/f3rmion/sbq/internal/decomp"
	"github.com/f3rmion/sbq/internal/logging"
	"github.com/f3rmion/sbq/internal/pinyin"
	"github.com/f3rmion/sbq/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings are the resolved analysis options: flags over SBQ_* environment
// variables over the config file over the built-in defaults.
type settings struct {
	Inventories []string
	Input       string
	Output      string
	Format      string
	Dictionary  string
	Union       bool
	PerLine     bool
	TopN        int
	BottomN     int
	Workers     int
}

// cli carries the state shared by one command tree.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

// Execute runs the command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "sbq",
		Short: "Measure how much of a Chinese text your known characters cover",
		Long: `sbq compares a Chinese text against one or more character inventories
(plain text files or Anki decks) and reports occurrence and unique coverage,
the unknown characters ranked by frequency, and optionally a per-line
breakdown.

Running 'sbq' without arguments launches the interactive wizard.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initConfig,
		RunE:              c.runWizard,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/sbq/config.yaml)")
	flags.Bool("verbose", false, "verbose output")
	flags.String("log-format", "", "log format: text or json")
	c.v.BindPFlag("verbose", flags.Lookup("verbose"))
	c.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		c.newAnalyzeCmd(),
		c.newWizardCmd(),
		c.newInventoryCmd(),
		c.newAnkiCmd(),
		c.newInitCmd(),
	)
	return root
}

// configPath returns the config file in use.
func (c *cli) configPath() (string, error) {
	if c.cfgFile != "" {
		return c.cfgFile, nil
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.FileName), nil
}

// initConfig reads the config file and ENV variables and sets up logging.
func (c *cli) initConfig(cmd *cobra.Command, args []string) error {
	path, err := c.configPath()
	if err != nil {
		return fmt.Errorf("finding config directory: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	v := c.v
	v.SetDefault("inventories", cfg.Inventories)
	v.SetDefault("input", cfg.Input)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("dictionary", cfg.Dictionary)
	v.SetDefault("union", cfg.Union)
	v.SetDefault("per_line", cfg.PerLine)
	v.SetDefault("top_n", cfg.TopN)
	v.SetDefault("bottom_n", cfg.BottomN)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetEnvPrefix("SBQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	level := v.GetString("log.level")
	if v.GetBool("verbose") {
		level = "debug"
	}
	logger, err := logging.Setup(cmd.ErrOrStderr(), level, v.GetString("log.format"))
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "path", path)
	return nil
}

func (c *cli) settings() settings {
	v := c.v
	return settings{
		Inventories: v.GetStringSlice("inventories"),
		Input:       v.GetString("input"),
		Output:      v.GetString("output"),
		Format:      v.GetString("format"),
		Dictionary:  v.GetString("dictionary"),
		Union:       v.GetBool("union"),
		PerLine:     v.GetBool("per_line"),
		TopN:        v.GetInt("top_n"),
		BottomN:     v.GetInt("bottom_n"),
		Workers:     v.GetInt("workers"),
	}
}

// sources builds the readings and glosses a renderer annotates with.
func sources(s settings, withPinyin bool) (report.ReadingSource, report.GlossSource, error) {
	var readings report.ReadingSource
	if withPinyin {
		readings = pinyin.NewAnnotator()
	}
	if s.Dictionary == "" {
		return readings, nil, nil
	}
	dict := decomp.NewDictionary()
	if err := dict.LoadFromFile(s.Dictionary); err != nil {
		return nil, nil, err
	}
	return readings, dict, nil
}
