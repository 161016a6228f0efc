package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HugoDaniel/vlqmap/internal/config"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	verbose    bool
	quiet      bool
	configFile string
	noConfig   bool
	colorMode  string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rootCmd := &cobra.Command{
		Use:   "vlqmap",
		Short: "vlqmap - source map mappings decoder",
		Long: `vlqmap decodes the Base64 VLQ "mappings" field of Source Map v3 files.

It prints, counts, checks, benchmarks and stores the decoded mappings. Input is
either a source map JSON document or a raw mappings string, read from a file or
from stdin.

Config file:
  Searches for vlqmap.yaml, .vlqmaprc or .vlqmaprc.json in the current and
  parent directories. CLI flags override config file settings.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Use specific config `file`")
	rootCmd.PersistentFlags().BoolVar(&a.noConfig, "no-config", false, "Ignore config files")
	rootCmd.PersistentFlags().StringVar(&a.colorMode, "color", "auto", "Color output: auto, always, never")

	// Add subcommands
	rootCmd.AddCommand(a.newDecodeCmd())
	rootCmd.AddCommand(a.newCountCmd())
	rootCmd.AddCommand(a.newCheckCmd())
	rootCmd.AddCommand(a.newLookupCmd())
	rootCmd.AddCommand(a.newBenchCmd())
	rootCmd.AddCommand(a.newStoreCmd())
	rootCmd.AddCommand(a.newEncodeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	switch {
	case a.quiet:
		level = slog.LevelError
	case a.verbose:
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	return applyColor(a.options(cmd).Color, cmd.OutOrStdout())
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.noConfig {
		return nil, nil
	}

	if a.configFile != "" {
		cfg, err := config.LoadFile(a.configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		a.log.Debug("loaded config", "path", a.configFile)
		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, path, err := config.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg != nil {
		a.log.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// options resolves the settings for cmd: flags set on the command line win
// over the config file, which wins over defaults.
func (a *app) options(cmd *cobra.Command) config.Options {
	return a.cfg.Merge(config.MergeOptions{
		Format:      changedString(cmd, "format"),
		Color:       changedString(cmd, "color"),
		Iterations:  changedInt(cmd, "iterations"),
		Sink:        changedString(cmd, "sink"),
		ExpectLines: changedInt(cmd, "expect-lines"),
	})
}

func changedString(cmd *cobra.Command, name string) *string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v := f.Value.String()
	return &v
}

func changedInt(cmd *cobra.Command, name string) *int {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

// applyColor sets the global color mode. In auto mode colors are used only
// when out is a terminal and NO_COLOR is unset.
func applyColor(mode string, out io.Writer) error {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "auto", "":
		f, ok := out.(*os.File)
		color.NoColor = !ok || !term.IsTerminal(int(f.Fd())) || os.Getenv("NO_COLOR") != ""
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
	}
	return nil
}

func colorEnabled() bool {
	return !color.NoColor
}
