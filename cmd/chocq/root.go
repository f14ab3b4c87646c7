package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/relux-works/choc-query/chocquery"
	"github.com/relux-works/choc-query/chocquery/cobraext"
	"github.com/relux-works/choc-query/config"
	"github.com/relux-works/choc-query/repl"
	"github.com/relux-works/choc-query/store"
)

// app carries flag values and the state derived from them.
type app struct {
	configPath string
	dbPath     string
	format     string
	verbose    bool

	cfg      *config.Config
	log      *slog.Logger
	stderr   io.Writer
	settings cobraext.Settings
}

func newRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:          "chocq",
		Short:        "Query chocolate-bar reviews",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a TOML config file")
	pf.StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	pf.StringVar(&a.format, "format", "", `Output format: "table", "compact" or "json"`)
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log generated SQL and rejected commands")

	cobraext.AddCommands(root, &a.settings)
	root.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Start the interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL(cmd)
		},
	})
	return root
}

// setup loads config, applies flag overrides and prepares the shared settings.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.Database.Path = a.dbPath
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = a.format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	color := cfg.Output.Color && term.IsTerminal(int(os.Stdout.Fd()))
	a.settings = cobraext.Settings{
		Open:   a.openStore,
		Mode:   cfg.OutputMode(),
		Format: chocquery.FormatOptions{TextWidth: cfg.Output.TextWidth},
		Chart: chocquery.ChartOptions{
			Width:     terminalWidth(),
			LabelSize: cfg.Output.TextWidth + 4,
			Color:     color,
		},
	}
	a.log.Debug("config loaded", "db", cfg.Database.Path, "format", cfg.Output.Format, "color", color)
	return nil
}

func (a *app) openStore(ctx context.Context) (chocquery.Executor, func() error, error) {
	path := a.cfg.Database.Path
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("database %s: %w", path, err)
	}
	s, err := store.Open(ctx, store.Config{Path: path}, store.WithLogger(a.log))
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

func (a *app) runREPL(cmd *cobra.Command) error {
	exec, closeFn, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	r := repl.New(exec, repl.NewTerminal(a.cfg.Prompt.HistoryFile), cmd.OutOrStdout(),
		repl.WithLogger(a.log),
		repl.WithPrompt(a.cfg.Prompt.Text),
		repl.WithHelpFile(a.cfg.Prompt.HelpFile),
		repl.WithOutput(a.settings.Mode, a.settings.Format),
		repl.WithChart(a.settings.Chart),
	)
	return r.Run(cmd.Context())
}

// terminalWidth returns the stdout width, or 80 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
