// Package repl runs the interactive chocolate-bar query prompt.
package repl

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/relux-works/choc-query/chocquery"
)

//go:embed help.txt
var builtinHelp string

// DefaultPrompt is shown before each command.
const DefaultPrompt = "Enter a command: "

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// LineReader supplies input lines. *Terminal implements it over liner;
// tests script it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// Option configures a REPL.
type Option func(*REPL)

// WithLogger sets the logger for rejected commands and executor failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *REPL) {
		if l != nil {
			r.log = l
		}
	}
}

// WithPrompt replaces DefaultPrompt.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		if p != "" {
			r.prompt = p
		}
	}
}

// WithHelpFile loads help text from path. A missing or unreadable file keeps
// the built-in text.
func WithHelpFile(path string) Option {
	return func(r *REPL) { r.helpFile = path }
}

// WithOutput selects the row format for non-chart results.
func WithOutput(mode chocquery.OutputMode, opts chocquery.FormatOptions) Option {
	return func(r *REPL) {
		r.mode = mode
		r.format = opts
	}
}

// WithChart sets chart dimensions and coloring. Color also styles errors.
func WithChart(opts chocquery.ChartOptions) Option {
	return func(r *REPL) { r.chart = opts }
}

// REPL reads commands, runs them and prints results until exit or EOF.
type REPL struct {
	exec     chocquery.Executor
	in       LineReader
	out      io.Writer
	log      *slog.Logger
	prompt   string
	helpFile string
	help     string
	mode     chocquery.OutputMode
	format   chocquery.FormatOptions
	chart    chocquery.ChartOptions
}

// New builds a REPL. in is owned by the REPL and closed when Run returns.
func New(exec chocquery.Executor, in LineReader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		exec:   exec,
		in:     in,
		out:    out,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		prompt: DefaultPrompt,
		mode:   chocquery.Table,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.help = loadHelp(r.helpFile, r.log)
	return r
}

func loadHelp(path string, log *slog.Logger) string {
	if path == "" {
		return builtinHelp
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("help file unavailable, using built-in text", "path", path, "err", err)
		return builtinHelp
	}
	return string(data)
}

// Run loops until the user types exit, input ends, or ctx is cancelled.
// Command errors are printed and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	defer r.in.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.in.Prompt(r.prompt)
		if err != nil {
			// Ctrl+C, Ctrl+D and closed input all end the session.
			fmt.Fprintln(r.out)
			break
		}
		if strings.TrimSpace(line) != "" {
			r.in.AppendHistory(line)
		}
		if !r.Handle(ctx, line) {
			break
		}
	}

	fmt.Fprintln(r.out, "\nBye!")
	return nil
}

// Handle processes one input line and reports whether the loop should go on.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	switch strings.TrimSpace(line) {
	case "exit":
		return false
	case "":
		return true
	case "help":
		fmt.Fprintln(r.out, r.help)
		return true
	}

	res, err := chocquery.Run(ctx, r.exec, line)
	if err != nil {
		r.report(line, err)
		return true
	}

	if res.Intent.Plot {
		fmt.Fprint(r.out, chocquery.RenderChart(res.Rows, res.Descriptor, r.chart))
		return true
	}

	data, err := chocquery.FormatRows(res.Rows, res.Descriptor, r.mode, r.format)
	if err != nil {
		r.report(line, err)
		return true
	}
	r.out.Write(data)
	if r.mode == chocquery.Table {
		fmt.Fprintln(r.out)
	}
	return true
}

func (r *REPL) report(line string, err error) {
	var qerr *chocquery.Error
	msg := err.Error()
	if errors.As(err, &qerr) {
		r.log.Debug("command rejected", "input", line, "code", qerr.Code, "details", qerr.Details)
		msg = qerr.Message
	} else {
		r.log.Warn("command failed", "input", line, "err", err)
	}
	if r.chart.Color {
		msg = errorStyle.Render(msg)
	}
	fmt.Fprintln(r.out, msg)
	fmt.Fprintln(r.out)
}
