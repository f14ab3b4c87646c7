package repl

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// Terminal is a LineReader backed by liner, with history persisted to a file.
type Terminal struct {
	line        *liner.State
	historyFile string
}

// NewTerminal takes over the controlling terminal. historyFile may be empty,
// in which case history lives only for the session. A leading "~/" expands
// to the home directory.
func NewTerminal(historyFile string) *Terminal {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	t := &Terminal{line: line, historyFile: expandHome(historyFile)}
	if t.historyFile != "" {
		if f, err := os.Open(t.historyFile); err == nil {
			t.line.ReadHistory(f)
			f.Close()
		}
	}
	return t
}

// Prompt reads one line.
func (t *Terminal) Prompt(prompt string) (string, error) {
	return t.line.Prompt(prompt)
}

// AppendHistory records a line for arrow-key recall.
func (t *Terminal) AppendHistory(item string) {
	t.line.AppendHistory(item)
}

// Close saves history and restores the terminal.
func (t *Terminal) Close() error {
	if t.historyFile != "" {
		if f, err := os.OpenFile(t.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			t.line.WriteHistory(f)
			f.Close()
		}
	}
	return t.line.Close()
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
