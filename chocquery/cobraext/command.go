// Package cobraext provides Cobra command factories for chocquery.
// It isolates the github.com/spf13/cobra dependency so that users who don't
// need CLI integration never import it.
package cobraext

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relux-works/choc-query/chocquery"
	"github.com/spf13/cobra"
)

// OpenFunc opens an executor for one command invocation. The returned close
// function is called when the command finishes.
type OpenFunc func(ctx context.Context) (chocquery.Executor, func() error, error)

// Settings is shared by the commands built here. The caller may fill it in a
// PersistentPreRunE hook, after flags and config are known.
type Settings struct {
	Open   OpenFunc
	Mode   chocquery.OutputMode
	Format chocquery.FormatOptions
	Chart  chocquery.ChartOptions
}

// commandInput rebuilds the command string from positional args. Quoting the
// whole command keeps its exact spacing.
func commandInput(args []string) string {
	return strings.Join(args, " ")
}

// QueryCommand creates a "q" subcommand that runs one chocolate-bar command
// and prints its rows, or a chart when the command ends in barplot.
func QueryCommand(s *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "q <command...>",
		Short: "Run one query command",
		Example: `  chocq q bars country=BR source ratings bottom 8
  chocq q "companies region=Europe number_of_bars 12"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := commandInput(args)

			// Reject malformed commands before touching the database.
			if _, _, err := chocquery.Compile(input); err != nil {
				return err
			}
			if s.Open == nil {
				return fmt.Errorf("no database configured")
			}
			exec, closeFn, err := s.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := chocquery.Run(cmd.Context(), exec, input)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Intent.Plot && s.Mode == chocquery.Table {
				_, err = fmt.Fprint(out, chocquery.RenderChart(res.Rows, res.Descriptor, s.Chart))
				return err
			}
			data, err := chocquery.FormatRows(res.Rows, res.Descriptor, s.Mode, s.Format)
			if err != nil {
				return err
			}
			if s.Mode == chocquery.JSON {
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}

// sqlView is the JSON shape printed by the sql command.
type sqlView struct {
	Intent string `json:"intent"`
	SQL    string `json:"sql"`
	Args   []any  `json:"args"`
}

// SQLCommand creates a "sql" subcommand that prints the statement a command
// compiles to, without executing it.
func SQLCommand(s *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "sql <command...>",
		Short: "Show the SQL a command compiles to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, d, err := chocquery.Compile(commandInput(args))
			if err != nil {
				return err
			}
			query, qargs := d.SQL()
			if qargs == nil {
				qargs = []any{}
			}

			out := cmd.OutOrStdout()
			if s.Mode == chocquery.JSON {
				data, err := json.Marshal(sqlView{Intent: intent.String(), SQL: query, Args: qargs})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			fmt.Fprintf(out, "-- %s\n", intent)
			fmt.Fprintln(out, query)
			if len(qargs) > 0 {
				fmt.Fprintf(out, "-- args: %v\n", qargs)
			}
			return nil
		},
	}
}

// vocabView is the JSON shape printed by the vocab command.
type vocabView struct {
	Slots []chocquery.SlotInfo `json:"slots"`
	Verbs map[string][]string  `json:"originScopes"`
}

// VocabCommand creates a "vocab" subcommand listing every accepted token.
func VocabCommand(s *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "List the command vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			slots := chocquery.Vocabulary()

			if s.Mode == chocquery.JSON {
				data, err := json.Marshal(vocabView{Slots: slots, Verbs: chocquery.VerbRules()})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			for _, si := range slots {
				accepts := si.Pattern
				if len(si.Words) > 0 {
					accepts = strings.Join(si.Words, " | ")
				}
				line := fmt.Sprintf("%-10s %s", si.Slot, accepts)
				if si.Default != "" {
					line += fmt.Sprintf(" [default: %s]", si.Default)
				}
				if si.Constraint != "" {
					line += " (" + si.Constraint + ")"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

// AddCommands adds the "q", "sql" and "vocab" commands as subcommands of parent.
func AddCommands(parent *cobra.Command, s *Settings) {
	parent.AddCommand(QueryCommand(s))
	parent.AddCommand(SQLCommand(s))
	parent.AddCommand(VocabCommand(s))
}
