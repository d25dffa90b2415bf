package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nvandessel/voter/internal/store"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the SQLite run index",
		Long: `List, show and delete runs recorded with 'voter run --db' or store.enabled.

The index defaults to ~/.voter/runs.db; --db or store.path selects another.

Examples:
  voter runs list
  voter runs show 3f2c...
  voter runs show --samples 3f2c... > OrderParameter.dat`,
	}

	cmd.PersistentFlags().String("db", "", "Run index path (default ~/.voter/runs.db)")

	cmd.AddCommand(
		newRunsListCmd(),
		newRunsShowCmd(),
		newRunsDeleteCmd(),
	)

	return cmd
}

// openRunStore opens the index named by --db, store.path or the default.
func openRunStore(cmd *cobra.Command) (*store.SQLiteRunStore, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.Store.Path
	}
	path, err := store.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run index: %w", err)
	}
	return st, nil
}

func newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			st, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if runs == nil {
					runs = []store.Run{}
				}
				return json.NewEncoder(out).Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			return writeRunTable(out, runs)
		},
	}
}

func writeRunTable(w io.Writer, runs []store.Run) error {
	const row = "%-36s  %-19s  %-9s  %-13s  %-10s  %s\n"
	if _, err := fmt.Fprintf(w, row, "ID", "STARTED", "LATTICE", "SWEEPS", "MEAN", "STATUS"); err != nil {
		return err
	}
	for _, r := range runs {
		_, err := fmt.Fprintf(w, row,
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%dx%d", r.Params.Rows, r.Params.Cols),
			fmt.Sprintf("%d/%d", r.Summary.SweepsCompleted, r.Params.Sweeps),
			strconv.FormatFloat(r.Summary.Mean, 'g', 6, 64),
			runStatus(r))
		if err != nil {
			return err
		}
	}
	return nil
}

func runStatus(r store.Run) string {
	switch {
	case r.FinishedAt == nil:
		return "running"
	case r.Summary.Interrupted:
		return "interrupted"
	default:
		return "finished"
	}
}

func newRunsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			withSamples, _ := cmd.Flags().GetBool("samples")

			st, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if withSamples {
				series, err := st.LoadSamples(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				_, err = series.WriteTo(out)
				return err
			}
			if jsonOut {
				return json.NewEncoder(out).Encode(run)
			}

			fmt.Fprintf(out, "Run %s\n", run.ID)
			fmt.Fprintf(out, "  started:        %s\n", run.StartedAt.Local().Format(time.DateTime))
			if run.FinishedAt != nil {
				fmt.Fprintf(out, "  finished:       %s\n", run.FinishedAt.Local().Format(time.DateTime))
			}
			fmt.Fprintf(out, "  status:         %s\n", runStatus(run))
			fmt.Fprintf(out, "  lattice:        %dx%d\n", run.Params.Rows, run.Params.Cols)
			fmt.Fprintf(out, "  initial order:  %g\n", run.Params.InitialOrder)
			fmt.Fprintf(out, "  stubborn:       %d\n", run.Params.Stubborn)
			fmt.Fprintf(out, "  sweeps:         %d/%d\n", run.Summary.SweepsCompleted, run.Params.Sweeps)
			fmt.Fprintf(out, "  seed:           %d\n", run.Params.Seed)
			fmt.Fprintf(out, "  output:         %s\n", run.Params.OutputDir)
			fmt.Fprintf(out, "  final order:    %g\n", run.Summary.FinalOrder)
			fmt.Fprintf(out, "  mean order:     %g\n", run.Summary.Mean)
			if run.Summary.Error != nil {
				fmt.Fprintf(out, "  naive error:    %g\n", *run.Summary.Error)
			} else {
				fmt.Fprintf(out, "  naive error:    undefined\n")
			}
			return nil
		},
	}

	cmd.Flags().Bool("samples", false, "Print the stored series as \"<sweep> <value>\" lines")

	return cmd
}

func newRunsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run and its samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			st, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
					"status": "deleted",
					"id":     args[0],
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}
