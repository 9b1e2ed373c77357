package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/AntoineGS/dynform/internal/config"
	"github.com/AntoineGS/dynform/internal/form"
	"github.com/AntoineGS/dynform/internal/history"
	"github.com/AntoineGS/dynform/internal/render"
	"github.com/spf13/cobra"
)

var errHistoryDisabled = errors.New("history is disabled; set history.path in the configuration")

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(store *history.Store) error {
				subs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printHistory(cmd.OutOrStdout(), subs)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of submissions to list")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one journaled submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *history.Store) error {
				sub, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if sub == nil {
					return fmt.Errorf("submission %s: %w", args[0], history.ErrNotFound)
				}
				return render.Report(cmd.OutOrStdout(), form.View{Submitted: sub.Rows})
			})
		},
	}

	var keep int
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(store *history.Store) error {
				before, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				if err := store.Prune(cmd.Context(), keep); err != nil {
					return err
				}
				after, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d submission(s), %d kept\n", before-after, after)
				return nil
			})
		},
	}
	pruneCmd.Flags().IntVarP(&keep, "keep", "k", config.DefaultHistoryKeep, "Number of submissions to keep")

	cmd.AddCommand(showCmd, pruneCmd)

	return cmd
}

// withStore opens the configured journal for the duration of fn.
func withStore(fn func(*history.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return errHistoryDisabled
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer closeStore(store)

	return fn(store)
}

func printHistory(w io.Writer, subs []history.Submission) error {
	if len(subs) == 0 {
		_, err := fmt.Fprintln(w, "No submissions recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBMITTED\tFIELDS\tHOST")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			s.UUID,
			s.SubmittedAt.Local().Format(time.DateTime),
			len(s.Rows),
			s.Host,
		)
	}
	return tw.Flush()
}
