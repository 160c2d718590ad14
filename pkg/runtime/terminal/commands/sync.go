package commands

import (
	"fmt"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/de-tools/relief-atlas/pkg/services/workflow"
	reportstore "github.com/de-tools/relief-atlas/pkg/store/duckdb/reports"
	"github.com/de-tools/relief-atlas/pkg/store/duckdb/syncstate"
	"github.com/spf13/cobra"
)

func NewSyncCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy every report of the profile into the local snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			if env.Offline {
				return fmt.Errorf("sync reads from the source, drop --offline")
			}
			source, err := env.source(ctx)
			if err != nil {
				return err
			}

			db, err := env.openSnapshot()
			if err != nil {
				return err
			}
			defer db.Close()

			reports, err := reportstore.NewStore(db)
			if err != nil {
				return err
			}
			states, err := syncstate.NewStore(db)
			if err != nil {
				return err
			}

			runner := workflow.NewRunner(env.profile(), source, db, reports, states, nil)
			state, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			printSyncState(cmd, state, env.Settings.DbPath)
			return nil
		},
	}
}

func printSyncState(cmd *cobra.Command, state *store.SyncState, path string) {
	cmd.Printf("Synced %d reports from %s into %s at %s\n",
		state.ReportsCount, state.Source, path, state.SyncedAt.Format("2006-01-02 15:04:05 MST"))
}

func NewStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status <report-id> <status>",
		Short: "Set the status of a report (Received, Acknowledged or Actioned)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()

			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}

			svc, release, err := env.Reports(ctx)
			if err != nil {
				return err
			}
			defer release()

			if err := svc.UpdateStatus(ctx, args[0], status); err != nil {
				return fmt.Errorf("failed to update report %s: %w", args[0], err)
			}
			cmd.Printf("Report %s is now %s\n", args[0], status)
			return nil
		},
	}
}
