package main

import (
	"encoding/json"
	"os"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/seed"
	"github.com/spf13/cobra"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			// bootstrap already migrates
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			logger.Log.Info("schema is up to date")
			return nil
		},
	}
}

func seedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts, projects and a donation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return a.seeder().Run(cmd.Context())
		},
	}
}

func reconcileCmd(configPath *string) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare project totals with their donations and print any drift",
		Long: `Compare every project's current amount with the sum of its completed
donations. Mismatches are printed as JSON; nothing is repaired.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if workers <= 0 {
				workers = a.cfg.Reconcile.Workers
			}
			drifts, err := a.ledger.Reconcile(cmd.Context(), workers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(drifts)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel checks (default reconcile.workers)")
	return cmd
}

func (a *app) seeder() *seed.Seeder {
	return &seed.Seeder{
		DB:        a.db,
		Accounts:  a.accounts,
		Projects:  a.projects,
		Ledger:    a.ledger,
		AdminCode: a.cfg.Admin.RegistrationCode,
	}
}
