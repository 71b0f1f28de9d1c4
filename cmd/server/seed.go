package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/slotboard/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	var (
		owner    string
		count    int
		seedFlag uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo projects with labeled slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New("--count must be at least 1")
			}
			a, err := newApp(nil)
			if err != nil {
				return err
			}
			defer a.close()

			svc, _, err := a.projectService(cmd.Context())
			if err != nil {
				return err
			}
			if owner == "" {
				owner = a.cfg.Auth.DefaultOwner
			}
			if !cmd.Flags().Changed("seed") {
				seedFlag = uint64(time.Now().UnixNano())
			}

			created, err := seed.NewSeeder(svc, seedFlag, a.logger).Seed(cmd.Context(), owner, count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d projects for %s\n", len(created), owner)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner of the demo projects (defaults to auth.default_owner)")
	cmd.Flags().IntVar(&count, "count", 5, "Number of projects to create")
	cmd.Flags().Uint64Var(&seedFlag, "seed", 0, "Random seed for reproducible data")
	return cmd
}
