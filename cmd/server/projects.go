package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/spf13/cobra"
)

func newProjectsCommand() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List an owner's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			summaries, err := svc.List(cmd.Context(), owner)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No projects for %s\n", owner)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), projectTable(summaries))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner to list (defaults to auth.default_owner)")
	return cmd
}

func projectTable(summaries []project.ProjectSummary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		done := "no"
		if s.IsDone {
			done = "yes"
		}
		rows = append(rows, []string{
			s.ID,
			s.Title,
			s.Genre,
			string(s.Status),
			strconv.Itoa(s.NumberOfTracks),
			strconv.Itoa(s.DurationMinutes),
			done,
			s.UpdatedAt.Format(time.DateTime),
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Genre", "Status", "Tracks", "Minutes", "Done", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}
