package main

import (
	"errors"

	"github.com/rpggio/slotboard/internal/backup"
	"github.com/spf13/cobra"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume backup tasks from Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(nil)
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Queue.Driver != "redis" {
				return errors.New("worker requires queue.driver redis; the memory queue is served by 'serve --worker'")
			}

			svc, q, err := a.projectService(cmd.Context())
			if err != nil {
				return err
			}
			return backup.NewWorker(q, svc, a.cfg.Queue.Delay, a.logger).Run(cmd.Context())
		},
	}
}
