package main

import (
	"os"

	"github.com/rpggio/slotboard/internal/config"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "slotboard",
		Short:         "Music project manager with layout slots and backups",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFlag != "" {
				return os.Setenv(config.EnvPrefix+"CONFIG_PATH", configFlag)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newWorkerCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newProjectsCommand())
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}
