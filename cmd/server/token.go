package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/slotboard/internal/auth"
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var (
		owner string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			a, err := newApp(nil)
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not configured")
			}
			token, err := auth.NewJWTResolver(a.cfg.Auth.JWTSecret).IssueToken(owner, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner the token authenticates as")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
