package main

import (
	"fmt"

	"github.com/aman-churiwal/root-panel/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func loginCmd(v *viper.Viper) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as root and print the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(v.GetString("url"))
			token, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return describeErr(err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "root email")
	cmd.Flags().StringVar(&password, "password", "", "root password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
