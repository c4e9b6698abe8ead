package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sahilmate/multi-agent-form-processing-system/client"
)

// loginCmds builds login, logout and whoami for scope.
func loginCmds(opts *globalOptions, scope client.Scope) []*cobra.Command {
	var password string

	login := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and save the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = envOr("FORMCTL_PASSWORD", "")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			auth := client.NewAuth(opts.newClient(scope), stderrNotifier(cmd.ErrOrStderr()))
			if !auth.Login(cmd.Context(), args[0], password) {
				return errors.New(auth.Error())
			}
			return nil
		},
	}
	login.Flags().StringVarP(&password, "password", "p", "", "password (default: $FORMCTL_PASSWORD or prompt)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client.NewAuth(opts.newClient(scope), nil).Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := client.NewAuth(opts.newClient(scope), nil)
			auth.Init(cmd.Context())
			if auth.State() != client.StateAuthenticated {
				if msg := auth.Error(); msg != "" {
					return errors.New(msg)
				}
				return client.ErrSessionExpired
			}
			return printJSON(cmd.OutOrStdout(), auth.User())
		},
	}

	return []*cobra.Command{login, logout, whoami}
}
