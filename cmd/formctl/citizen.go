package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sahilmate/multi-agent-form-processing-system/client"
	"github.com/sahilmate/multi-agent-form-processing-system/model"
)

func newCitizenCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citizen",
		Short: "File forms and follow their progress",
	}
	cmd.AddCommand(loginCmds(opts, client.ScopeCitizen)...)

	api := func() *client.Citizen { return client.NewCitizen(opts.newClient(client.ScopeCitizen)) }

	cmd.AddCommand(
		newRegisterCmd(api),
		&cobra.Command{
			Use:   "profile",
			Short: "Show your profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := api().Profile(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), user)
			},
		},
		&cobra.Command{
			Use:   "submissions",
			Short: "List your submissions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				subs, err := api().Submissions(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), subs)
			},
		},
		&cobra.Command{
			Use:   "submission <id>",
			Short: "Show one of your submissions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sub, err := api().Submission(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sub)
			},
		},
		&cobra.Command{
			Use:   "comment <id> <text>",
			Short: "Comment on one of your submissions",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return api().AddComment(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "submit-file <path>",
			Short: "Upload a scanned form (PNG, JPEG or PDF)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				upload, err := client.LoadUpload(args[0])
				if err != nil {
					return err
				}
				result, err := api().SubmitFile(cmd.Context(), upload)
				if err != nil {
					return err
				}
				return printSubmitted(cmd, result)
			},
		},
		&cobra.Command{
			Use:   "submit-text <text>",
			Short: "Describe your request in plain text",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := api().SubmitText(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printSubmitted(cmd, result)
			},
		},
		&cobra.Command{
			Use:   "notifications",
			Short: "List your notifications",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				notes, err := api().Notifications(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), notes)
			},
		},
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark a notification as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return api().MarkNotificationRead(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

func newRegisterCmd(api func() *client.Citizen) *cobra.Command {
	var (
		reg     client.Registration
		confirm string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a citizen account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm == "" {
				confirm = reg.Password
			}
			if err := api().Register(cmd.Context(), reg, confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. You can now log in.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.Username, "username", "", "login name (required)")
	f.StringVar(&reg.Password, "password", "", "password (required)")
	f.StringVar(&confirm, "confirm-password", "", "repeat the password (default: same as --password)")
	f.StringVar(&reg.FullName, "full-name", "", "full name (required)")
	f.StringVar(&reg.Email, "email", "", "email address (required)")
	f.StringVar(&reg.Phone, "phone", "", "phone number")
	f.StringVar(&reg.Address, "address", "", "postal address")
	f.StringVar(&reg.IDNumber, "id-number", "", "national ID number")
	return cmd
}

// printSubmitted prints the result and the page the portal would open next.
func printSubmitted(cmd *cobra.Command, result *model.SubmitResult) error {
	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Next:", client.Destination(result))
	return nil
}
