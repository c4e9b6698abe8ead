package main

import (
	"github.com/spf13/cobra"

	"github.com/sahilmate/multi-agent-form-processing-system/client"
)

func newAdminCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review and triage submissions",
	}
	cmd.AddCommand(loginCmds(opts, client.ScopeAdmin)...)

	api := func() *client.Admin { return client.NewAdmin(opts.newClient(client.ScopeAdmin)) }

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Dashboard statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				stats, err := api().DashboardStats(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			},
		},
		&cobra.Command{
			Use:   "departments",
			Short: "Per-department statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				stats, err := api().DepartmentStats(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Backend system health",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				health, err := api().SystemHealth(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), health)
			},
		},
		newAdminSubmissionsCmd(opts),
		newAdminSubmissionCmd(api),
	)
	return cmd
}

func newAdminSubmissionsCmd(opts *globalOptions) *cobra.Command {
	var (
		filters client.SubmissionFilters
		page    int
	)
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List submissions with filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient(client.ScopeAdmin)
			listing := client.NewListing(client.NewAdmin(c), stderrNotifier(cmd.ErrOrStderr()))
			if err := listing.SetFilters(cmd.Context(), filters); err != nil {
				return err
			}
			if page != 1 {
				if err := listing.GoToPage(cmd.Context(), page); err != nil {
					return err
				}
			}

			state := listing.State()
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"items":       state.Items,
				"page":        state.Page,
				"page_size":   state.PageSize,
				"total":       state.Total,
				"total_pages": state.TotalPages,
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&filters.Status, "status", "", "pending, processing, completed, rejected or all")
	f.StringVar(&filters.FormType, "form-type", "", "form type or all")
	f.StringVar(&filters.Department, "department", "", "department or all")
	f.StringVar(&filters.StartDate, "from", "", "start date (YYYY-MM-DD)")
	f.StringVar(&filters.EndDate, "to", "", "end date (YYYY-MM-DD)")
	f.IntVar(&page, "page", 1, "page number, starting at 1")
	return cmd
}

func newAdminSubmissionCmd(api func() *client.Admin) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submission",
		Short: "Inspect and update one submission",
	}

	var notes string
	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a submission's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return api().UpdateStatus(cmd.Context(), args[0], args[1], notes)
		},
	}
	status.Flags().StringVar(&notes, "notes", "", "note recorded with the status change")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a submission",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sub, err := api().Submission(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sub)
			},
		},
		status,
		&cobra.Command{
			Use:   "comments <id>",
			Short: "List comments on a submission",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				comments, err := api().Comments(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), comments)
			},
		},
		&cobra.Command{
			Use:   "comment <id> <text>",
			Short: "Add a comment",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return api().AddComment(cmd.Context(), args[0], args[1])
			},
		},
	)
	return cmd
}
