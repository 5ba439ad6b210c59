package commands

import (
	"github.com/spf13/cobra"
)

func unmappedCmd(c *cli) *cobra.Command {
	var pageNum int
	cmd := &cobra.Command{
		Use:   "unmapped",
		Short: "List details flagged for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.session(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := page(ctx, s.Unmapped, pageNum); err != nil {
				return err
			}
			return renderUnmapped(cmd.OutOrStdout(), s.Unmapped.Snapshot(), s.Unmapped.MaxPage())
		},
	}
	cmd.Flags().IntVar(&pageNum, "page", 1, "page to show")
	return cmd
}

func payersCmd(c *cli) *cobra.Command {
	var pageNum int
	var grouped bool
	cmd := &cobra.Command{
		Use:   "payers",
		Short: "List canonical payers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.session(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := page(ctx, s.Payers, pageNum); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if grouped {
				return renderSections(out, s.Sections(), s.Payers.Snapshot(), s.Payers.MaxPage())
			}
			return renderPayers(out, s.Payers.Snapshot(), s.Payers.MaxPage(), s.Registry)
		},
	}
	cmd.Flags().IntVar(&pageNum, "page", 1, "page to show")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "bucket the page by group")
	return cmd
}

func groupsCmd(c *cli) *cobra.Command {
	var pageNum int
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Show the group forest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.session(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := page(ctx, s.Groups, pageNum); err != nil {
				return err
			}
			return renderGroups(cmd.OutOrStdout(), s.Groups.Snapshot(), s.Groups.MaxPage())
		},
	}
	cmd.Flags().IntVar(&pageNum, "page", 1, "page to show")
	return cmd
}
