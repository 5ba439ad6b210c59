package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/payerdesk/internal/taxonomy"
)

func mapCmd(c *cli) *cobra.Command {
	var pageNum int
	cmd := &cobra.Command{
		Use:   "map <detail_id> <payer_id>",
		Short: "Link an unmapped detail to a payer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			detailID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid detail id %q", args[0])
			}
			ctx := cmd.Context()
			s, err := c.session(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := page(ctx, s.Unmapped, pageNum); err != nil {
				return err
			}
			out := s.MapUnmappedToPayer(ctx, detailID, args[1])
			if err := report(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d unmapped remaining\n", s.Unmapped.Total())
			return nil
		},
	}
	cmd.Flags().IntVar(&pageNum, "page", 1, "unmapped page holding the detail")
	return cmd
}

func renameCmd(c *cli) *cobra.Command {
	var pageNum int
	cmd := &cobra.Command{
		Use:   "rename <payer_id> <pretty_name>",
		Short: "Set a payer's display name (empty clears it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.session(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := page(ctx, s.Payers, pageNum); err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), s.RenamePayer(ctx, args[0], args[1]))
		},
	}
	cmd.Flags().IntVar(&pageNum, "page", 1, "payers page holding the payer")
	return cmd
}

func assignCmd(c *cli) *cobra.Command {
	var unassign bool
	cmd := &cobra.Command{
		Use:   "assign <payer_id> [group_id]",
		Short: "Assign a payer to a group, or clear it with --unassign",
		Args: func(cmd *cobra.Command, args []string) error {
			if unassign {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := taxonomy.Unassigned()
			if !unassign {
				sel = taxonomy.ParseSelection(args[1])
			}
			ctx := cmd.Context()
			s, err := c.session(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), s.AssignGroup(ctx, args[0], sel))
		},
	}
	cmd.Flags().BoolVar(&unassign, "unassign", false, "remove the payer from its group")
	return cmd
}

func createGroupCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "create-group <payer_id> <text...>",
		Short: "Create a group from free text and assign the payer to it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			ctx := cmd.Context()
			s, err := c.session(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := s.CreateGroupAndAssign(ctx, args[0], text)
			if err := report(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			id := taxonomy.ToCanonicalID(text)
			fmt.Fprintf(cmd.OutOrStdout(), "group %s (%s)\n", id, taxonomy.ToDisplayLabel(s.Registry.Label(id)))
			return nil
		},
	}
}
