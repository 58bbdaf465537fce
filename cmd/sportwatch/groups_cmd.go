package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/sportwatch/internal/registry"
	"github.com/Nomadcxx/sportwatch/internal/ui"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage the release-group registry",
		Long: `Commands for the persistent release-group registry.

Known groups are matched anywhere in a filename at high confidence;
unknown trailing-dash tokens are matched at lower confidence and, with
auto_add enabled, registered for the next run.

Examples:
  sportwatch groups list
  sportwatch groups add VANiLLA
  sportwatch groups remove BADGRP`,
	}

	cmd.AddCommand(newGroupsListCmd())
	cmd.AddCommand(newGroupsAddCmd())
	cmd.AddCommand(newGroupsRemoveCmd())

	return cmd
}

func newGroupsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered release groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := registry.Open()
			if err != nil {
				return err
			}
			defer groups.Close()

			names, err := groups.Names(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no release groups registered")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			fmt.Printf("\n%d groups\n", len(names))
			return nil
		},
	}
}

func newGroupsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>...",
		Short: "Register release groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := registry.Open()
			if err != nil {
				return err
			}
			defer groups.Close()

			if err := groups.AppendAll(cmd.Context(), args, registry.SourceManual); err != nil {
				return err
			}
			ui.SuccessMsg("registered %d group(s)", len(args))
			return nil
		},
	}
}

func newGroupsRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a release group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !ui.Confirm(fmt.Sprintf("remove group %q?", args[0])) {
				fmt.Println("aborted")
				return nil
			}

			groups, err := registry.Open()
			if err != nil {
				return err
			}
			defer groups.Close()

			if err := groups.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			ui.SuccessMsg("removed %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "remove without confirmation")
	return cmd
}
