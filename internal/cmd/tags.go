package cmd

import (
	"github.com/spf13/cobra"
)

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Tag operations",
	}
	cmd.AddCommand(newTagsListCmd())
	cmd.AddCommand(newTagsViewCmd())
	return cmd
}

func newTagsListCmd() *cobra.Command {
	var p pageFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := p.validate(); err != nil {
				return err
			}
			tags := getClient().Tags()
			if p.All {
				all, err := tags.ListAll(cmd.Context(), p.Page)
				if err != nil {
					return err
				}
				return printJSON(cmd, collection("tags", all))
			}
			result, err := tags.List(cmd.Context(), p.Page)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		}),
	}
	addPageFlags(cmd, &p, "Fetch every page")
	return cmd
}

func newTagsViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "view <id>",
		Aliases: []string{"get", "show"},
		Short:   "View a tag",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "tag")
			if err != nil {
				return err
			}
			tag, err := getClient().Tags().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, tag)
		}),
	}
}
