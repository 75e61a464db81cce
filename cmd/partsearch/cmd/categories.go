package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/partsearch/pkg/octopart"
)

func categoriesCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Browse the part category tree",
	}
	root.AddCommand(categoriesGetCmd(), categoriesGetMultiCmd(), categoriesSearchCmd())
	return root
}

func categoriesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Example: `  partsearch categories get 4174
  partsearch categories get 4174 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			resp, err := s.client.GetCategory(ctx, id)
			if err != nil {
				return err
			}
			if resp == nil {
				return errNotFound
			}
			return render(cmd, resp.Value, resp.Raw, printCategoryDetail)
		}),
	}
}

func categoriesGetMultiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get-multi <id>...",
		Short:   "Show several categories",
		Example: `  partsearch categories get-multi 4174 4175,4780`,
		Args:    cobra.MinimumNArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			resp, err := s.client.GetCategories(ctx, ids)
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printCategoriesTable)
		}),
	}
}

func categoriesSearchCmd() *cobra.Command {
	var (
		start, limit int
		ancestorID   int64
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search categories by name",
		Example: `  partsearch categories search resistor
  partsearch categories search --ancestor-id 4174 --limit 20`,
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			q := octopart.Args{"q": strings.Join(args, " ")}
			setIfChanged(cmd, q, "start", "start", start)
			setIfChanged(cmd, q, "limit", "limit", limit)
			setIfChanged(cmd, q, "ancestor-id", "ancestor_id", ancestorID)
			resp, err := s.client.SearchCategories(ctx, q)
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printCategoryHits)
		}),
	}
	cmd.Flags().IntVar(&start, "start", 0, "result offset (0-1000)")
	cmd.Flags().IntVar(&limit, "limit", 10, "results per page (0-100)")
	cmd.Flags().Int64Var(&ancestorID, "ancestor-id", 0, "only categories below this one")
	return cmd
}
