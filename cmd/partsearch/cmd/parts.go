package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/partsearch/pkg/octopart"
)

func partsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "parts",
		Aliases: []string{"part"},
		Short:   "Look up, search and match parts",
	}
	root.AddCommand(
		partsGetCmd(),
		partsGetMultiCmd(),
		partsSearchCmd(),
		partsSuggestCmd(),
		partsMatchCmd(),
	)
	return root
}

func partsGetCmd() *cobra.Command {
	var hide []string
	cmd := &cobra.Command{
		Use:   "get <uid>",
		Short: "Show one part with its offers and specs",
		Example: `  partsearch parts get 39619421
  partsearch parts get 39619421 --hide images,datasheets`,
		Args: cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			uid, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			opts := octopart.Args{}
			if err := applyHide(opts, hide); err != nil {
				return err
			}
			resp, err := s.client.GetPart(ctx, uid, opts)
			if err != nil {
				return err
			}
			if resp == nil {
				return errNotFound
			}
			return render(cmd, resp.Value, resp.Raw, printPartDetail)
		}),
	}
	addHideFlag(cmd, &hide)
	return cmd
}

func partsGetMultiCmd() *cobra.Command {
	var hide []string
	cmd := &cobra.Command{
		Use:     "get-multi <uid>...",
		Short:   "Show several parts",
		Example: `  partsearch parts get-multi 39619421,29035751`,
		Args:    cobra.MinimumNArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			uids, err := parseIDs(args)
			if err != nil {
				return err
			}
			opts := octopart.Args{}
			if err := applyHide(opts, hide); err != nil {
				return err
			}
			resp, err := s.client.GetParts(ctx, uids, opts)
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printPartsTable)
		}),
	}
	addHideFlag(cmd, &hide)
	return cmd
}

func partsSearchCmd() *cobra.Command {
	var (
		start, limit    int
		filters, ranged string
		sortBy, hide    []string
		drilldown       bool
		drilldownField  string
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search parts",
		Long: "Search parts by free text. --filters and --ranged-filters take the\n" +
			"API's JSON forms, e.g. '[[\"category_ids\",[4174]]]' and\n" +
			"'[[\"specs.resistance.value\",[[1000,null]]]]'.",
		Example: `  partsearch parts search 0603 --drilldown
  partsearch parts search resistor --sort avg_price:asc --limit 20
  partsearch parts search --filters '[["category_ids",[4174]]]'`,
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			q := octopart.Args{"q": strings.Join(args, " ")}
			setIfChanged(cmd, q, "start", "start", start)
			setIfChanged(cmd, q, "limit", "limit", limit)
			if filters != "" {
				v, err := decodeJSONArg("filters", filters)
				if err != nil {
					return err
				}
				q["filters"] = v
			}
			if ranged != "" {
				v, err := decodeJSONArg("ranged-filters", ranged)
				if err != nil {
					return err
				}
				q["rangedfilters"] = v
			}
			if len(sortBy) > 0 {
				v, err := parseSort(sortBy)
				if err != nil {
					return err
				}
				q["sortby"] = v
			}
			if drilldown {
				q["drilldown_include"] = true
			}
			if drilldownField != "" {
				q["drilldown_fieldname"] = drilldownField
			}
			if err := applyHide(q, hide); err != nil {
				return err
			}
			resp, err := s.client.SearchParts(ctx, q)
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printPartSearch)
		}),
	}
	f := cmd.Flags()
	f.IntVar(&start, "start", 0, "result offset (0-1000)")
	f.IntVar(&limit, "limit", 10, "results per page (0-100)")
	f.StringVar(&filters, "filters", "", "exact filters as JSON")
	f.StringVar(&ranged, "ranged-filters", "", "range filters as JSON")
	f.StringSliceVar(&sortBy, "sort", nil, "sort field:order (asc, desc)")
	f.BoolVar(&drilldown, "drilldown", false, "include drilldown facets")
	f.StringVar(&drilldownField, "drilldown-field", "", "limit drilldown to one attribute")
	addHideFlag(cmd, &hide)
	return cmd
}

func partsSuggestCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "suggest <prefix>",
		Short:   "Complete a part number prefix",
		Example: `  partsearch parts suggest sn74 --limit 10`,
		Args:    cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			opts := octopart.Args{}
			setIfChanged(cmd, opts, "limit", "limit", limit)
			resp, err := s.client.SuggestParts(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printLines)
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "number of suggestions (0-10)")
	return cmd
}

func partsMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "match <manufacturer> <mpn>",
		Short:   "Find part uids for a manufacturer part number",
		Example: `  partsearch parts match "Texas Instruments" SN74LS240N`,
		Args:    cobra.ExactArgs(2),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			resp, err := s.client.MatchParts(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printMatches)
		}),
	}
}
