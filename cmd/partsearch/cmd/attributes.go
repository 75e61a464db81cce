package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

func attributesCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "attributes",
		Aliases: []string{"attribute", "attrs"},
		Short:   "Describe searchable part attributes",
	}
	root.AddCommand(attributesGetCmd(), attributesGetMultiCmd())
	return root
}

func attributesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <fieldname>",
		Short:   "Show one part attribute",
		Example: `  partsearch attributes get capacitance`,
		Args:    cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			resp, err := s.client.GetPartAttribute(ctx, args[0])
			if err != nil {
				return err
			}
			if resp == nil {
				return errNotFound
			}
			return render(cmd, resp.Value, resp.Raw, func(w io.Writer, a domain.PartAttribute) error {
				return printAttributes(w, []domain.PartAttribute{a})
			})
		}),
	}
}

func attributesGetMultiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get-multi <fieldname>...",
		Short:   "Show several part attributes",
		Example: `  partsearch attributes get-multi capacitance,resistance case_package`,
		Args:    cobra.MinimumNArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			resp, err := s.client.GetPartAttributes(ctx, splitNames(args))
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printAttributes)
		}),
	}
}
