package octopart

import (
	"context"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// MatchBOM matches BOM lines against the part catalog. Each line is a
// mapping of q, mpn, manufacturer, sku, supplier, mpn_or_sku, reference,
// start and limit; start+limit may not exceed 100. Results are returned in
// line order.
func (c *Client) MatchBOM(ctx context.Context, lines []Args, args Args) (*Response[[]domain.BOMResult], error) {
	if lines == nil {
		lines = []Args{}
	}
	raw, err := c.call(ctx, bomMatch, []Arg{{Key: "lines", Value: lines}}, args)
	if err != nil {
		return nil, err
	}
	return mapArray(pathBOMMatch, raw, "results", bomResultFromJSON)
}
