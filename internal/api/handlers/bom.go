package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

// BOMMatchInput is the query of bom/match.
type BOMMatchInput struct {
	Lines string `query:"lines" required:"true" doc:"JSON list of line objects" example:"[{\"mpn\":\"SN74LS240N\",\"reference\":\"U1\"}]"`
	OptimizeParams
}

// MatchBOM handles bom/match.
func (h *CatalogHandler) MatchBOM(_ context.Context, in *BOMMatchInput) (*PayloadOutput, error) {
	lines, err := decodeList[fixtures.BOMLine]("lines", in.Lines)
	if err != nil {
		return nil, err
	}
	results := h.catalog.MatchBOM(lines)
	opt := in.optimize()
	for i := range results {
		for j, item := range results[i].Items {
			results[i].Items[j] = opt.Apply(item)
		}
	}
	return payload(map[string]any{"results": results}), nil
}

// RegisterBOMRoutes registers the BOM endpoint.
func RegisterBOMRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "bom-match",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/bom/match",
		Summary:     "Match BOM lines",
		Description: "Matches each line by mpn, sku, mpn_or_sku or free text. Lines page with start and limit, default 3 items.",
		Tags:        []string{"bom"},
		Errors:      []int{http.StatusBadRequest},
	}, h.MatchBOM)
}
