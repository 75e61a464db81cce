package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

// PartGetInput is the query of parts/get.
type PartGetInput struct {
	UID int64 `query:"uid" required:"true" doc:"Part uid" example:"39619421"`
	OptimizeParams
}

// PartGetMultiInput is the query of parts/get_multi.
type PartGetMultiInput struct {
	UIDs string `query:"uids" required:"true" doc:"JSON list of part uids" example:"[39619421,29035751]"`
	OptimizeParams
}

// PartSearchInput is the query of parts/search.
type PartSearchInput struct {
	Q                  string `query:"q" doc:"Free-text query" example:"SN74LS240N"`
	Start              int    `query:"start" minimum:"0" maximum:"1000" doc:"Result offset"`
	Limit              int    `query:"limit" minimum:"0" maximum:"100" default:"10" doc:"Maximum results to return"`
	DrilldownInclude   bool   `query:"drilldown.include" doc:"Include facet drilldowns"`
	DrilldownFieldName string `query:"drilldown.fieldname" doc:"Restrict drilldowns to one attribute"`
	OptimizeParams
}

// PartSuggestInput is the query of parts/suggest.
type PartSuggestInput struct {
	Q     string `query:"q" required:"true" minLength:"2" doc:"Query prefix" example:"sn74"`
	Limit int    `query:"limit" minimum:"0" maximum:"10" default:"5" doc:"Maximum suggestions"`
}

// PartMatchInput is the query of parts/match.
type PartMatchInput struct {
	Manufacturer string `query:"manufacturer_name" required:"true" doc:"Manufacturer display name" example:"Texas Instruments"`
	MPN          string `query:"mpn" required:"true" doc:"Manufacturer part number" example:"SN74LS240N"`
}

// GetPart handles parts/get.
func (h *CatalogHandler) GetPart(_ context.Context, in *PartGetInput) (*PayloadOutput, error) {
	p, ok := h.catalog.Part(in.UID)
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("part %d not found", in.UID))
	}
	return payload(in.optimize().Apply(p)), nil
}

// GetParts handles parts/get_multi.
func (h *CatalogHandler) GetParts(_ context.Context, in *PartGetMultiInput) (*PayloadOutput, error) {
	uids, err := decodeList[int64]("uids", in.UIDs)
	if err != nil {
		return nil, err
	}
	opt := in.optimize()
	out := make([]fixtures.Object, 0, len(uids))
	for _, uid := range uids {
		p, ok := h.catalog.Part(uid)
		if !ok {
			return nil, huma.Error404NotFound(fmt.Sprintf("part %d not found", uid))
		}
		out = append(out, opt.Apply(p))
	}
	return payload(out), nil
}

// SearchParts handles parts/search.
func (h *CatalogHandler) SearchParts(_ context.Context, in *PartSearchInput) (*PayloadOutput, error) {
	hits := h.catalog.SearchParts(in.Q)
	page := SearchPage{Hits: len(hits)}
	if in.DrilldownInclude {
		page.Drilldown = h.catalog.Drilldown(hits, in.DrilldownFieldName)
	}

	opt := in.optimize()
	for _, hit := range fixtures.Page(hits, in.Start, in.Limit, 10) {
		page.Results = append(page.Results, fixtures.Hit{Item: opt.Apply(hit.Item), Highlight: hit.Highlight})
	}
	if page.Results == nil {
		page.Results = []fixtures.Hit{}
	}
	return payload(page), nil
}

// SuggestParts handles parts/suggest.
func (h *CatalogHandler) SuggestParts(_ context.Context, in *PartSuggestInput) (*PayloadOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 5
	}
	return payload(map[string]any{"results": h.catalog.SuggestParts(in.Q, limit)}), nil
}

// MatchParts handles parts/match.
func (h *CatalogHandler) MatchParts(_ context.Context, in *PartMatchInput) (*PayloadOutput, error) {
	return payload(h.catalog.MatchParts(in.Manufacturer, in.MPN)), nil
}

// RegisterPartRoutes registers the part endpoints.
func RegisterPartRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "parts-get",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/parts/get",
		Summary:     "Fetch a part",
		Description: "Returns one part. optimize.hide_* arguments strip sections from the response.",
		Tags:        []string{"parts"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetPart)

	huma.Register(api, huma.Operation{
		OperationID: "parts-get-multi",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/parts/get_multi",
		Summary:     "Fetch several parts",
		Tags:        []string{"parts"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.GetParts)

	huma.Register(api, huma.Operation{
		OperationID: "parts-search",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/parts/search",
		Summary:     "Search parts",
		Tags:        []string{"parts"},
	}, h.SearchParts)

	huma.Register(api, huma.Operation{
		OperationID: "parts-suggest",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/parts/suggest",
		Summary:     "Suggest part numbers",
		Tags:        []string{"parts"},
	}, h.SuggestParts)

	huma.Register(api, huma.Operation{
		OperationID: "parts-match",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/parts/match",
		Summary:     "Match a manufacturer part number",
		Tags:        []string{"parts"},
	}, h.MatchParts)
}
