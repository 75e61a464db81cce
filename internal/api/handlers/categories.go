package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

// CategoryGetInput is the query of categories/get.
type CategoryGetInput struct {
	ID int64 `query:"id" required:"true" doc:"Category id" example:"4174"`
}

// CategoryGetMultiInput is the query of categories/get_multi.
type CategoryGetMultiInput struct {
	IDs string `query:"ids" required:"true" doc:"JSON list of category ids" example:"[4215,4174,4780]"`
}

// CategorySearchInput is the query of categories/search.
type CategorySearchInput struct {
	Q          string `query:"q" doc:"Free-text query" example:"resistor"`
	Start      int    `query:"start" minimum:"0" maximum:"1000" doc:"Result offset"`
	Limit      int    `query:"limit" minimum:"0" maximum:"100" default:"10" doc:"Maximum results to return"`
	AncestorID int64  `query:"ancestor_id" doc:"Restrict to descendants of this category"`
}

// GetCategory handles categories/get.
func (h *CatalogHandler) GetCategory(_ context.Context, in *CategoryGetInput) (*PayloadOutput, error) {
	cat, ok := h.catalog.Category(in.ID)
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("category %d not found", in.ID))
	}
	return payload(cat), nil
}

// GetCategories handles categories/get_multi. Any unknown id fails the
// whole request.
func (h *CatalogHandler) GetCategories(_ context.Context, in *CategoryGetMultiInput) (*PayloadOutput, error) {
	ids, err := decodeList[int64]("ids", in.IDs)
	if err != nil {
		return nil, err
	}
	out := make([]fixtures.Object, 0, len(ids))
	for _, id := range ids {
		cat, ok := h.catalog.Category(id)
		if !ok {
			return nil, huma.Error404NotFound(fmt.Sprintf("category %d not found", id))
		}
		out = append(out, cat)
	}
	return payload(out), nil
}

// SearchCategories handles categories/search.
func (h *CatalogHandler) SearchCategories(_ context.Context, in *CategorySearchInput) (*PayloadOutput, error) {
	hits := h.catalog.SearchCategories(in.Q, in.AncestorID)
	return payload(SearchPage{
		Results: fixtures.Page(hits, in.Start, in.Limit, 10),
		Hits:    len(hits),
	}), nil
}

// RegisterCategoryRoutes registers the category endpoints.
func RegisterCategoryRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "categories-get",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/categories/get",
		Summary:     "Fetch a category",
		Tags:        []string{"categories"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetCategory)

	huma.Register(api, huma.Operation{
		OperationID: "categories-get-multi",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/categories/get_multi",
		Summary:     "Fetch several categories",
		Tags:        []string{"categories"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.GetCategories)

	huma.Register(api, huma.Operation{
		OperationID: "categories-search",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/categories/search",
		Summary:     "Search categories",
		Tags:        []string{"categories"},
	}, h.SearchCategories)
}
