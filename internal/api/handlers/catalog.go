package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

// APIPrefix is the path every mock Octopart v2 endpoint lives under.
const APIPrefix = "/api/v2"

// CatalogHandler serves Octopart v2 endpoints from a fixture catalog.
type CatalogHandler struct {
	catalog *fixtures.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c *fixtures.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// RegisterRoutes registers every Octopart v2 endpoint with the Huma API.
func RegisterRoutes(api huma.API, h *CatalogHandler) {
	RegisterCategoryRoutes(api, h)
	RegisterPartRoutes(api, h)
	RegisterPartAttributeRoutes(api, h)
	RegisterBOMRoutes(api, h)
}

// PayloadOutput is a response carrying a decoded Octopart payload.
type PayloadOutput struct {
	Body any
}

func payload(v any) *PayloadOutput {
	return &PayloadOutput{Body: v}
}

// SearchPage is the body of a search response.
type SearchPage struct {
	Results   []fixtures.Hit       `json:"results"`
	Hits      int                  `json:"hits"`
	Drilldown []fixtures.Drilldown `json:"drilldown,omitempty"`
}

// OptimizeParams are the optimize.hide_* query arguments of part endpoints.
type OptimizeParams struct {
	HideDatasheets         bool `query:"optimize.hide_datasheets" doc:"Omit datasheets"`
	HideDescriptions       bool `query:"optimize.hide_descriptions" doc:"Omit descriptions"`
	HideImages             bool `query:"optimize.hide_images" doc:"Omit images"`
	HideOffers             bool `query:"optimize.hide_offers" doc:"Omit offers"`
	HideUnauthorizedOffers bool `query:"optimize.hide_unauthorized_offers" doc:"Omit offers from unauthorized suppliers"`
	HideSpecs              bool `query:"optimize.hide_specs" doc:"Omit specs"`
}

func (p OptimizeParams) optimize() fixtures.Optimize {
	return fixtures.Optimize{
		HideDatasheets:         p.HideDatasheets,
		HideDescriptions:       p.HideDescriptions,
		HideImages:             p.HideImages,
		HideOffers:             p.HideOffers,
		HideUnauthorizedOffers: p.HideUnauthorizedOffers,
		HideSpecs:              p.HideSpecs,
	}
}

// decodeList parses a JSON-encoded list query argument.
func decodeList[T any](name, raw string) ([]T, error) {
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, huma.Error400BadRequest(fmt.Sprintf("%s must be a JSON list", name), err)
	}
	return out, nil
}
