package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

// PartAttributeGetInput is the query of partattributes/get.
type PartAttributeGetInput struct {
	FieldName string `query:"fieldname" required:"true" doc:"Attribute field name" example:"capacitance"`
}

// PartAttributeGetMultiInput is the query of partattributes/get_multi.
type PartAttributeGetMultiInput struct {
	FieldNames string `query:"fieldnames" required:"true" doc:"JSON list of field names" example:"[\"capacitance\",\"resistance\"]"`
}

// GetPartAttribute handles partattributes/get.
func (h *CatalogHandler) GetPartAttribute(_ context.Context, in *PartAttributeGetInput) (*PayloadOutput, error) {
	attr, ok := h.catalog.PartAttribute(in.FieldName)
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("part attribute %q not found", in.FieldName))
	}
	return payload(attr), nil
}

// GetPartAttributes handles partattributes/get_multi.
func (h *CatalogHandler) GetPartAttributes(_ context.Context, in *PartAttributeGetMultiInput) (*PayloadOutput, error) {
	names, err := decodeList[string]("fieldnames", in.FieldNames)
	if err != nil {
		return nil, err
	}
	out := make([]fixtures.Object, 0, len(names))
	for _, n := range names {
		attr, ok := h.catalog.PartAttribute(n)
		if !ok {
			return nil, huma.Error404NotFound(fmt.Sprintf("part attribute %q not found", n))
		}
		out = append(out, attr)
	}
	return payload(out), nil
}

// RegisterPartAttributeRoutes registers the part attribute endpoints.
func RegisterPartAttributeRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "partattributes-get",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/partattributes/get",
		Summary:     "Fetch a part attribute",
		Tags:        []string{"partattributes"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetPartAttribute)

	huma.Register(api, huma.Operation{
		OperationID: "partattributes-get-multi",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/partattributes/get_multi",
		Summary:     "Fetch several part attributes",
		Tags:        []string{"partattributes"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.GetPartAttributes)
}
