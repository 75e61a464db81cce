package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// MaintenanceSwitch toggles the server's maintenance mode.
type MaintenanceSwitch interface {
	Unavailable() bool
	SetUnavailable(down bool)
}

// AdminHandler serves the mock server's control endpoints.
type AdminHandler struct {
	sw MaintenanceSwitch
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(sw MaintenanceSwitch) *AdminHandler {
	return &AdminHandler{sw: sw}
}

// MaintenanceState is the maintenance mode of the server.
type MaintenanceState struct {
	Unavailable bool `json:"unavailable" doc:"API calls answer 503 while set"`
}

// MaintenanceOutput is the response of the maintenance endpoints.
type MaintenanceOutput struct {
	Body MaintenanceState
}

// MaintenanceInput is the request body of PUT /admin/maintenance.
type MaintenanceInput struct {
	Body MaintenanceState
}

// GetMaintenance reports whether maintenance mode is on.
func (h *AdminHandler) GetMaintenance(_ context.Context, _ *struct{}) (*MaintenanceOutput, error) {
	return &MaintenanceOutput{Body: MaintenanceState{Unavailable: h.sw.Unavailable()}}, nil
}

// SetMaintenance switches maintenance mode and echoes the new state.
func (h *AdminHandler) SetMaintenance(_ context.Context, in *MaintenanceInput) (*MaintenanceOutput, error) {
	h.sw.SetUnavailable(in.Body.Unavailable)
	return &MaintenanceOutput{Body: MaintenanceState{Unavailable: h.sw.Unavailable()}}, nil
}

// RegisterAdminRoutes registers the maintenance routes on the Huma API.
func RegisterAdminRoutes(api huma.API, h *AdminHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-maintenance",
		Method:      http.MethodGet,
		Path:        "/admin/maintenance",
		Summary:     "Get maintenance mode",
		Tags:        []string{"admin"},
	}, h.GetMaintenance)

	huma.Register(api, huma.Operation{
		OperationID: "set-maintenance",
		Method:      http.MethodPut,
		Path:        "/admin/maintenance",
		Summary:     "Set maintenance mode",
		Description: "While on, every /api/v2 call answers 503 like an Octopart outage.",
		Tags:        []string{"admin"},
	}, h.SetMaintenance)
}
