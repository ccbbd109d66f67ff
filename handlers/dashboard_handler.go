package handlers

import (
	"net/http"

	"github.com/Amanzhol04/esports-portal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(ds *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

// OverviewHandler обрабатывает GET /admin/dashboard.
func (h *DashboardHandler) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Overview(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
