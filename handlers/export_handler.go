package handlers

import (
	"fmt"
	"net/http"

	"github.com/Amanzhol04/esports-portal/services"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(es *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: es}
}

// ExportHandler обрабатывает
// GET /admin/tournaments/{tournamentID}/registrations/export?format=csv|xlsx.
// По умолчанию выгружается XLSX.
func (h *ExportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "xlsx":
		data, err := h.exportService.ExportXLSX(r.Context(), tournamentID)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=registrations-%s.xlsx", tournamentID))
		w.Write(data)
	case "csv":
		data, err := h.exportService.ExportCSV(r.Context(), tournamentID)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=registrations-%s.csv", tournamentID))
		w.Write(data)
	default:
		badRequestResponse(w, r, fmt.Errorf("unsupported export format %q", format))
	}
}
