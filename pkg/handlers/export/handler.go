package export

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
	exportsvc "github.com/tamnguyenvan/timegroup/pkg/services/export"
)

type Handler struct {
	ctrl *exportsvc.Controller
}

func NewHandler(ctrl *exportsvc.Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

// StartExport kicks off a background export run. 409 while a run is in
// flight; the pipeline never queues requests.
func (h *Handler) StartExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Error{Message: "invalid request body"})
		return
	}

	reportType := domain.ReportType(req.ReportType)
	if reportType != domain.ReportTypeRevenue && reportType != domain.ReportTypeOrder {
		writeJSON(w, http.StatusBadRequest, api.Error{Message: "report_type must be revenue or order"})
		return
	}

	runID, err := h.ctrl.ExportReport(ctx, exportsvc.Request{
		ReportType: reportType,
		TimeFrame:  req.TimeFrame,
		Selected:   req.Reports,
	})
	if errors.Is(err, exportsvc.ErrExportInFlight) {
		writeJSON(w, http.StatusConflict, api.Error{Message: err.Error()})
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to start export")
		writeJSON(w, http.StatusInternalServerError, api.Error{Message: "failed to start export"})
		return
	}

	logger.Info().
		Str("run_id", runID).
		Str("report_type", req.ReportType).
		Str("time_frame", req.TimeFrame).
		Msg("export started")
	writeJSON(w, http.StatusAccepted, api.ExportAccepted{RunID: runID})
}

// CurrentExport reports the controller's state and recent progress.
func (h *Handler) CurrentExport(w http.ResponseWriter, r *http.Request) {
	status := h.ctrl.Status()
	writeJSON(w, http.StatusOK, api.ExportStatus{
		RunID:       status.RunID,
		State:       string(status.State),
		Messages:    status.Messages,
		FailedShops: status.FailedShops,
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
