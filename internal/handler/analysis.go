package handler

import (
	"errors"
	"net/http"

	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/service"
)

// AnalysisHandler handles HTTP requests for saved plant analyses.
type AnalysisHandler struct {
	service *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: svc}
}

// HandleCreate handles POST /api/v1/plant-analyses requests.
func (h *AnalysisHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized", "authentication required"))
		return
	}

	var req model.PlantAnalysisRequest
	if !decodeJSON(w, r, 1<<20, &req) {
		return
	}

	analysis, err := h.service.Save(r.Context(), user.ID, req)
	if err != nil {
		if isAnalysisValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(codeValidation, err.Error()))
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, analysis)
}

// HandleList handles GET /api/v1/plant-analyses requests.
func (h *AnalysisHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized", "authentication required"))
		return
	}

	analyses, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"analyses": analyses})
}

func isAnalysisValidationError(err error) bool {
	return errors.Is(err, service.ErrImageURLRequired) ||
		errors.Is(err, service.ErrDehydrationLevelRequired) ||
		errors.Is(err, service.ErrConfidenceOutOfRange)
}
