package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sshuster/viral-video-whisperer-pro/dashboard"
	"github.com/sshuster/viral-video-whisperer-pro/model"
)

// DashboardHandler exposes the submission pipeline and history views.
type DashboardHandler struct {
	ctrl *dashboard.Controller
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(ctrl *dashboard.Controller) *DashboardHandler {
	return &DashboardHandler{ctrl: ctrl}
}

// fieldFor maps a validation error to the form field it belongs to.
func fieldFor(err error) string {
	switch {
	case errors.Is(err, dashboard.ErrURLRequired):
		return "url"
	case errors.Is(err, dashboard.ErrPlatformRequired), errors.Is(err, dashboard.ErrUnknownPlatform):
		return "platform"
	}
	return ""
}

// SubmitVideo handles POST /api/videos
// @Summary Submit a video for virality analysis
// @Tags Videos
// @Accept json
// @Produce json
// @Param request body model.Submission true "Video submission"
// @Success 201 {object} model.AnalysisRecord "Scored analysis"
// @Failure 400 {object} ErrorResponse "Validation failure (field-level)"
// @Failure 409 {object} ErrorResponse "A submission is already in flight"
// @Router /api/videos [post]
func (dh *DashboardHandler) SubmitVideo(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	record, err := dh.ctrl.Submit(r.Context(), sub)
	if err != nil {
		if errors.Is(err, dashboard.ErrSubmissionInFlight) {
			SendJSONError(w, http.StatusConflict, err, "Wait for the current analysis to finish")
			return
		}
		SendJSONFieldError(w, http.StatusBadRequest, err, fieldFor(err))
		return
	}

	SendJSONSuccess(w, http.StatusCreated, record)
}

// GetHistory handles GET /api/videos
// @Summary List analyzed videos for the active session, newest first
// @Tags Videos
// @Produce json
// @Success 200 {array} model.AnalysisRecord "History ledger"
// @Router /api/videos [get]
func (dh *DashboardHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history := dh.ctrl.History()
	if history == nil {
		history = []model.AnalysisRecord{}
	}
	SendJSONSuccess(w, http.StatusOK, history)
}

// GetStats handles GET /api/stats
// @Summary Return the derived dashboard statistics
// @Tags Videos
// @Produce json
// @Success 200 {object} model.DashboardStats "Current stats"
// @Router /api/stats [get]
func (dh *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, dh.ctrl.Stats())
}

// GetCurrent handles GET /api/videos/current
// @Summary Return the currently selected analysis result
// @Tags Videos
// @Produce json
// @Success 200 {object} model.AnalysisRecord "Current result"
// @Failure 404 {object} ErrorResponse "Nothing selected"
// @Router /api/videos/current [get]
func (dh *DashboardHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	record, ok := dh.ctrl.Current()
	if !ok {
		SendJSONError(w, http.StatusNotFound, errors.New("no analysis selected"), "")
		return
	}
	SendJSONSuccess(w, http.StatusOK, record)
}

// SelectVideo handles POST /api/videos/{id}/select
// @Summary Re-select a past analysis as the current result
// @Tags Videos
// @Produce json
// @Param id path string true "Analysis record id"
// @Success 200 {object} model.AnalysisRecord "Selected record"
// @Failure 404 {object} ErrorResponse "Record not in the session history"
// @Router /api/videos/{id}/select [post]
func (dh *DashboardHandler) SelectVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, ok := dh.ctrl.SelectFromHistory(id)
	if !ok {
		log.Warn().Str("record_id", id).Msg("History selection miss")
		SendJSONError(w, http.StatusNotFound, errors.New("analysis not found"), "")
		return
	}

	SendJSONSuccess(w, http.StatusOK, record)
}
