package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sshuster/viral-video-whisperer-pro/model"
	"github.com/sshuster/viral-video-whisperer-pro/registry"
)

// AdminHandler exposes the site-wide registry to admin users.
type AdminHandler struct {
	registry *registry.Registry
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(reg *registry.Registry) *AdminHandler {
	return &AdminHandler{registry: reg}
}

// GetUsers handles GET /api/admin/users
// @Summary List registered users, optionally filtered
// @Tags Admin
// @Security ApiKeyAuth
// @Produce json
// @Param search query string false "Substring match on username or name"
// @Success 200 {array} model.RegisteredUser "Matching users"
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Router /api/admin/users [get]
func (ah *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users := ah.registry.FilterUsers(r.URL.Query().Get("search"))
	SendJSONSuccess(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /api/admin/users/{id}
// @Summary Remove a registered user
// @Tags Admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} map[string]string "Removal confirmation"
// @Failure 403 {object} ErrorResponse "Admin accounts cannot be removed"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /api/admin/users/{id} [delete]
func (ah *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := ah.registry.RemoveUser(id)
	switch {
	case errors.Is(err, registry.ErrAdminProtected):
		SendJSONError(w, http.StatusForbidden, err, "")
	case errors.Is(err, registry.ErrUserNotFound):
		SendJSONError(w, http.StatusNotFound, err, "")
	case err != nil:
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to remove user")
	default:
		SendJSONSuccess(w, http.StatusOK, map[string]string{"message": "User has been removed"})
	}
}

// GetVideos handles GET /api/admin/videos
// @Summary List registered videos, optionally filtered
// @Tags Admin
// @Security ApiKeyAuth
// @Produce json
// @Param search query string false "Substring match on URL, username or platform"
// @Success 200 {array} model.RegisteredVideo "Matching videos"
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Router /api/admin/videos [get]
func (ah *AdminHandler) GetVideos(w http.ResponseWriter, r *http.Request) {
	videos := ah.registry.FilterVideos(r.URL.Query().Get("search"))
	SendJSONSuccess(w, http.StatusOK, videos)
}

// DeleteVideo handles DELETE /api/admin/videos/{id}
// @Summary Remove a registered video
// @Tags Admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Video id"
// @Success 200 {object} map[string]string "Removal confirmation"
// @Failure 404 {object} ErrorResponse "Video not found"
// @Router /api/admin/videos/{id} [delete]
func (ah *AdminHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := ah.registry.RemoveVideo(id)
	switch {
	case errors.Is(err, registry.ErrVideoNotFound):
		SendJSONError(w, http.StatusNotFound, err, "")
	case err != nil:
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to remove video")
	default:
		SendJSONSuccess(w, http.StatusOK, map[string]string{"message": "Video has been removed"})
	}
}

// GetOverview handles GET /api/admin/overview
// @Summary Return the admin analytics aggregates
// @Tags Admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} model.RegistryOverview "Aggregated registry view"
// @Failure 403 {object} ErrorResponse "Admin role required"
// @Router /api/admin/overview [get]
func (ah *AdminHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview := ah.registry.Overview()
	if overview.UserActivity == nil {
		overview.UserActivity = []model.UserActivity{}
	}
	SendJSONSuccess(w, http.StatusOK, overview)
}
