package rolehandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"customercare/internal/domain/role"
	"customercare/internal/transport/http/api"
	"customercare/internal/transport/http/middleware"
	"customercare/internal/transport/http/shared"
)

type Handler struct {
	Service *role.Service
}

func NewHandler(service *role.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/permissions", h.handleListPermissions)
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{roleID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

type roleRequest struct {
	Name          string  `json:"name"`
	PermissionIDs []int64 `json:"permissionIds"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	roles, err := h.Service.GetAllRoles(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, roles, requestID)
}

func (h *Handler) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	permissions, err := h.Service.ListPermissions(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, permissions, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	found, err := h.Service.GetRoleByID(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, found, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	submitted, ok := decodeRole(w, r)
	if !ok {
		return
	}
	saved, err := h.Service.SaveRole(r.Context(), submitted)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Created(w, saved, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	submitted, ok := decodeRole(w, r)
	if !ok {
		return
	}
	submitted.ID = id

	saved, err := h.Service.UpdateRole(r.Context(), submitted)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, saved, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteRole(r.Context(), id); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.NoContent(w)
}

func decodeRole(w http.ResponseWriter, r *http.Request) (role.Role, bool) {
	requestID := middleware.GetRequestID(r.Context())

	var payload roleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return role.Role{}, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestID) {
		return role.Role{}, false
	}

	submitted := role.Role{Name: payload.Name}
	for _, id := range payload.PermissionIDs {
		submitted.Permissions = append(submitted.Permissions, role.Permission{ID: id})
	}
	return submitted, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid roleID", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}
