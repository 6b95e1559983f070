package positionhandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"customercare/internal/domain/position"
	"customercare/internal/domain/role"
	"customercare/internal/transport/http/api"
	"customercare/internal/transport/http/middleware"
	"customercare/internal/transport/http/shared"
)

type Handler struct {
	Service *position.Service
}

func NewHandler(service *position.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/position-salaries", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{positionSalaryID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

type positionSalaryRequest struct {
	Position   string          `json:"position"`
	Salary     decimal.Decimal `json:"salary"`
	Commission decimal.Decimal `json:"commission"`
	Role       *roleRef        `json:"role"`
}

type roleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	list, total, err := h.Service.GetAllPositionSalaries(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, shared.ListResult{Items: list, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ps, err := h.Service.GetPositionSalaryByID(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, ps, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ps, ok := decodePositionSalary(w, r)
	if !ok {
		return
	}
	saved, err := h.Service.SavePositionSalary(r.Context(), ps)
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
	ps, ok := decodePositionSalary(w, r)
	if !ok {
		return
	}
	ps.ID = &id

	saved, err := h.Service.UpdatePositionSalary(r.Context(), ps)
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
	if err := h.Service.DeletePositionSalary(r.Context(), id); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.NoContent(w)
}

func decodePositionSalary(w http.ResponseWriter, r *http.Request) (position.PositionSalary, bool) {
	requestID := middleware.GetRequestID(r.Context())

	var payload positionSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return position.PositionSalary{}, false
	}

	v := shared.NewValidator()
	v.Required("position", payload.Position, "position is required")
	if v.Reject(w, requestID) {
		return position.PositionSalary{}, false
	}

	ps := position.PositionSalary{
		Position:   payload.Position,
		Salary:     payload.Salary,
		Commission: payload.Commission,
	}
	if payload.Role != nil {
		ps.Role = &role.Role{ID: payload.Role.ID, Name: payload.Role.Name}
	}
	return ps, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "positionSalaryID"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid positionSalaryID", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}
