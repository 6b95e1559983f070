package tickethandler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"customercare/internal/domain/customer"
	"customercare/internal/domain/ticket"
	"customercare/internal/platform/storage"
	"customercare/internal/transport/http/api"
	"customercare/internal/transport/http/middleware"
	"customercare/internal/transport/http/shared"
)

type Handler struct {
	Service        *ticket.Service
	MaxUploadBytes int64
}

func NewHandler(service *ticket.Service, maxUploadBytes int64) *Handler {
	return &Handler{Service: service, MaxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{ticketID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

// ticketRequest is the JSON body of updates and the "ticket" part of the
// multipart create.
type ticketRequest struct {
	ContactName    string `json:"contactName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Subject        string `json:"subject"`
	Description    string `json:"description"`
	OpeningDate    string `json:"openingDate"`
	DueDate        string `json:"dueDate"`
	Classification string `json:"classification"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	CustomerID     int64  `json:"customerId"`
	EmployeeID     *int64 `json:"employeeId"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected multipart form data", requestID)
		return
	}

	var payload ticketRequest
	if err := json.Unmarshal([]byte(r.FormValue("ticket")), &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "ticket part must be valid JSON", requestID)
		return
	}

	tick, ok := buildTicket(w, r, payload)
	if !ok {
		return
	}

	uploads, ok := readUploads(w, r)
	if !ok {
		return
	}

	saved, err := h.Service.CreateTicket(r.Context(), tick, uploads)
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

	var payload ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	tick, ok := buildTicket(w, r, payload)
	if !ok {
		return
	}
	tick.ID = id

	saved, err := h.Service.UpdateTicket(r.Context(), tick)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, saved, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tick, err := h.Service.GetTicketByID(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, tick, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	filter := ticket.Filter{
		Status:   ticket.Status(strings.ToUpper(r.URL.Query().Get("status"))),
		Priority: ticket.Priority(strings.ToUpper(r.URL.Query().Get("priority"))),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if raw := r.URL.Query().Get("customerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid customerId", requestID)
			return
		}
		filter.CustomerID = id
	}

	list, total, err := h.Service.GetAllTickets(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, shared.ListResult{Items: list, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteTicket(r.Context(), id); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.NoContent(w)
}

func buildTicket(w http.ResponseWriter, r *http.Request, payload ticketRequest) (*ticket.Ticket, bool) {
	requestID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	openingDate, _ := v.Date("openingDate", payload.OpeningDate)
	dueDate, _ := v.Date("dueDate", payload.DueDate)
	v.Enum("classification", payload.Classification,
		[]string{
			string(ticket.ClassificationComplaint), string(ticket.ClassificationRequest),
			string(ticket.ClassificationSupport), string(ticket.ClassificationOthers),
		},
		"classification must be COMPLAINT, REQUEST, SUPPORT or OTHERS")
	v.Enum("priority", payload.Priority,
		[]string{
			string(ticket.PriorityLow), string(ticket.PriorityMedium),
			string(ticket.PriorityHigh), string(ticket.PriorityUrgent),
		},
		"priority must be LOW, MEDIUM, HIGH or URGENT")
	v.Enum("status", payload.Status,
		[]string{
			string(ticket.StatusOpen), string(ticket.StatusInProgress),
			string(ticket.StatusResolved), string(ticket.StatusClosed),
		},
		"status must be OPEN, IN_PROGRESS, RESOLVED or CLOSED")
	if v.Reject(w, requestID) {
		return nil, false
	}

	tick := &ticket.Ticket{
		ContactName:    payload.ContactName,
		Email:          payload.Email,
		Phone:          payload.Phone,
		Subject:        payload.Subject,
		Description:    payload.Description,
		OpeningDate:    openingDate,
		DueDate:        dueDate,
		Classification: ticket.Classification(strings.ToUpper(payload.Classification)),
		Priority:       ticket.Priority(strings.ToUpper(payload.Priority)),
		Status:         ticket.Status(strings.ToUpper(payload.Status)),
		EmployeeID:     payload.EmployeeID,
	}
	if payload.CustomerID != 0 {
		tick.Customer = &customer.Customer{ID: payload.CustomerID}
	}
	return tick, true
}

// readUploads collects every "file" part of the create request.
func readUploads(w http.ResponseWriter, r *http.Request) ([]*storage.Upload, bool) {
	requestID := middleware.GetRequestID(r.Context())

	if r.MultipartForm == nil {
		return nil, true
	}

	uploads := []*storage.Upload{}
	for _, header := range r.MultipartForm.File["file"] {
		file, err := header.Open()
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read upload "+header.Filename, requestID)
			return nil, false
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read upload "+header.Filename, requestID)
			return nil, false
		}
		uploads = append(uploads, &storage.Upload{Filename: header.Filename, Data: data})
	}
	return uploads, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ticketID"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid ticketID", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}
