package customerhandler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"customercare/internal/domain/customer"
	"customercare/internal/transport/http/api"
	"customercare/internal/transport/http/middleware"
	"customercare/internal/transport/http/shared"
)

type Handler struct {
	Service *customer.Service
}

func NewHandler(service *customer.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

type customerRequest struct {
	Name             string `json:"name"`
	PrivateEmail     string `json:"privateEmail"`
	CPF              string `json:"cpf"`
	Phone            string `json:"phone"`
	BirthDate        string `json:"birthDate"`
	Gender           string `json:"gender"`
	OtherInformation string `json:"otherInformation"`
	ContractNumber   string `json:"contractNumber"`
	ContractDate     string `json:"contractDate"`
	CorporateEmail   string `json:"corporateEmail"`
	CNPJ             string `json:"cnpj"`
	TradeName        string `json:"tradeName"`
	Situation        string `json:"situation"`
	CustomerType     string `json:"customerType"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	list, total, err := h.Service.GetAllCustomers(r.Context(), page.Limit, page.Offset)
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
	cust, err := h.Service.GetCustomerByID(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, cust, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	cust, ok := decodeCustomer(w, r)
	if !ok {
		return
	}
	saved, err := h.Service.SaveCustomer(r.Context(), cust)
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
	cust, ok := decodeCustomer(w, r)
	if !ok {
		return
	}
	cust.ID = id

	saved, err := h.Service.UpdateCustomer(r.Context(), cust)
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
	if err := h.Service.DeleteCustomer(r.Context(), id); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.NoContent(w)
}

func decodeCustomer(w http.ResponseWriter, r *http.Request) (*customer.Customer, bool) {
	requestID := middleware.GetRequestID(r.Context())

	var payload customerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return nil, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("customerType", payload.CustomerType, "customerType is required")
	v.Enum("customerType", payload.CustomerType,
		[]string{string(customer.TypeIndividual), string(customer.TypeCorporate)},
		"customerType must be INDIVIDUAL or CORPORATE")
	v.Enum("situation", payload.Situation,
		[]string{string(customer.SituationActive), string(customer.SituationInactive)},
		"situation must be ACTIVE or INACTIVE")
	birthDate, _ := v.Date("birthDate", payload.BirthDate)
	contractDate, _ := v.Date("contractDate", payload.ContractDate)
	if v.Reject(w, requestID) {
		return nil, false
	}

	return &customer.Customer{
		Name:             strings.TrimSpace(payload.Name),
		PrivateEmail:     payload.PrivateEmail,
		CPF:              payload.CPF,
		Phone:            payload.Phone,
		BirthDate:        birthDate,
		Gender:           payload.Gender,
		OtherInformation: payload.OtherInformation,
		ContractNumber:   payload.ContractNumber,
		ContractDate:     contractDate,
		CorporateEmail:   payload.CorporateEmail,
		CNPJ:             payload.CNPJ,
		TradeName:        payload.TradeName,
		Situation:        customer.Situation(strings.ToUpper(payload.Situation)),
		CustomerType:     customer.CustomerType(strings.ToUpper(payload.CustomerType)),
	}, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid customerID", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}
