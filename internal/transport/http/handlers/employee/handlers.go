package employeehandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"customercare/internal/domain/employee"
	"customercare/internal/domain/position"
	"customercare/internal/domain/role"
	"customercare/internal/platform/metrics"
	"customercare/internal/platform/storage"
	"customercare/internal/transport/http/api"
	"customercare/internal/transport/http/middleware"
	"customercare/internal/transport/http/shared"
)

type Handler struct {
	Service        *employee.Service
	MaxUploadBytes int64
}

func NewHandler(service *employee.Service, maxUploadBytes int64) *Handler {
	return &Handler{Service: service, MaxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/position/{position}", h.handleListByPosition)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

// employeeRequest is the JSON carried in the "employee" multipart part.
// Dates travel as strings so the handler controls the accepted formats.
type employeeRequest struct {
	Name             string             `json:"name"`
	PrivateEmail     string             `json:"privateEmail"`
	CPF              string             `json:"cpf"`
	Phone            string             `json:"phone"`
	BirthDate        string             `json:"birthDate"`
	Gender           string             `json:"gender"`
	OtherInformation string             `json:"otherInformation"`
	HireDate         string             `json:"hireDate"`
	CompanyEmail     string             `json:"companyEmail"`
	PositionSalary   *positionSalaryRef `json:"positionSalary"`
	Dependents       []dependentRequest `json:"dependents"`
}

type positionSalaryRef struct {
	ID         *int64          `json:"id"`
	Position   string          `json:"position"`
	Salary     decimal.Decimal `json:"salary"`
	Commission decimal.Decimal `json:"commission"`
	Role       *roleRef        `json:"role"`
}

type roleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type dependentRequest struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	PrivateEmail     string `json:"privateEmail"`
	CPF              string `json:"cpf"`
	Phone            string `json:"phone"`
	BirthDate        string `json:"birthDate"`
	Gender           string `json:"gender"`
	OtherInformation string `json:"otherInformation"`
	Relationship     string `json:"relationship"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	emp, photo, dependentFiles, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}

	saved, err := h.Service.SaveEmployee(r.Context(), emp, photo, dependentFiles)
	if err != nil {
		metrics.ObserveEmployeeSave("failure")
		api.FailError(w, err, requestID)
		return
	}
	metrics.ObserveEmployeeSave("success")
	api.Created(w, saved, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "employeeID")
	if !ok {
		return
	}
	emp, photo, dependentFiles, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}
	emp.ID = id

	saved, err := h.Service.UpdateEmployee(r.Context(), emp, photo, dependentFiles)
	if err != nil {
		metrics.ObserveEmployeeSave("failure")
		api.FailError(w, err, requestID)
		return
	}
	metrics.ObserveEmployeeSave("success")
	api.Success(w, saved, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "employeeID")
	if !ok {
		return
	}
	emp, err := h.Service.GetEmployeeByID(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	list, total, err := h.Service.GetAllEmployees(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, shared.ListResult{Items: list, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleListByPosition(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	list, err := h.Service.GetEmployeesByPosition(r.Context(), chi.URLParam(r, "position"))
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "employeeID")
	if !ok {
		return
	}
	if err := h.Service.DeleteEmployee(r.Context(), id); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.NoContent(w)
}

// parseMultipart reads the "employee" JSON part, the optional "file" photo
// and the positional "dependents[i].file" attachments.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (*employee.Employee, *storage.Upload, map[string]*storage.Upload, bool) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "expected multipart form data", requestID)
		return nil, nil, nil, false
	}

	var payload employeeRequest
	if err := json.Unmarshal([]byte(r.FormValue("employee")), &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee part must be valid JSON", requestID)
		return nil, nil, nil, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	birthDate, _ := v.Date("birthDate", payload.BirthDate)
	hireDate, _ := v.Date("hireDate", payload.HireDate)

	emp := &employee.Employee{
		Name:             strings.TrimSpace(payload.Name),
		PrivateEmail:     payload.PrivateEmail,
		CPF:              payload.CPF,
		Phone:            payload.Phone,
		BirthDate:        birthDate,
		Gender:           payload.Gender,
		OtherInformation: payload.OtherInformation,
		HireDate:         hireDate,
		CompanyEmail:     payload.CompanyEmail,
	}

	if payload.PositionSalary != nil {
		ps := &position.PositionSalary{
			ID:         payload.PositionSalary.ID,
			Position:   payload.PositionSalary.Position,
			Salary:     payload.PositionSalary.Salary,
			Commission: payload.PositionSalary.Commission,
		}
		if payload.PositionSalary.Role != nil {
			ps.Role = &role.Role{
				ID:   payload.PositionSalary.Role.ID,
				Name: payload.PositionSalary.Role.Name,
			}
		}
		emp.PositionSalary = ps
	}

	for i, dep := range payload.Dependents {
		field := "dependents[" + strconv.Itoa(i) + "]"
		depBirth, _ := v.Date(field+".birthDate", dep.BirthDate)
		var rel *employee.RelationshipType
		if dep.Relationship != "" {
			parsed := employee.RelationshipType(strings.ToUpper(dep.Relationship))
			if !parsed.Valid() {
				v.Add(field+".relationship", "must be one of SPOUSE, CHILD, PARENT, SIBLING, OTHER")
			}
			rel = &parsed
		}
		emp.Dependents = append(emp.Dependents, employee.Dependent{
			ID:               dep.ID,
			Name:             dep.Name,
			PrivateEmail:     dep.PrivateEmail,
			CPF:              dep.CPF,
			Phone:            dep.Phone,
			BirthDate:        depBirth,
			Gender:           dep.Gender,
			OtherInformation: dep.OtherInformation,
			Relationship:     rel,
		})
	}

	if v.Reject(w, requestID) {
		return nil, nil, nil, false
	}

	photo, err := readUpload(r, "file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read photo upload", requestID)
		return nil, nil, nil, false
	}

	dependentFiles := map[string]*storage.Upload{}
	for i := range payload.Dependents {
		key := employee.DependentFileKey(i)
		upload, err := readUpload(r, key)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read upload "+key, requestID)
			return nil, nil, nil, false
		}
		if upload != nil {
			dependentFiles[key] = upload
		}
	}

	return emp, photo, dependentFiles, true
}

func readUpload(r *http.Request, field string) (*storage.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &storage.Upload{Filename: header.Filename, Data: data}, nil
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid "+param, middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}
