package reportshandler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"customercare/internal/domain/employee"
	"customercare/internal/domain/ticket"
	"customercare/internal/transport/http/api"
	"customercare/internal/transport/http/middleware"
)

type Handler struct {
	Employees *employee.Service
	Tickets   *ticket.Service
}

func NewHandler(employees *employee.Service, tickets *ticket.Service) *Handler {
	return &Handler{Employees: employees, Tickets: tickets}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/employees.pdf", h.handleEmployeeRoster)
		r.Get("/tickets/summary", h.handleTicketSummary)
	})
}

// handleEmployeeRoster renders the full employee roster as a PDF.
func (h *Handler) handleEmployeeRoster(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employees, _, err := h.Employees.GetAllEmployees(r.Context(), 1000, 0)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Roster")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Position", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Hire Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Dependents", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, emp := range employees {
		positionTitle := ""
		if emp.PositionSalary != nil {
			positionTitle = emp.PositionSalary.Position
		}
		hireDate := ""
		if emp.HireDate != nil {
			hireDate = emp.HireDate.Format("2006-01-02")
		}
		pdf.CellFormat(60, 8, emp.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, positionTitle, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, hireDate, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", len(emp.Dependents)), "1", 1, "R", false, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employee-roster.pdf"`)
	if err := pdf.Output(w); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", requestID)
	}
}

// handleTicketSummary returns open case counts grouped by status and priority.
func (h *Handler) handleTicketSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	tickets, total, err := h.Tickets.GetAllTickets(r.Context(), ticket.Filter{})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	byStatus := map[ticket.Status]int{}
	byPriority := map[ticket.Priority]int{}
	for _, tick := range tickets {
		byStatus[tick.Status]++
		byPriority[tick.Priority]++
	}

	api.Success(w, map[string]any{
		"total":      total,
		"byStatus":   byStatus,
		"byPriority": byPriority,
	}, requestID)
}
