package ticket

import (
	"time"

	"customercare/internal/domain/customer"
)

type Classification string

const (
	ClassificationComplaint Classification = "COMPLAINT"
	ClassificationRequest   Classification = "REQUEST"
	ClassificationSupport   Classification = "SUPPORT"
	ClassificationOthers    Classification = "OTHERS"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

// Ticket is a customer-care case. Every ticket belongs to a customer; the
// owning employee is optional.
type Ticket struct {
	ID             int64              `json:"id"`
	ContactName    string             `json:"contactName,omitempty"`
	Email          string             `json:"email,omitempty"`
	Phone          string             `json:"phone,omitempty"`
	Subject        string             `json:"subject,omitempty"`
	Description    string             `json:"description,omitempty"`
	OpeningDate    *time.Time         `json:"openingDate"`
	DueDate        *time.Time         `json:"dueDate,omitempty"`
	Classification Classification     `json:"classification"`
	Priority       Priority           `json:"priority"`
	Status         Status             `json:"status"`
	Customer       *customer.Customer `json:"customer"`
	EmployeeID     *int64             `json:"employeeId,omitempty"`
	Files          []File             `json:"files"`
}

// File is attachment metadata; the bytes live on disk at FileAddress.
type File struct {
	ID          int64  `json:"id"`
	TicketID    int64  `json:"ticketId"`
	FileName    string `json:"fileName"`
	FileAddress string `json:"fileAddress"`
}
