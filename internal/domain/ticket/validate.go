package ticket

import (
	"time"

	"customercare/internal/apperr"
)

// ticketChecks run in order; the first failed check wins.
var ticketChecks = []struct {
	failed  func(t *Ticket, now time.Time) bool
	message string
}{
	{
		failed:  func(t *Ticket, _ time.Time) bool { return t.Customer == nil || t.Customer.ID == 0 },
		message: "Customer is required",
	},
	{
		failed:  func(t *Ticket, _ time.Time) bool { return t.Classification == "" },
		message: "Classification is required",
	},
	{
		failed:  func(t *Ticket, _ time.Time) bool { return t.Priority == "" },
		message: "Priority is required",
	},
	{
		failed:  func(t *Ticket, _ time.Time) bool { return t.Status == "" },
		message: "Status is required",
	},
	{
		failed:  func(t *Ticket, _ time.Time) bool { return t.OpeningDate == nil },
		message: "Opening date is required",
	},
	{
		failed: func(t *Ticket, now time.Time) bool {
			return t.OpeningDate != nil && t.OpeningDate.After(now)
		},
		message: "Opening date must be in the past",
	},
}

func ValidateTicket(t *Ticket) error {
	now := time.Now()
	for _, check := range ticketChecks {
		if check.failed(t, now) {
			return apperr.Validation(check.message)
		}
	}
	return nil
}
