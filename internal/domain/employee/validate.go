package employee

import (
	"time"

	"customercare/internal/apperr"
)

// employeeChecks run in order; the first failed check aborts the save. The
// accumulating validator at the HTTP layer reports field-shape problems, this
// layer guards the cross-entity invariants.
var employeeChecks = []struct {
	failed  func(emp *Employee, now time.Time) bool
	message string
}{
	{
		failed:  func(emp *Employee, _ time.Time) bool { return emp.PositionSalary == nil },
		message: "Position salary is required",
	},
	{
		failed: func(emp *Employee, now time.Time) bool {
			return emp.BirthDate == nil || !emp.BirthDate.Before(now)
		},
		message: "Birth date must be in the past",
	},
	{
		failed: func(emp *Employee, _ time.Time) bool {
			return emp.HireDate != nil && emp.HireDate.Before(*emp.BirthDate)
		},
		message: "Hire date must be after birth date",
	},
}

// ValidateEmployee checks the submitted aggregate before any write. Pure.
func ValidateEmployee(emp *Employee) error {
	now := time.Now()
	for _, check := range employeeChecks {
		if check.failed(emp, now) {
			return apperr.Validation(check.message)
		}
	}
	return nil
}

func ValidateDependent(dep *Dependent) error {
	if dep.Relationship == nil || *dep.Relationship == "" {
		return apperr.Validation("Relationship is required for dependent")
	}
	return nil
}
