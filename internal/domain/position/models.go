package position

import (
	"github.com/shopspring/decimal"

	"customercare/internal/domain/role"
)

// PositionSalary is shared between employees: many employees may reference
// the same record, and deleting an employee never deletes it.
type PositionSalary struct {
	ID         *int64          `json:"id,omitempty"`
	Position   string          `json:"position"`
	Salary     decimal.Decimal `json:"salary"`
	Commission decimal.Decimal `json:"commission"`
	Role       *role.Role      `json:"role,omitempty"`
}
