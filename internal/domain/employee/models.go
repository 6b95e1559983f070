package employee

import (
	"time"

	"customercare/internal/domain/position"
)

// Employee is the aggregate root: it exclusively owns its dependents (they
// are deleted with it) and holds a shared reference to a position salary.
type Employee struct {
	ID               int64                    `json:"id"`
	Name             string                   `json:"name"`
	PrivateEmail     string                   `json:"privateEmail,omitempty"`
	CPF              string                   `json:"cpf,omitempty"`
	Phone            string                   `json:"phone,omitempty"`
	BirthDate        *time.Time               `json:"birthDate"`
	Gender           string                   `json:"gender,omitempty"`
	OtherInformation string                   `json:"otherInformation,omitempty"`
	PhotoName        string                   `json:"photoName,omitempty"`
	PhotoAddress     string                   `json:"photoAddress,omitempty"`
	HireDate         *time.Time               `json:"hireDate"`
	CompanyEmail     string                   `json:"companyEmail,omitempty"`
	PositionSalary   *position.PositionSalary `json:"positionSalary"`
	Dependents       []Dependent              `json:"dependents"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

type Dependent struct {
	ID               int64             `json:"id"`
	EmployeeID       int64             `json:"employeeId"`
	Name             string            `json:"name"`
	PrivateEmail     string            `json:"privateEmail,omitempty"`
	CPF              string            `json:"cpf,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	BirthDate        *time.Time        `json:"birthDate"`
	Gender           string            `json:"gender,omitempty"`
	OtherInformation string            `json:"otherInformation,omitempty"`
	Relationship     *RelationshipType `json:"relationship"`
	PhotoName        string            `json:"photoName,omitempty"`
	PhotoAddress     string            `json:"photoAddress,omitempty"`
}

type RelationshipType string

const (
	RelationshipSpouse  RelationshipType = "SPOUSE"
	RelationshipChild   RelationshipType = "CHILD"
	RelationshipParent  RelationshipType = "PARENT"
	RelationshipSibling RelationshipType = "SIBLING"
	RelationshipOther   RelationshipType = "OTHER"
)

func (r RelationshipType) Valid() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipParent, RelationshipSibling, RelationshipOther:
		return true
	}
	return false
}
