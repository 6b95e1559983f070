package customer

import "time"

// CustomerType discriminates individual customers from corporate ones; the
// contract and CNPJ fields only carry meaning for CORPORATE customers.
type CustomerType string

const (
	TypeIndividual CustomerType = "INDIVIDUAL"
	TypeCorporate  CustomerType = "CORPORATE"
)

func (t CustomerType) Valid() bool {
	return t == TypeIndividual || t == TypeCorporate
}

type Situation string

const (
	SituationActive   Situation = "ACTIVE"
	SituationInactive Situation = "INACTIVE"
)

type Customer struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	PrivateEmail     string       `json:"privateEmail,omitempty"`
	CPF              string       `json:"cpf,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	BirthDate        *time.Time   `json:"birthDate,omitempty"`
	Gender           string       `json:"gender,omitempty"`
	OtherInformation string       `json:"otherInformation,omitempty"`
	PhotoName        string       `json:"photoName,omitempty"`
	PhotoAddress     string       `json:"photoAddress,omitempty"`
	ContractNumber   string       `json:"contractNumber,omitempty"`
	ContractDate     *time.Time   `json:"contractDate,omitempty"`
	CorporateEmail   string       `json:"corporateEmail,omitempty"`
	CNPJ             string       `json:"cnpj,omitempty"`
	TradeName        string       `json:"tradeName,omitempty"`
	Situation        Situation    `json:"situation,omitempty"`
	CustomerType     CustomerType `json:"customerType"`
}
