package position

import (
	"testing"

	"github.com/shopspring/decimal"

	"customercare/internal/domain/role"
)

func TestNewRefWithoutIdentifierIsCreate(t *testing.T) {
	ref := NewRef(PositionSalary{Position: "Developer", Salary: decimal.NewFromInt(5000)})

	if _, ok := ref.Existing(); ok {
		t.Fatal("expected create variant")
	}
	payload, ok := ref.Payload()
	if !ok {
		t.Fatal("expected payload to be available")
	}
	if payload.Position != "Developer" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestNewRefWithIdentifierIsAttach(t *testing.T) {
	id := int64(999)
	ref := NewRef(PositionSalary{ID: &id, Position: "ignored"})

	got, ok := ref.Existing()
	if !ok || got != 999 {
		t.Fatalf("expected attach variant with id 999, got %v %v", got, ok)
	}
	if _, ok := ref.Payload(); ok {
		t.Fatal("attach variant must not expose a payload")
	}
}

func TestNewRoleRefVariants(t *testing.T) {
	if _, ok := NewRoleRef(role.Role{Name: "SUPPORT"}).Existing(); ok {
		t.Fatal("role without id must be the create variant")
	}

	got, ok := NewRoleRef(role.Role{ID: 3, Name: "ignored"}).Existing()
	if !ok || got != 3 {
		t.Fatalf("expected attach variant with id 3, got %v %v", got, ok)
	}
}
