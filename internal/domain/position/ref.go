package position

import "customercare/internal/domain/role"

// Ref is the merge-or-create decision for a submitted position salary: a
// payload without an identifier creates a new row, one with an identifier
// attaches to the existing row (and the stored fields win over whatever else
// the payload carried). Modeled as a two-variant value so the branch is
// exhaustive instead of a null check scattered through callers.
type Ref struct {
	existingID *int64
	payload    PositionSalary
}

func NewRef(ps PositionSalary) Ref {
	if ps.ID != nil {
		return Ref{existingID: ps.ID}
	}
	return Ref{payload: ps}
}

// Existing returns the referenced identifier when the submission carried one.
func (r Ref) Existing() (int64, bool) {
	if r.existingID == nil {
		return 0, false
	}
	return *r.existingID, true
}

// Payload returns the record to create when the submission carried no
// identifier.
func (r Ref) Payload() (PositionSalary, bool) {
	if r.existingID != nil {
		return PositionSalary{}, false
	}
	return r.payload, true
}

// RoleRef is the same decision one level deeper, for the role inside a
// position salary.
type RoleRef struct {
	existingID int64
	hasID      bool
	payload    role.Role
}

func NewRoleRef(r role.Role) RoleRef {
	if r.ID != 0 {
		return RoleRef{existingID: r.ID, hasID: true}
	}
	return RoleRef{payload: r}
}

func (r RoleRef) Existing() (int64, bool) {
	return r.existingID, r.hasID
}

func (r RoleRef) Payload() (role.Role, bool) {
	if r.hasID {
		return role.Role{}, false
	}
	return r.payload, true
}
