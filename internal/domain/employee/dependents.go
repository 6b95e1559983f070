package employee

// WireDependents binds every dependent to the employee being saved and
// validates it. A missing or empty dependent list is a no-op; the first
// invalid dependent aborts the whole save (nothing has committed yet).
func WireDependents(emp *Employee) error {
	for i := range emp.Dependents {
		dep := &emp.Dependents[i]
		dep.EmployeeID = emp.ID
		if err := ValidateDependent(dep); err != nil {
			return err
		}
	}
	return nil
}
