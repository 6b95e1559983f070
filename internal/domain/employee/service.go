package employee

import (
	"context"
	"errors"
	"fmt"

	"customercare/internal/apperr"
	"customercare/internal/domain/position"
	"customercare/internal/platform/storage"
)

// FileStore is the storage collaborator: staged writes for saves, direct
// deletes for employee removal.
type FileStore interface {
	NewStaging() *storage.Staging
	Delete(path string) error
}

// Service orchestrates the onboarding/update pipeline: validate the
// aggregate, resolve the position reference, wire dependents, attach files,
// persist — all before anything becomes durable. The first failure aborts
// the remaining steps and nothing is kept.
type Service struct {
	store StoreAPI
	files FileStore
}

func NewService(store StoreAPI, files FileStore) *Service {
	return &Service{store: store, files: files}
}

func (s *Service) SaveEmployee(ctx context.Context, emp *Employee, photo *storage.Upload, dependentFiles map[string]*storage.Upload) (*Employee, error) {
	return s.save(ctx, emp, photo, dependentFiles, false)
}

// UpdateEmployee differs from SaveEmployee only in its entry guard: the
// target employee must already exist.
func (s *Service) UpdateEmployee(ctx context.Context, emp *Employee, photo *storage.Upload, dependentFiles map[string]*storage.Upload) (*Employee, error) {
	exists, err := s.store.Exists(ctx, emp.ID)
	if err != nil {
		return nil, classify(err)
	}
	if !exists {
		return nil, apperr.NotFound("Employee not found with id %d", emp.ID)
	}
	return s.save(ctx, emp, photo, dependentFiles, true)
}

func (s *Service) save(ctx context.Context, emp *Employee, photo *storage.Upload, dependentFiles map[string]*storage.Upload, update bool) (*Employee, error) {
	if err := ValidateEmployee(emp); err != nil {
		return nil, err
	}

	tx, err := s.store.BeginSave(ctx)
	if err != nil {
		return nil, classify(err)
	}
	defer tx.Rollback(ctx)

	resolved, err := tx.ResolvePositionSalary(ctx, position.NewRef(*emp.PositionSalary))
	if err != nil {
		return nil, classify(err)
	}
	emp.PositionSalary = resolved

	if err := WireDependents(emp); err != nil {
		return nil, err
	}

	staging := s.files.NewStaging()
	defer staging.Discard()
	if err := AttachFiles(staging, emp, photo, dependentFiles); err != nil {
		return nil, err
	}

	var saved *Employee
	if update {
		saved, err = tx.UpdateAggregate(ctx, emp)
	} else {
		saved, err = tx.InsertAggregate(ctx, emp)
	}
	if err != nil {
		return nil, classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classify(err)
	}
	staging.Keep()
	return saved, nil
}

// DeleteEmployee removes the employee photo and every dependent photo before
// deleting the row; dependents go with the employee. A failed file delete is
// an infrastructure error and leaves the record in place.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	emp, err := s.store.Get(ctx, id)
	if err != nil {
		return classify(err)
	}

	if emp.PhotoAddress != "" {
		if err := s.files.Delete(emp.PhotoAddress); err != nil {
			return apperr.Infrastructure("Failed to delete employee photo at address: "+emp.PhotoAddress, err)
		}
	}
	for _, dep := range emp.Dependents {
		if dep.PhotoAddress == "" {
			continue
		}
		if err := s.files.Delete(dep.PhotoAddress); err != nil {
			return apperr.Infrastructure("Failed to delete dependent photo at address: "+dep.PhotoAddress, err)
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return apperr.Infrastructure(fmt.Sprintf("Failed to delete employee with id %d", id), err)
	}
	return nil
}

func (s *Service) GetEmployeeByID(ctx context.Context, id int64) (*Employee, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetAllEmployees(ctx context.Context, limit, offset int) ([]Employee, int, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Service) GetEmployeesByPosition(ctx context.Context, positionTitle string) ([]Employee, error) {
	list, err := s.store.ListByPosition(ctx, positionTitle)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperr.ValidationWithDetails(
			"No employees found with position: "+positionTitle,
			map[string]any{"position": positionTitle},
		)
	}
	return list, nil
}

// classify keeps taxonomy errors as they are and folds everything else into
// the catch-all, matching the propagation policy: no downgrades, no
// swallowed failures.
func classify(err error) error {
	var validation *apperr.ValidationError
	var notFound *apperr.NotFoundError
	var infra *apperr.InfrastructureError
	var unexpected *apperr.UnexpectedError
	switch {
	case errors.As(err, &validation),
		errors.As(err, &notFound),
		errors.As(err, &infra),
		errors.As(err, &unexpected):
		return err
	}
	return apperr.Unexpected("Failed to save employee due to an unexpected error", err)
}

