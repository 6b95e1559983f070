package position

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"customercare/internal/apperr"
)

// StoreAPI is what the service needs from persistence; the pgx Store is the
// production implementation.
type StoreAPI interface {
	List(ctx context.Context, limit, offset int) ([]PositionSalary, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (*PositionSalary, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) GetAllPositionSalaries(ctx context.Context, limit, offset int) ([]PositionSalary, int, error) {
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

func (s *Service) GetPositionSalaryByID(ctx context.Context, id int64) (*PositionSalary, error) {
	ps, err := s.store.Get(ctx, id)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return nil, apperr.NotFound("Position not found with id %d", id)
		}
		return nil, err
	}
	return ps, nil
}

// SavePositionSalary persists a new position salary. The contained role is
// mandatory here (unlike the employee onboarding path) and is resolved by the
// merge-or-create contract.
func (s *Service) SavePositionSalary(ctx context.Context, ps PositionSalary) (*PositionSalary, error) {
	if ps.Role == nil {
		return nil, apperr.Validation("Role is required")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperr.Unexpected("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	resolved, err := ResolveRoleTx(ctx, tx, NewRoleRef(*ps.Role))
	if err != nil {
		return nil, err
	}
	ps.Role = resolved
	ps.ID = nil

	saved, err := InsertTx(ctx, tx, ps)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Unexpected("commit transaction", err)
	}
	return saved, nil
}

func (s *Service) UpdatePositionSalary(ctx context.Context, ps PositionSalary) (*PositionSalary, error) {
	if ps.ID == nil {
		return nil, apperr.Validation("Position salary id is required")
	}
	exists, err := s.store.Exists(ctx, *ps.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Position not found with id %d", *ps.ID)
	}
	if ps.Role == nil {
		return nil, apperr.Validation("Role is required")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperr.Unexpected("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	resolved, err := ResolveRoleTx(ctx, tx, NewRoleRef(*ps.Role))
	if err != nil {
		return nil, err
	}
	ps.Role = resolved

	if err := UpdateTx(ctx, tx, ps); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Unexpected("commit transaction", err)
	}
	return &ps, nil
}

func (s *Service) DeletePositionSalary(ctx context.Context, id int64) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Position not found with id %d", id)
	}
	return s.store.Delete(ctx, id)
}
