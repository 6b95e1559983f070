package customer

import (
	"context"

	"customercare/internal/apperr"
)

type StoreAPI interface {
	List(ctx context.Context, limit, offset int) ([]Customer, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, cust *Customer) error
	Update(ctx context.Context, cust *Customer) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) GetAllCustomers(ctx context.Context, limit, offset int) ([]Customer, int, error) {
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

func (s *Service) GetCustomerByID(ctx context.Context, id int64) (*Customer, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) SaveCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	if err := validate(cust); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	if err := validate(cust); err != nil {
		return nil, err
	}
	exists, err := s.store.Exists(ctx, cust.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Customer not found with id %d", cust.ID)
	}
	if err := s.store.Update(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Customer not found with id %d", id)
	}
	return s.store.Delete(ctx, id)
}

func validate(cust *Customer) error {
	if cust.Name == "" {
		return apperr.Validation("Customer name is required")
	}
	if !cust.CustomerType.Valid() {
		return apperr.Validation("Customer type must be INDIVIDUAL or CORPORATE")
	}
	return nil
}
