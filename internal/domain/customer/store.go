package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customercare/internal/apperr"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const selectCustomerSQL = `
    SELECT id, name,
           COALESCE(private_email, ''), COALESCE(cpf, ''), COALESCE(phone, ''),
           birth_date, COALESCE(gender, ''), COALESCE(other_information, ''),
           COALESCE(photo_name, ''), COALESCE(photo_address, ''),
           COALESCE(contract_number, ''), contract_date, COALESCE(corporate_email, ''),
           COALESCE(cnpj, ''), COALESCE(trade_name, ''), COALESCE(situation, ''),
           customer_type
    FROM customer`

func (s *Store) List(ctx context.Context, limit, offset int) ([]Customer, error) {
	rows, err := s.DB.Query(ctx, selectCustomerSQL+`
    ORDER BY name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Customer{}
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cust)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM customer").Scan(&count)
	return count, err
}

func (s *Store) Get(ctx context.Context, id int64) (*Customer, error) {
	row := s.DB.QueryRow(ctx, selectCustomerSQL+" WHERE id = $1", id)
	cust, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Customer not found with id %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM customer WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Insert(ctx context.Context, cust *Customer) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO customer (name, private_email, cpf, phone, birth_date, gender, other_information,
      photo_name, photo_address, contract_number, contract_date, corporate_email, cnpj,
      trade_name, situation, customer_type)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
    RETURNING id
  `, customerArgs(cust)...).Scan(&cust.ID)
}

func (s *Store) Update(ctx context.Context, cust *Customer) error {
	args := append(customerArgs(cust), cust.ID)
	_, err := s.DB.Exec(ctx, `
    UPDATE customer
    SET name = $1, private_email = $2, cpf = $3, phone = $4, birth_date = $5, gender = $6,
        other_information = $7, photo_name = $8, photo_address = $9, contract_number = $10,
        contract_date = $11, corporate_email = $12, cnpj = $13, trade_name = $14,
        situation = $15, customer_type = $16
    WHERE id = $17
  `, args...)
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM customer WHERE id = $1", id)
	return err
}

func customerArgs(cust *Customer) []any {
	return []any{
		cust.Name, nullIfEmpty(cust.PrivateEmail), nullIfEmpty(cust.CPF), nullIfEmpty(cust.Phone),
		cust.BirthDate, nullIfEmpty(cust.Gender), nullIfEmpty(cust.OtherInformation),
		nullIfEmpty(cust.PhotoName), nullIfEmpty(cust.PhotoAddress),
		nullIfEmpty(cust.ContractNumber), cust.ContractDate, nullIfEmpty(cust.CorporateEmail),
		nullIfEmpty(cust.CNPJ), nullIfEmpty(cust.TradeName), nullIfEmpty(string(cust.Situation)),
		string(cust.CustomerType),
	}
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var cust Customer
	var situation, custType string
	err := row.Scan(
		&cust.ID, &cust.Name,
		&cust.PrivateEmail, &cust.CPF, &cust.Phone,
		&cust.BirthDate, &cust.Gender, &cust.OtherInformation,
		&cust.PhotoName, &cust.PhotoAddress,
		&cust.ContractNumber, &cust.ContractDate, &cust.CorporateEmail,
		&cust.CNPJ, &cust.TradeName, &situation,
		&custType,
	)
	cust.Situation = Situation(situation)
	cust.CustomerType = CustomerType(custType)
	return cust, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
