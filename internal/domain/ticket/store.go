package ticket

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customercare/internal/apperr"
	"customercare/internal/domain/customer"
)

// Filter narrows ticket listings. Zero values mean "no constraint".
type Filter struct {
	Status     Status
	Priority   Priority
	CustomerID int64
	Limit      int
	Offset     int
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var ticketColumns = []string{
	"t.id", "COALESCE(t.contact_name, '')", "COALESCE(t.email, '')", "COALESCE(t.phone, '')",
	"COALESCE(t.subject, '')", "COALESCE(t.description, '')",
	"t.opening_date", "t.due_date", "t.classification", "t.priority", "t.status",
	"t.employee_id", "c.id", "c.name", "c.customer_type",
}

func ticketQuery() sq.SelectBuilder {
	return sq.Select(ticketColumns...).
		From("ticket t").
		Join("customer c ON c.id = t.customer_id").
		PlaceholderFormat(sq.Dollar)
}

func applyFilter(builder sq.SelectBuilder, filter Filter) sq.SelectBuilder {
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"t.status": string(filter.Status)})
	}
	if filter.Priority != "" {
		builder = builder.Where(sq.Eq{"t.priority": string(filter.Priority)})
	}
	if filter.CustomerID != 0 {
		builder = builder.Where(sq.Eq{"t.customer_id": filter.CustomerID})
	}
	return builder
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Ticket, int, error) {
	countSQL, countArgs, err := applyFilter(
		sq.Select("COUNT(1)").From("ticket t").PlaceholderFormat(sq.Dollar), filter,
	).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := applyFilter(ticketQuery(), filter).OrderBy("t.opening_date DESC", "t.id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	listSQL, listArgs, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Ticket{}
	for rows.Next() {
		tick, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, tick)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		files, err := s.filesFor(ctx, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].Files = files
	}
	return out, total, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Ticket, error) {
	getSQL, args, err := ticketQuery().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	tick, err := scanTicket(s.DB.QueryRow(ctx, getSQL, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Ticket not found with id %d", id)
	}
	if err != nil {
		return nil, err
	}

	files, err := s.filesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	tick.Files = files
	return &tick, nil
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ticket WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the ticket and its attachment rows in one transaction.
func (s *Store) Create(ctx context.Context, tick *Ticket, files []File) (*Ticket, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
    INSERT INTO ticket (contact_name, email, phone, subject, description, opening_date,
      due_date, classification, priority, status, customer_id, employee_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `,
		nullIfEmpty(tick.ContactName), nullIfEmpty(tick.Email), nullIfEmpty(tick.Phone),
		nullIfEmpty(tick.Subject), nullIfEmpty(tick.Description), tick.OpeningDate,
		tick.DueDate, string(tick.Classification), string(tick.Priority), string(tick.Status),
		tick.Customer.ID, tick.EmployeeID,
	).Scan(&tick.ID)
	if err != nil {
		return nil, err
	}

	for i := range files {
		files[i].TicketID = tick.ID
		err := tx.QueryRow(ctx,
			"INSERT INTO ticket_files (ticket_id, file_name, file_address) VALUES ($1,$2,$3) RETURNING id",
			files[i].TicketID, files[i].FileName, files[i].FileAddress,
		).Scan(&files[i].ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	tick.Files = files
	return tick, nil
}

func (s *Store) Update(ctx context.Context, tick *Ticket) (*Ticket, error) {
	_, err := s.DB.Exec(ctx, `
    UPDATE ticket
    SET contact_name = $1, email = $2, phone = $3, subject = $4, description = $5,
        opening_date = $6, due_date = $7, classification = $8, priority = $9, status = $10,
        customer_id = $11, employee_id = $12
    WHERE id = $13
  `,
		nullIfEmpty(tick.ContactName), nullIfEmpty(tick.Email), nullIfEmpty(tick.Phone),
		nullIfEmpty(tick.Subject), nullIfEmpty(tick.Description), tick.OpeningDate,
		tick.DueDate, string(tick.Classification), string(tick.Priority), string(tick.Status),
		tick.Customer.ID, tick.EmployeeID, tick.ID,
	)
	if err != nil {
		return nil, err
	}
	return tick, nil
}

// Delete removes the ticket row; attachment rows cascade with it.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM ticket WHERE id = $1", id)
	return err
}

func (s *Store) filesFor(ctx context.Context, ticketID int64) ([]File, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT id, ticket_id, file_name, file_address FROM ticket_files WHERE ticket_id = $1 ORDER BY id",
		ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []File{}
	for rows.Next() {
		var file File
		if err := rows.Scan(&file.ID, &file.TicketID, &file.FileName, &file.FileAddress); err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, rows.Err()
}

func scanTicket(row pgx.Row) (Ticket, error) {
	var tick Ticket
	var classification, priority, status, custType string
	var cust customer.Customer
	err := row.Scan(
		&tick.ID, &tick.ContactName, &tick.Email, &tick.Phone,
		&tick.Subject, &tick.Description,
		&tick.OpeningDate, &tick.DueDate, &classification, &priority, &status,
		&tick.EmployeeID, &cust.ID, &cust.Name, &custType,
	)
	if err != nil {
		return Ticket{}, err
	}
	tick.Classification = Classification(classification)
	tick.Priority = Priority(priority)
	tick.Status = Status(status)
	cust.CustomerType = customer.CustomerType(custType)
	tick.Customer = &cust
	return tick, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
