package employee

import (
	"context"

	"customercare/internal/domain/position"
)

// StoreAPI is the persistence contract the orchestrator drives. The pgx
// Store is the production implementation; tests substitute fakes.
type StoreAPI interface {
	Get(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context, limit, offset int) ([]Employee, error)
	Count(ctx context.Context) (int, error)
	ListByPosition(ctx context.Context, positionTitle string) ([]Employee, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	BeginSave(ctx context.Context) (SaveTx, error)
}

// SaveTx is one all-or-nothing save of an employee aggregate. Position
// resolution happens inside the same transaction as the aggregate write, so
// a freshly created position salary rolls back with everything else.
type SaveTx interface {
	ResolvePositionSalary(ctx context.Context, ref position.Ref) (*position.PositionSalary, error)
	InsertAggregate(ctx context.Context, emp *Employee) (*Employee, error)
	UpdateAggregate(ctx context.Context, emp *Employee) (*Employee, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
