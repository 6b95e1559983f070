package employee

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"customercare/internal/apperr"
	"customercare/internal/domain/position"
	"customercare/internal/platform/storage"
)

type fakeStore struct {
	employees  map[int64]*Employee
	positions  map[int64]*position.PositionSalary
	nextPosID  int64
	beginCount int
	deleted    []int64
	tx         *fakeTx
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: map[int64]*Employee{},
		positions: map[int64]*position.PositionSalary{},
		nextPosID: 100,
	}
}

func (s *fakeStore) Get(ctx context.Context, id int64) (*Employee, error) {
	emp, ok := s.employees[id]
	if !ok {
		return nil, apperr.NotFound("Employee not found with id %d", id)
	}
	return emp, nil
}

func (s *fakeStore) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	out := []Employee{}
	for _, emp := range s.employees {
		out = append(out, *emp)
	}
	return out, nil
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	return len(s.employees), nil
}

func (s *fakeStore) ListByPosition(ctx context.Context, positionTitle string) ([]Employee, error) {
	out := []Employee{}
	for _, emp := range s.employees {
		if emp.PositionSalary != nil && emp.PositionSalary.Position == positionTitle {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (s *fakeStore) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.employees[id]
	return ok, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	delete(s.employees, id)
	return nil
}

func (s *fakeStore) BeginSave(ctx context.Context) (SaveTx, error) {
	s.beginCount++
	s.tx = &fakeTx{store: s}
	return s.tx, nil
}

type fakeTx struct {
	store      *fakeStore
	insertErr  error
	inserted   *Employee
	updated    *Employee
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ResolvePositionSalary(ctx context.Context, ref position.Ref) (*position.PositionSalary, error) {
	if id, ok := ref.Existing(); ok {
		ps, found := t.store.positions[id]
		if !found {
			return nil, apperr.NotFound("PositionSalary not found")
		}
		return ps, nil
	}
	payload, _ := ref.Payload()
	t.store.nextPosID++
	id := t.store.nextPosID
	payload.ID = &id
	return &payload, nil
}

func (t *fakeTx) InsertAggregate(ctx context.Context, emp *Employee) (*Employee, error) {
	if t.insertErr != nil {
		return nil, t.insertErr
	}
	emp.ID = int64(len(t.store.employees) + 1)
	t.inserted = emp
	return emp, nil
}

func (t *fakeTx) UpdateAggregate(ctx context.Context, emp *Employee) (*Employee, error) {
	if t.insertErr != nil {
		return nil, t.insertErr
	}
	t.updated = emp
	return emp, nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	t.store.employees[t.currentID()] = t.current()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) current() *Employee {
	if t.updated != nil {
		return t.updated
	}
	return t.inserted
}

func (t *fakeTx) currentID() int64 {
	if emp := t.current(); emp != nil {
		return emp.ID
	}
	return 0
}

type fakeFiles struct {
	disk      *storage.Disk
	deleted   []string
	deleteErr error
}

func (f *fakeFiles) NewStaging() *storage.Staging {
	return f.disk.NewStaging()
}

func (f *fakeFiles) Delete(path string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeFiles, string) {
	t.Helper()
	dir := t.TempDir()
	store := newFakeStore()
	files := &fakeFiles{disk: storage.NewDisk(dir)}
	return NewService(store, files), store, files, dir
}

func TestSaveEmployeeCreatesPositionSalaryInSameSave(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	emp := validEmployee()
	emp.PositionSalary = &position.PositionSalary{
		Position: "Engineer",
		Salary:   decimal.NewFromInt(5000),
	}

	saved, err := svc.SaveEmployee(context.Background(), emp, nil, nil)
	if err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if saved.PositionSalary.ID == nil || *saved.PositionSalary.ID == 0 {
		t.Fatalf("new position salary should receive an id")
	}
	if !store.tx.committed {
		t.Fatalf("save must commit the transaction")
	}
}

func TestSaveEmployeeRejectsHireBeforeBirth(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	emp := validEmployee()
	emp.BirthDate = date(1990, 5, 1)
	emp.HireDate = date(1989, 1, 1)

	_, err := svc.SaveEmployee(context.Background(), emp, nil, nil)
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Message != "Hire date must be after birth date" {
		t.Fatalf("unexpected message %q", vErr.Message)
	}
	if store.beginCount != 0 {
		t.Fatalf("validation failure must happen before any transaction")
	}
}

func TestSaveEmployeeUnknownPositionSalaryPersistsNothing(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	emp := validEmployee()
	id := int64(999)
	emp.PositionSalary = &position.PositionSalary{ID: &id}

	_, err := svc.SaveEmployee(context.Background(), emp, nil, nil)
	var nfErr *apperr.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !store.tx.rolledBack {
		t.Fatalf("failed resolution must roll back")
	}
	if store.tx.inserted != nil {
		t.Fatalf("nothing should be inserted")
	}
}

func TestSaveEmployeeInvalidDependentRollsBack(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	psID := int64(7)
	store.positions[psID] = &position.PositionSalary{ID: &psID, Position: "Clerk"}

	rel := RelationshipChild
	emp := validEmployee()
	emp.PositionSalary = &position.PositionSalary{ID: &psID}
	emp.Dependents = []Dependent{
		{Name: "Ana", Relationship: &rel},
		{Name: "Bia"},
	}

	_, err := svc.SaveEmployee(context.Background(), emp, nil, nil)
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !store.tx.rolledBack {
		t.Fatalf("invalid dependent must roll the save back")
	}
	if store.tx.inserted != nil {
		t.Fatalf("no aggregate write should happen after a dependent failure")
	}
}

func TestSaveEmployeePhotoPersistsOnSuccess(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	psID := int64(7)
	store.positions[psID] = &position.PositionSalary{ID: &psID, Position: "Clerk"}

	emp := validEmployee()
	emp.PositionSalary = &position.PositionSalary{ID: &psID}

	photo := &storage.Upload{Filename: "face.png", Data: []byte("png-bytes")}
	saved, err := svc.SaveEmployee(context.Background(), emp, photo, nil)
	if err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if !strings.HasSuffix(saved.PhotoName, "face.png") {
		t.Fatalf("photo name not stamped, got %q", saved.PhotoName)
	}
	if _, err := os.Stat(saved.PhotoAddress); err != nil {
		t.Fatalf("photo should remain on disk after commit: %v", err)
	}
}

func TestSaveEmployeeInsertFailureDiscardsPhoto(t *testing.T) {
	svc, store, _, dir := newTestService(t)

	psID := int64(7)
	store.positions[psID] = &position.PositionSalary{ID: &psID, Position: "Clerk"}

	emp := validEmployee()
	emp.PositionSalary = &position.PositionSalary{ID: &psID}

	// The insert fails after the photo was already written.
	svc = NewService(&insertFailingStore{fakeStore: store}, &fakeFiles{disk: storage.NewDisk(dir)})

	photo := &storage.Upload{Filename: "face.png", Data: []byte("png-bytes")}
	_, err := svc.SaveEmployee(context.Background(), emp, photo, nil)
	var uErr *apperr.UnexpectedError
	if !errors.As(err, &uErr) {
		t.Fatalf("expected unexpected error, got %v", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("reading upload dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("discarded save must leave no files, found %d", len(entries))
	}
}

type insertFailingStore struct {
	*fakeStore
}

func (s *insertFailingStore) BeginSave(ctx context.Context) (SaveTx, error) {
	tx, err := s.fakeStore.BeginSave(ctx)
	if err != nil {
		return nil, err
	}
	s.fakeStore.tx.insertErr = errors.New("constraint violation")
	return tx, nil
}

func TestUpdateEmployeeMissingEmployee(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	emp := validEmployee()
	emp.ID = 55

	_, err := svc.UpdateEmployee(context.Background(), emp, nil, nil)
	var nfErr *apperr.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateEmployeeUsesUpdatePath(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	psID := int64(7)
	store.positions[psID] = &position.PositionSalary{ID: &psID, Position: "Clerk"}
	store.employees[3] = &Employee{ID: 3, Name: "Old Name"}

	emp := validEmployee()
	emp.ID = 3
	emp.PositionSalary = &position.PositionSalary{ID: &psID}

	_, err := svc.UpdateEmployee(context.Background(), emp, nil, nil)
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if store.tx.updated == nil || store.tx.inserted != nil {
		t.Fatalf("existing employee must take the update path")
	}
}

func TestDeleteEmployeeRemovesPhotosThenRow(t *testing.T) {
	svc, store, files, _ := newTestService(t)

	rel := RelationshipChild
	store.employees[9] = &Employee{
		ID:           9,
		Name:         "Maria",
		PhotoAddress: "/photos/maria.png",
		Dependents: []Dependent{
			{Name: "Ana", Relationship: &rel, PhotoAddress: "/photos/ana.png"},
			{Name: "Bia", Relationship: &rel},
		},
	}

	if err := svc.DeleteEmployee(context.Background(), 9); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if len(files.deleted) != 2 {
		t.Fatalf("expected 2 photo deletes, got %v", files.deleted)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 9 {
		t.Fatalf("employee row not deleted, got %v", store.deleted)
	}
}

func TestDeleteEmployeeFileFailureKeepsRecord(t *testing.T) {
	svc, store, files, _ := newTestService(t)
	files.deleteErr = errors.New("permission denied")

	store.employees[9] = &Employee{ID: 9, Name: "Maria", PhotoAddress: "/photos/maria.png"}

	err := svc.DeleteEmployee(context.Background(), 9)
	var infraErr *apperr.InfrastructureError
	if !errors.As(err, &infraErr) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("record must stay when the photo delete fails")
	}
}

func TestDeleteEmployeeMissing(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.DeleteEmployee(context.Background(), 404)
	var nfErr *apperr.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetEmployeesByPositionEmptyIsValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.GetEmployeesByPosition(context.Background(), "Pilot")
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Details["position"] != "Pilot" {
		t.Fatalf("expected position detail, got %v", vErr.Details)
	}
}
