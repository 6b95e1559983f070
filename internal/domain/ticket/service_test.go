package ticket

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"customercare/internal/apperr"
	"customercare/internal/domain/customer"
	"customercare/internal/platform/storage"
)

type fakeStore struct {
	tickets   map[int64]*Ticket
	nextID    int64
	createErr error
	deleted   []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{tickets: map[int64]*Ticket{}}
}

func (s *fakeStore) List(ctx context.Context, filter Filter) ([]Ticket, int, error) {
	out := []Ticket{}
	for _, tick := range s.tickets {
		if filter.Status != "" && tick.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && tick.Priority != filter.Priority {
			continue
		}
		if filter.CustomerID != 0 && tick.Customer.ID != filter.CustomerID {
			continue
		}
		out = append(out, *tick)
	}
	return out, len(out), nil
}

func (s *fakeStore) Get(ctx context.Context, id int64) (*Ticket, error) {
	tick, ok := s.tickets[id]
	if !ok {
		return nil, apperr.NotFound("Ticket not found with id %d", id)
	}
	return tick, nil
}

func (s *fakeStore) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.tickets[id]
	return ok, nil
}

func (s *fakeStore) Create(ctx context.Context, tick *Ticket, files []File) (*Ticket, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	tick.ID = s.nextID
	tick.Files = files
	s.tickets[tick.ID] = tick
	return tick, nil
}

func (s *fakeStore) Update(ctx context.Context, tick *Ticket) (*Ticket, error) {
	s.tickets[tick.ID] = tick
	return tick, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	delete(s.tickets, id)
	return nil
}

type fakeFiles struct {
	disk      *storage.Disk
	deleted   []string
	deleteErr error
}

func (f *fakeFiles) NewStaging() *storage.Staging { return f.disk.NewStaging() }

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

func validTicket() *Ticket {
	opened := time.Now().Add(-time.Hour)
	return &Ticket{
		ContactName:    "Maria",
		Subject:        "Billing question",
		OpeningDate:    &opened,
		Classification: ClassificationOthers,
		Priority:       PriorityHigh,
		Customer:       &customer.Customer{ID: 5, Name: "Acme"},
	}
}

func TestCreateTicketForcesStatusOpen(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	tick := validTicket()
	tick.Status = StatusClosed

	saved, err := svc.CreateTicket(context.Background(), tick, nil)
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if saved.Status != StatusOpen {
		t.Fatalf("new ticket must start OPEN, got %q", saved.Status)
	}
}

func TestCreateTicketValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tick *Ticket)
		message string
	}{
		{
			name:    "missing customer",
			mutate:  func(tick *Ticket) { tick.Customer = nil },
			message: "Customer is required",
		},
		{
			name:    "missing classification",
			mutate:  func(tick *Ticket) { tick.Classification = "" },
			message: "Classification is required",
		},
		{
			name:    "missing priority",
			mutate:  func(tick *Ticket) { tick.Priority = "" },
			message: "Priority is required",
		},
		{
			name:    "missing opening date",
			mutate:  func(tick *Ticket) { tick.OpeningDate = nil },
			message: "Opening date is required",
		},
		{
			name: "future opening date",
			mutate: func(tick *Ticket) {
				future := time.Now().Add(48 * time.Hour)
				tick.OpeningDate = &future
			},
			message: "Opening date must be in the past",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _ := newTestService(t)
			tick := validTicket()
			tc.mutate(tick)

			_, err := svc.CreateTicket(context.Background(), tick, nil)
			var vErr *apperr.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Message != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, vErr.Message)
			}
		})
	}
}

func TestCreateTicketStoresAttachments(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	uploads := []*storage.Upload{
		{Filename: "invoice.pdf", Data: []byte("pdf-bytes")},
		{Filename: "note.txt", Data: []byte("hello")},
	}
	saved, err := svc.CreateTicket(context.Background(), validTicket(), uploads)
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if len(saved.Files) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(saved.Files))
	}
	for _, file := range saved.Files {
		if _, err := os.Stat(file.FileAddress); err != nil {
			t.Fatalf("attachment should remain on disk: %v", err)
		}
	}
	if len(store.tickets) != 1 {
		t.Fatalf("ticket not persisted")
	}
}

func TestCreateTicketOversizedAttachment(t *testing.T) {
	svc, store, _, dir := newTestService(t)

	uploads := []*storage.Upload{
		{Filename: "dump.bin", Data: bytes.Repeat([]byte("x"), MaxFileSize+1)},
	}
	_, err := svc.CreateTicket(context.Background(), validTicket(), uploads)
	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Message != "File size exceeds the maximum limit of 10MB." {
		t.Fatalf("unexpected message %q", vErr.Message)
	}
	if len(store.tickets) != 0 {
		t.Fatalf("oversized attachment must block the ticket")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no files should remain, found %d", len(entries))
	}
}

func TestCreateTicketInsertFailureDiscardsAttachments(t *testing.T) {
	svc, store, _, dir := newTestService(t)
	store.createErr = errors.New("connection reset")

	uploads := []*storage.Upload{{Filename: "note.txt", Data: []byte("hello")}}
	_, err := svc.CreateTicket(context.Background(), validTicket(), uploads)
	if err == nil {
		t.Fatalf("expected create to fail")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("failed insert must discard staged files, found %d", len(entries))
	}
}

func TestUpdateTicketMissing(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	tick := validTicket()
	tick.ID = 42
	tick.Status = StatusInProgress

	_, err := svc.UpdateTicket(context.Background(), tick)
	var nfErr *apperr.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTicketKeepsSubmittedStatus(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	seed := validTicket()
	if _, err := svc.CreateTicket(context.Background(), seed, nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	seed.Status = StatusResolved
	updated, err := svc.UpdateTicket(context.Background(), seed)
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if updated.Status != StatusResolved {
		t.Fatalf("update must keep the submitted status, got %q", updated.Status)
	}
	if store.tickets[seed.ID].Status != StatusResolved {
		t.Fatalf("status not persisted")
	}
}

func TestDeleteTicketRemovesAttachmentsThenRow(t *testing.T) {
	svc, store, files, _ := newTestService(t)

	uploads := []*storage.Upload{{Filename: "note.txt", Data: []byte("hello")}}
	saved, err := svc.CreateTicket(context.Background(), validTicket(), uploads)
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	if err := svc.DeleteTicket(context.Background(), saved.ID); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if len(files.deleted) != 1 {
		t.Fatalf("expected 1 attachment delete, got %v", files.deleted)
	}
	if len(store.deleted) != 1 || store.deleted[0] != saved.ID {
		t.Fatalf("ticket row not deleted, got %v", store.deleted)
	}
}

func TestDeleteTicketFileFailureKeepsTicket(t *testing.T) {
	svc, store, files, _ := newTestService(t)
	files.deleteErr = errors.New("permission denied")

	uploads := []*storage.Upload{{Filename: "note.txt", Data: []byte("hello")}}
	saved, err := svc.CreateTicket(context.Background(), validTicket(), uploads)
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	err = svc.DeleteTicket(context.Background(), saved.ID)
	var infraErr *apperr.InfrastructureError
	if !errors.As(err, &infraErr) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("ticket must stay when the file delete fails")
	}
}

func TestListTicketsFiltered(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	first := validTicket()
	if _, err := svc.CreateTicket(context.Background(), first, nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	second := validTicket()
	second.Priority = PriorityLow
	second.Customer = &customer.Customer{ID: 6, Name: "Globex"}
	if _, err := svc.CreateTicket(context.Background(), second, nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	list, total, err := svc.GetAllTickets(context.Background(), Filter{Priority: PriorityHigh})
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("expected exactly the high priority ticket, got %d", len(list))
	}
	if list[0].Customer.ID != 5 {
		t.Fatalf("wrong ticket returned")
	}
}
