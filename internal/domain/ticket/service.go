package ticket

import (
	"context"

	"customercare/internal/apperr"
	"customercare/internal/platform/storage"
)

// MaxFileSize caps each ticket attachment.
const MaxFileSize = 10 * 1024 * 1024

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Ticket, int, error)
	Get(ctx context.Context, id int64) (*Ticket, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, tick *Ticket, files []File) (*Ticket, error)
	Update(ctx context.Context, tick *Ticket) (*Ticket, error)
	Delete(ctx context.Context, id int64) error
}

type FileStore interface {
	NewStaging() *storage.Staging
	Delete(path string) error
}

type Service struct {
	store StoreAPI
	files FileStore
}

func NewService(store StoreAPI, files FileStore) *Service {
	return &Service{store: store, files: files}
}

// CreateTicket opens a new case. The submitted status is ignored: every new
// ticket starts OPEN. Attachments are written to disk first and discarded if
// the insert fails.
func (s *Service) CreateTicket(ctx context.Context, tick *Ticket, uploads []*storage.Upload) (*Ticket, error) {
	tick.Status = StatusOpen
	if err := ValidateTicket(tick); err != nil {
		return nil, err
	}

	staging := s.files.NewStaging()
	defer staging.Discard()

	files, err := stageUploads(staging, uploads)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Create(ctx, tick, files)
	if err != nil {
		return nil, err
	}
	staging.Keep()
	return saved, nil
}

func (s *Service) UpdateTicket(ctx context.Context, tick *Ticket) (*Ticket, error) {
	exists, err := s.store.Exists(ctx, tick.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Ticket not found with id %d", tick.ID)
	}
	if err := ValidateTicket(tick); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, tick)
}

func (s *Service) GetTicketByID(ctx context.Context, id int64) (*Ticket, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetAllTickets(ctx context.Context, filter Filter) ([]Ticket, int, error) {
	return s.store.List(ctx, filter)
}

// DeleteTicket removes the stored attachments before the rows; a failed file
// delete leaves the ticket in place.
func (s *Service) DeleteTicket(ctx context.Context, id int64) error {
	tick, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	for _, file := range tick.Files {
		if err := s.files.Delete(file.FileAddress); err != nil {
			return apperr.Infrastructure("Failed to delete ticket file at address: "+file.FileAddress, err)
		}
	}
	return s.store.Delete(ctx, id)
}

func stageUploads(staging *storage.Staging, uploads []*storage.Upload) ([]File, error) {
	files := []File{}
	for _, upload := range uploads {
		if upload.Empty() {
			continue
		}
		if len(upload.Data) > MaxFileSize {
			return nil, apperr.Validation("File size exceeds the maximum limit of 10MB.")
		}
		stored, err := staging.Save(upload.Filename, upload.Data)
		if err != nil {
			return nil, apperr.Infrastructure("Error saving file: "+upload.Filename, err)
		}
		files = append(files, File{FileName: stored.Name, FileAddress: stored.Path})
	}
	return files, nil
}
