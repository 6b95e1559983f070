package employee

import (
	"fmt"

	"customercare/internal/apperr"
	"customercare/internal/platform/storage"
)

// FileSaver is the storage side of photo attachment; storage.Staging is the
// production implementation so writes can be discarded if the save fails.
type FileSaver interface {
	Save(suggestedName string, data []byte) (storage.Stored, error)
}

// DependentFileKey is the per-index key the HTTP contract uses to correlate
// uploads to dependents. Correlation is positional: reordering dependents
// between request construction and submission changes which file lands where.
func DependentFileKey(index int) string {
	return fmt.Sprintf("dependents[%d].file", index)
}

// AttachFiles stores the employee photo and any per-dependent photos and
// stamps name/address onto the owning record. Absent or empty uploads are
// skipped. Storage failures are infrastructure errors, not validation errors.
func AttachFiles(saver FileSaver, emp *Employee, photo *storage.Upload, dependentFiles map[string]*storage.Upload) error {
	if err := stampPhoto(saver, photo, &emp.PhotoName, &emp.PhotoAddress); err != nil {
		return err
	}

	for i := range emp.Dependents {
		upload := dependentFiles[DependentFileKey(i)]
		dep := &emp.Dependents[i]
		if err := stampPhoto(saver, upload, &dep.PhotoName, &dep.PhotoAddress); err != nil {
			return err
		}
	}
	return nil
}

func stampPhoto(saver FileSaver, upload *storage.Upload, name, address *string) error {
	if upload.Empty() {
		return nil
	}
	stored, err := saver.Save(upload.Filename, upload.Data)
	if err != nil {
		return apperr.Infrastructure("Failed to save employee due to file handling error", err)
	}
	*name = stored.Name
	*address = stored.Path
	return nil
}
