package attendance

import "github.com/trezcool/shule/core/roster"

type (
	Repository interface {
		// CreateRecord inserts r unless a record with the same Key exists;
		// created is false for that silent no-op. The write is atomic.
		CreateRecord(r Record) (created bool, err error)
		// QueryRecordsByDate returns records in stable insertion order.
		QueryRecordsByDate(date string) ([]Record, error)
		QueryAllRecords() ([]Record, error)
		DeleteRecordsForEntity(entityID string) error
		ClearRecords() error
	}

	// Service is the append-only attendance ledger.
	Service struct {
		repo Repository
	}
)

var _ roster.Ledger = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append stores r. A duplicate (EntityID, Date, Status) key is a silent
// no-op, not an error: double-click mark attempts are idempotent.
func (svc *Service) Append(r Record) error {
	_, err := svc.repo.CreateRecord(r)
	return err
}

func (svc *Service) Query(date string) ([]Record, error) {
	return svc.repo.QueryRecordsByDate(date)
}

func (svc *Service) QueryAll() ([]Record, error) {
	return svc.repo.QueryAllRecords()
}

// Clear empties the ledger unconditionally; used whenever the roster's
// identity space changes.
func (svc *Service) Clear() error {
	return svc.repo.ClearRecords()
}

// RemoveForEntity deletes all records referencing entityID, keeping the
// ledger free of orphaned rows.
func (svc *Service) RemoveForEntity(entityID string) error {
	return svc.repo.DeleteRecordsForEntity(entityID)
}
