package inmemdb

import "github.com/trezcool/shule/core/attendance"

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateRecord(r attendance.Record) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := r.Key()
	for _, row := range repo.db.rows {
		if row.Key() == key {
			return false, nil // duplicate mark attempt; silent no-op
		}
	}
	repo.db.rows = append(repo.db.rows, r)
	return true, nil
}

func (repo *attendanceRepository) QueryRecordsByDate(date string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var rows []attendance.Record
	for _, r := range repo.db.rows {
		if r.Date == date {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (repo *attendanceRepository) QueryAllRecords() ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]attendance.Record, len(repo.db.rows))
	copy(rows, repo.db.rows)
	return rows, nil
}

func (repo *attendanceRepository) DeleteRecordsForEntity(entityID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rows := repo.db.rows[:0]
	for _, r := range repo.db.rows {
		if r.EntityID != entityID {
			rows = append(rows, r)
		}
	}
	repo.db.rows = rows
	return nil
}

func (repo *attendanceRepository) ClearRecords() error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows = nil
	return nil
}
