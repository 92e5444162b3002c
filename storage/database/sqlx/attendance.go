package sqlxrepos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// CreateRecord relies on the (entity_id, date, status) unique index to drop
// duplicate marks without erroring.
func (repo *attendanceRepository) CreateRecord(r attendance.Record) (bool, error) {
	q := `INSERT INTO attendance_record (id, entity_id, entity_name, entity_type, grade, date, status, ts, marked_by)
		  VALUES (:id, :entity_id, :entity_name, :entity_type, :grade, :date, :status, :ts, :marked_by)
		  ON CONFLICT (entity_id, date, status) DO NOTHING`
	res, err := repo.db.NamedExec(q, newRecordRow(r))
	if err != nil {
		return false, errors.Wrap(err, "inserting attendance record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "inserting attendance record")
	}
	return n > 0, nil
}

func (repo *attendanceRepository) QueryRecordsByDate(date string) ([]attendance.Record, error) {
	var rows []recordRow
	q := `SELECT * FROM attendance_record WHERE date = $1 ORDER BY seq`
	if err := repo.db.Select(&rows, q, date); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return records(rows), nil
}

func (repo *attendanceRepository) QueryAllRecords() ([]attendance.Record, error) {
	var rows []recordRow
	if err := repo.db.Select(&rows, `SELECT * FROM attendance_record ORDER BY seq`); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	return records(rows), nil
}

func (repo *attendanceRepository) DeleteRecordsForEntity(entityID string) error {
	_, err := repo.db.Exec(`DELETE FROM attendance_record WHERE entity_id = $1`, entityID)
	return errors.Wrap(err, "deleting attendance records")
}

func (repo *attendanceRepository) ClearRecords() error {
	_, err := repo.db.Exec(`DELETE FROM attendance_record`)
	return errors.Wrap(err, "clearing attendance records")
}

func records(rows []recordRow) []attendance.Record {
	if rows == nil {
		return nil
	}
	rr := make([]attendance.Record, len(rows))
	for i, row := range rows {
		rr[i] = row.record()
	}
	return rr
}
