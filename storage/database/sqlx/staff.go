package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/roster"
)

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) roster.StaffRepository {
	return &staffRepository{db: db}
}

func (repo *staffRepository) QueryAllStaff() ([]roster.Staff, error) {
	var rows []staffRow
	if err := repo.db.Select(&rows, `SELECT * FROM staff ORDER BY position`); err != nil {
		return nil, errors.Wrap(err, "querying staff")
	}

	ss := make([]roster.Staff, len(rows))
	for i, row := range rows {
		ss[i] = row.staff()
	}
	return ss, nil
}

func (repo *staffRepository) GetStaffByID(id string) (roster.Staff, error) {
	var row staffRow
	if err := repo.db.Get(&row, `SELECT * FROM staff WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.Staff{}, roster.ErrStaffNotFound
		}
		return roster.Staff{}, errors.Wrap(err, "querying staff")
	}
	return row.staff(), nil
}

func (repo *staffRepository) ReplaceStaff(ss []roster.Staff) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err = replaceStaffTx(tx, ss); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}

func replaceStaffTx(tx *sqlx.Tx, ss []roster.Staff) error {
	if _, err := tx.Exec(`DELETE FROM staff`); err != nil {
		return errors.Wrap(err, "clearing staff")
	}

	q := `INSERT INTO staff (id, name, role, assigned_class, pin, position)
		  VALUES (:id, :name, :role, :assigned_class, :pin, :position)`
	for i, s := range ss {
		if _, err := tx.NamedExec(q, newStaffRow(s, int64(i))); err != nil {
			return errors.Wrap(err, "inserting staff")
		}
	}
	return nil
}

func (repo *staffRepository) UpdateStaff(s roster.Staff) (roster.Staff, error) {
	q := `UPDATE staff SET name = $2, role = $3, assigned_class = $4, pin = $5 WHERE id = $1`
	ac := newStaffRow(s, 0).AssignedClass
	res, err := repo.db.Exec(q, s.ID, s.Name, s.Role, ac, s.PIN)
	if err != nil {
		return roster.Staff{}, errors.Wrap(err, "updating staff")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return roster.Staff{}, roster.ErrStaffNotFound
	}
	return s, nil
}

func (repo *staffRepository) DeleteStaff(id string) error {
	_, err := repo.db.Exec(`DELETE FROM staff WHERE id = $1`, id)
	return errors.Wrap(err, "deleting staff")
}
