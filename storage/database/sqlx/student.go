package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/roster"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) roster.StudentRepository {
	return &studentRepository{db: db}
}

// CreateStudent inserts s ahead of every existing student.
func (repo *studentRepository) CreateStudent(s roster.Student) (roster.Student, error) {
	q := `INSERT INTO student (id, name, grade, position)
		  VALUES ($1, $2, $3, (SELECT COALESCE(MIN(position), 0) - 1 FROM student))`
	if _, err := repo.db.Exec(q, s.ID, s.Name, s.Grade); err != nil {
		return roster.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo *studentRepository) CreateStudents(ss []roster.Student) error {
	if len(ss) == 0 {
		return nil
	}

	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	var min int64
	if err = tx.Get(&min, `SELECT COALESCE(MIN(position), 0) FROM student`); err != nil {
		return errors.Wrap(err, "querying min position")
	}

	q := `INSERT INTO student (id, name, grade, position) VALUES ($1, $2, $3, $4)`
	for i, s := range ss {
		// the batch sorts first, keeping its own order
		pos := min - int64(len(ss)) + int64(i)
		if _, err = tx.Exec(q, s.ID, s.Name, s.Grade, pos); err != nil {
			return errors.Wrap(err, "inserting student")
		}
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}

func (repo *studentRepository) QueryAllStudents() ([]roster.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM student ORDER BY position`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	ss := make([]roster.Student, len(rows))
	for i, row := range rows {
		ss[i] = row.student()
	}
	return ss, nil
}

func (repo *studentRepository) GetStudentByID(id string) (roster.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.Student{}, roster.ErrStudentNotFound
		}
		return roster.Student{}, errors.Wrap(err, "querying student")
	}
	return row.student(), nil
}

func (repo *studentRepository) ReplaceStudents(ss []roster.Student) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err = replaceStudentsTx(tx, ss); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}

func replaceStudentsTx(tx *sqlx.Tx, ss []roster.Student) error {
	if _, err := tx.Exec(`DELETE FROM student`); err != nil {
		return errors.Wrap(err, "clearing students")
	}

	q := `INSERT INTO student (id, name, grade, position) VALUES ($1, $2, $3, $4)`
	for i, s := range ss {
		if _, err := tx.Exec(q, s.ID, s.Name, s.Grade, int64(i)); err != nil {
			return errors.Wrap(err, "inserting student")
		}
	}
	return nil
}

func (repo *studentRepository) DeleteStudent(id string) error {
	_, err := repo.db.Exec(`DELETE FROM student WHERE id = $1`, id)
	return errors.Wrap(err, "deleting student")
}
