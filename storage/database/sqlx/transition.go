package sqlxrepos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/roster"
)

type transitionRepository struct {
	db *sqlx.DB
}

func NewTransitionRepository(db *sqlx.DB) roster.TransitionRepository {
	return &transitionRepository{db: db}
}

// ApplyTransition runs every rewrite inside one transaction so a failure
// rolls the whole transition back instead of leaving the collections out of
// sync with each other.
func (repo *transitionRepository) ApplyTransition(t roster.Transition) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err = replaceStudentsTx(tx, t.Students); err != nil {
		return err
	}
	if t.ReplaceStaff {
		if err = replaceStaffTx(tx, t.Staff); err != nil {
			return err
		}
	}
	if t.ClearLedger {
		if _, err = tx.Exec(`DELETE FROM attendance_record`); err != nil {
			return errors.Wrap(err, "clearing attendance records")
		}
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}
