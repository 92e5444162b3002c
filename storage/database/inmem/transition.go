package inmemdb

import "github.com/trezcool/shule/core/roster"

type transitionRepository struct {
	db *DB
}

func NewTransitionRepository(db *DB) roster.TransitionRepository {
	return &transitionRepository{db: db}
}

// ApplyTransition swaps every affected collection while holding all three
// table locks, always in the same order, so readers never observe a
// half-applied transition.
func (repo *transitionRepository) ApplyTransition(t roster.Transition) error {
	repo.db.students.mutex.Lock()
	defer repo.db.students.mutex.Unlock()
	repo.db.staff.mutex.Lock()
	defer repo.db.staff.mutex.Unlock()
	repo.db.attendance.mutex.Lock()
	defer repo.db.attendance.mutex.Unlock()

	students := make([]roster.Student, len(t.Students))
	copy(students, t.Students)
	repo.db.students.rows = students

	if t.ReplaceStaff {
		staff := make([]roster.Staff, len(t.Staff))
		copy(staff, t.Staff)
		repo.db.staff.rows = staff
	}
	if t.ClearLedger {
		repo.db.attendance.rows = nil
	}
	return nil
}
