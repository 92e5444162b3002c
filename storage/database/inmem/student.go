package inmemdb

import "github.com/trezcool/shule/core/roster"

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) roster.StudentRepository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) CreateStudent(s roster.Student) (roster.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// new students sort first
	repo.db.rows = append([]roster.Student{s}, repo.db.rows...)
	return s, nil
}

func (repo *studentRepository) CreateStudents(ss []roster.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rows := make([]roster.Student, 0, len(ss)+len(repo.db.rows))
	rows = append(rows, ss...)
	rows = append(rows, repo.db.rows...)
	repo.db.rows = rows
	return nil
}

func (repo *studentRepository) QueryAllStudents() ([]roster.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]roster.Student, len(repo.db.rows))
	copy(rows, repo.db.rows)
	return rows, nil
}

func (repo *studentRepository) GetStudentByID(id string) (roster.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return roster.Student{}, roster.ErrStudentNotFound
}

func (repo *studentRepository) ReplaceStudents(ss []roster.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rows := make([]roster.Student, len(ss))
	copy(rows, ss)
	repo.db.rows = rows
	return nil
}

func (repo *studentRepository) DeleteStudent(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rows := repo.db.rows[:0]
	for _, s := range repo.db.rows {
		if s.ID != id {
			rows = append(rows, s)
		}
	}
	repo.db.rows = rows
	return nil
}
