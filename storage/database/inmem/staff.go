package inmemdb

import "github.com/trezcool/shule/core/roster"

type staffRepository struct {
	db *staffTable
}

func NewStaffRepository(db *DB) roster.StaffRepository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) QueryAllStaff() ([]roster.Staff, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]roster.Staff, len(repo.db.rows))
	copy(rows, repo.db.rows)
	return rows, nil
}

func (repo *staffRepository) GetStaffByID(id string) (roster.Staff, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return roster.Staff{}, roster.ErrStaffNotFound
}

func (repo *staffRepository) ReplaceStaff(ss []roster.Staff) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rows := make([]roster.Staff, len(ss))
	copy(rows, ss)
	repo.db.rows = rows
	return nil
}

func (repo *staffRepository) UpdateStaff(s roster.Staff) (roster.Staff, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, row := range repo.db.rows {
		if row.ID == s.ID {
			repo.db.rows[i] = s
			return s, nil
		}
	}
	return roster.Staff{}, roster.ErrStaffNotFound
}

func (repo *staffRepository) DeleteStaff(id string) error {
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
