package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/roster"
)

// DB is an in-memory store keeping the three collections in display order.
// Each table is guarded by its own RWMutex; every operation is atomic with
// respect to the others on the same table.
type DB struct {
	students   *studentTable
	staff      *staffTable
	attendance *attendanceTable
}

func NewDB() *DB {
	return &DB{
		students:   &studentTable{},
		staff:      &staffTable{},
		attendance: &attendanceTable{},
	}
}

type studentTable struct {
	mutex sync.RWMutex
	rows  []roster.Student
}

type staffTable struct {
	mutex sync.RWMutex
	rows  []roster.Staff
}

type attendanceTable struct {
	mutex sync.RWMutex
	rows  []attendance.Record
}
