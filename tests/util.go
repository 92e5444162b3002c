package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/roster"
)

func CreateStudent(t *testing.T, repo roster.StudentRepository, id, name string, grade roster.GradeLevel) roster.Student {
	s, err := repo.CreateStudent(roster.Student{ID: id, Name: name, Grade: grade})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateStaff(
	t *testing.T,
	repo roster.StaffRepository,
	id, name string,
	role roster.Role,
	assignedClass roster.GradeLevel,
) roster.Staff {
	all, err := repo.QueryAllStaff()
	if err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}
	s := roster.Staff{
		ID:            id,
		Name:          name,
		Role:          role,
		AssignedClass: assignedClass,
		PIN:           roster.DefaultPIN,
	}
	if err := repo.ReplaceStaff(append(all, s)); err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}
	return s
}

func CreateRecord(
	t *testing.T,
	repo attendance.Repository,
	entityID, entityName string,
	entityType attendance.EntityType,
	grade roster.GradeLevel,
	status attendance.Status,
	ts time.Time,
) attendance.Record {
	r := attendance.Record{
		ID:         fmt.Sprintf("r-%s-%s-%s", entityID, attendance.DateOf(ts), status),
		EntityID:   entityID,
		EntityName: entityName,
		EntityType: entityType,
		Grade:      grade,
		Date:       attendance.DateOf(ts),
		Status:     status,
		Timestamp:  ts,
		MarkedBy:   "test",
	}
	if _, err := repo.CreateRecord(r); err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return r
}
