package sqlxrepos

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/roster"
)

type studentRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Grade    string `db:"grade"`
	Position int64  `db:"position"`
}

func (row studentRow) student() roster.Student {
	return roster.Student{
		ID:    row.ID,
		Name:  row.Name,
		Grade: roster.GradeLevel(row.Grade),
	}
}

type staffRow struct {
	ID            string      `db:"id"`
	Name          string      `db:"name"`
	Role          string      `db:"role"`
	AssignedClass null.String `db:"assigned_class"`
	PIN           string      `db:"pin"`
	Position      int64       `db:"position"`
}

func (row staffRow) staff() roster.Staff {
	return roster.Staff{
		ID:            row.ID,
		Name:          row.Name,
		Role:          roster.Role(row.Role),
		AssignedClass: roster.GradeLevel(row.AssignedClass.String),
		PIN:           row.PIN,
	}
}

func newStaffRow(s roster.Staff, pos int64) staffRow {
	return staffRow{
		ID:            s.ID,
		Name:          s.Name,
		Role:          string(s.Role),
		AssignedClass: null.NewString(string(s.AssignedClass), s.AssignedClass != ""),
		PIN:           s.PIN,
		Position:      pos,
	}
}

type recordRow struct {
	ID         string      `db:"id"`
	EntityID   string      `db:"entity_id"`
	EntityName string      `db:"entity_name"`
	EntityType string      `db:"entity_type"`
	Grade      null.String `db:"grade"`
	Date       string      `db:"date"`
	Status     string      `db:"status"`
	Timestamp  time.Time   `db:"ts"`
	MarkedBy   string      `db:"marked_by"`
	Seq        int64       `db:"seq"`
}

func (row recordRow) record() attendance.Record {
	return attendance.Record{
		ID:         row.ID,
		EntityID:   row.EntityID,
		EntityName: row.EntityName,
		EntityType: attendance.EntityType(row.EntityType),
		Grade:      roster.GradeLevel(row.Grade.String),
		Date:       row.Date,
		Status:     attendance.Status(row.Status),
		Timestamp:  row.Timestamp,
		MarkedBy:   row.MarkedBy,
	}
}

func newRecordRow(r attendance.Record) recordRow {
	return recordRow{
		ID:         r.ID,
		EntityID:   r.EntityID,
		EntityName: r.EntityName,
		EntityType: string(r.EntityType),
		Grade:      null.NewString(string(r.Grade), r.Grade != ""),
		Date:       r.Date,
		Status:     string(r.Status),
		Timestamp:  r.Timestamp,
		MarkedBy:   r.MarkedBy,
	}
}
