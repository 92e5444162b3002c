package attendance

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/roster"
)

// Reporting is a read-only consumer of the ledger and roster collections; it
// has no write access.

type DailyStats struct {
	Date            string `json:"date"`
	TotalStudents   int    `json:"total_students"`
	PresentStudents int    `json:"present_students"`
	TotalTeachers   int    `json:"total_teachers"`
	PresentTeachers int    `json:"present_teachers"`
}

type GradeCount struct {
	Grade   roster.GradeLevel `json:"grade"`
	Total   int               `json:"total"`
	Present int               `json:"present"`
}

// BuildDailyStats counts unique present students and staff for date. A
// student holding both a half-day and a full-day mark counts once.
func BuildDailyStats(records []Record, students []roster.Student, staff []roster.Staff, date string) DailyStats {
	stats := DailyStats{Date: date, TotalStudents: len(students)}
	for _, s := range staff {
		if s.Role == roster.RoleTeacher {
			stats.TotalTeachers++
		}
	}

	presentStudents := make(map[string]struct{})
	presentStaff := make(map[string]struct{})
	for _, r := range records {
		if r.Date != date {
			continue
		}
		switch r.EntityType {
		case EntityStudent:
			presentStudents[r.EntityID] = struct{}{}
		case EntityStaff:
			presentStaff[r.EntityID] = struct{}{}
		}
	}
	stats.PresentStudents = len(presentStudents)
	stats.PresentTeachers = len(presentStaff)
	return stats
}

// BuildGradeBreakdown tallies per-grade enrollment against unique present
// students for date, in canonical grade order.
func BuildGradeBreakdown(records []Record, students []roster.Student, date string) []GradeCount {
	totals := make(map[roster.GradeLevel]int, len(roster.GradeLevels))
	for _, s := range students {
		totals[s.Grade]++
	}

	present := make(map[roster.GradeLevel]map[string]struct{}, len(roster.GradeLevels))
	for _, r := range records {
		if r.Date != date || r.EntityType != EntityStudent {
			continue
		}
		ids, ok := present[r.Grade]
		if !ok {
			ids = make(map[string]struct{})
			present[r.Grade] = ids
		}
		ids[r.EntityID] = struct{}{}
	}

	counts := make([]GradeCount, 0, len(roster.GradeLevels))
	for _, grade := range roster.GradeLevels {
		counts = append(counts, GradeCount{
			Grade:   grade,
			Total:   totals[grade],
			Present: len(present[grade]),
		})
	}
	return counts
}

// WriteCSV exports records as CSV with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Type", "Grade", "Date", "Status", "Time"}); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, r := range records {
		grade := string(r.Grade)
		if grade == "" {
			grade = "N/A"
		}
		row := []string{
			r.ID,
			r.EntityName,
			string(r.EntityType),
			grade,
			r.Date,
			string(r.Status),
			r.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}
