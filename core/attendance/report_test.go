package attendance

import (
	"strings"
	"testing"
	"time"

	"github.com/trezcool/shule/core/roster"
)

func testRoster() ([]roster.Student, []roster.Staff) {
	students := []roster.Student{
		{ID: "s1", Name: "Student 1", Grade: roster.Grade1},
		{ID: "s2", Name: "Student 2", Grade: roster.Grade1},
		{ID: "s3", Name: "Student 3", Grade: roster.Grade2},
	}
	staff := []roster.Staff{
		{ID: "a1", Name: "Manager", Role: roster.RoleAdmin},
		{ID: "h1", Name: "Headteacher", Role: roster.RoleHeadTeacher},
		{ID: "t1", Name: "Tr. Mary", Role: roster.RoleTeacher, AssignedClass: roster.Grade1},
		{ID: "t2", Name: "Tr. Rose", Role: roster.RoleTeacher, AssignedClass: roster.Grade2},
	}
	return students, staff
}

func TestBuildDailyStats(t *testing.T) {
	students, staff := testRoster()
	now := time.Now()
	today := DateOf(now)
	yesterday := DateOf(now.AddDate(0, 0, -1))

	records := []Record{
		// s1 holds both a half-day and a full-day mark; counts once
		{ID: "r1", EntityID: "s1", EntityType: EntityStudent, Grade: roster.Grade1, Date: today, Status: StatusHalfDay},
		{ID: "r2", EntityID: "s1", EntityType: EntityStudent, Grade: roster.Grade1, Date: today, Status: StatusFullDay},
		{ID: "r3", EntityID: "s3", EntityType: EntityStudent, Grade: roster.Grade2, Date: today, Status: StatusHalfDay},
		{ID: "r4", EntityID: "t1", EntityType: EntityStaff, Date: today, Status: StatusPresent},
		// stale date; ignored
		{ID: "r5", EntityID: "s2", EntityType: EntityStudent, Grade: roster.Grade1, Date: yesterday, Status: StatusHalfDay},
	}

	stats := BuildDailyStats(records, students, staff, today)

	if stats.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d, want 3", stats.TotalStudents)
	}
	if stats.PresentStudents != 2 {
		t.Errorf("PresentStudents = %d, want 2", stats.PresentStudents)
	}
	// only the Teacher role counts towards the teacher total
	if stats.TotalTeachers != 2 {
		t.Errorf("TotalTeachers = %d, want 2", stats.TotalTeachers)
	}
	if stats.PresentTeachers != 1 {
		t.Errorf("PresentTeachers = %d, want 1", stats.PresentTeachers)
	}
}

func TestBuildGradeBreakdown(t *testing.T) {
	students, _ := testRoster()
	today := DateOf(time.Now())

	records := []Record{
		{ID: "r1", EntityID: "s1", EntityType: EntityStudent, Grade: roster.Grade1, Date: today, Status: StatusHalfDay},
		{ID: "r2", EntityID: "s1", EntityType: EntityStudent, Grade: roster.Grade1, Date: today, Status: StatusFullDay},
	}

	counts := BuildGradeBreakdown(records, students, today)

	if len(counts) != len(roster.GradeLevels) {
		t.Fatalf("BuildGradeBreakdown() returned %d grades, want %d", len(counts), len(roster.GradeLevels))
	}
	for i, grade := range roster.GradeLevels {
		if counts[i].Grade != grade {
			t.Fatalf("counts[%d].Grade = %s, want %s (canonical order)", i, counts[i].Grade, grade)
		}
	}

	byGrade := make(map[roster.GradeLevel]GradeCount, len(counts))
	for _, c := range counts {
		byGrade[c.Grade] = c
	}
	if c := byGrade[roster.Grade1]; c.Total != 2 || c.Present != 1 {
		t.Errorf("Grade 1 = %+v, want Total 2 Present 1", c)
	}
	if c := byGrade[roster.Grade2]; c.Total != 1 || c.Present != 0 {
		t.Errorf("Grade 2 = %+v, want Total 1 Present 0", c)
	}
}

func TestWriteCSV(t *testing.T) {
	ts := time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC)
	records := []Record{
		{
			ID: "r1", EntityID: "s1", EntityName: "Student 1", EntityType: EntityStudent,
			Grade: roster.Grade1, Date: "2026-03-02", Status: StatusHalfDay, Timestamp: ts,
		},
		{
			ID: "r2", EntityID: "t1", EntityName: "Tr. Mary", EntityType: EntityStaff,
			Date: "2026-03-02", Status: StatusPresent, Timestamp: ts,
		},
	}

	var b strings.Builder
	if err := WriteCSV(&b, records); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("WriteCSV() wrote %d lines, want 3", len(lines))
	}
	if lines[0] != "ID,Name,Type,Grade,Date,Status,Time" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "r1,Student 1,STUDENT,Grade 1,2026-03-02,HALF_DAY,2026-03-02T08:05:00Z" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// staff rows carry no grade
	if lines[2] != "r2,Tr. Mary,STAFF,N/A,2026-03-02,PRESENT,2026-03-02T08:05:00Z" {
		t.Errorf("row 2 = %q", lines[2])
	}
}
