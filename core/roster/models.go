package roster

import (
	"github.com/trezcool/shule/core"
)

// GradeLevel is one class level in the school's fixed progression sequence,
// from Playgroup up to the graduating class.
type GradeLevel string

const (
	GradePlaygroup GradeLevel = "Playgroup"
	GradePP1       GradeLevel = "PP1"
	GradePP2       GradeLevel = "PP2"
	Grade1         GradeLevel = "Grade 1"
	Grade2         GradeLevel = "Grade 2"
	Grade3         GradeLevel = "Grade 3"
	Grade4         GradeLevel = "Grade 4"
	Grade5         GradeLevel = "Grade 5"
	Grade6         GradeLevel = "Grade 6"
	Grade7         GradeLevel = "Grade 7" // graduating class
)

// GradeLevels is the canonical sequence, lowest to highest.
var GradeLevels = []GradeLevel{
	GradePlaygroup, GradePP1, GradePP2,
	Grade1, Grade2, Grade3, Grade4, Grade5, Grade6, Grade7,
}

// nextGrade maps each grade to its successor; the graduating class is absent.
var nextGrade = map[GradeLevel]GradeLevel{
	GradePlaygroup: GradePP1,
	GradePP1:       GradePP2,
	GradePP2:       Grade1,
	Grade1:         Grade2,
	Grade2:         Grade3,
	Grade3:         Grade4,
	Grade4:         Grade5,
	Grade5:         Grade6,
	Grade6:         Grade7,
}

// Next returns the grade a student in g moves to at promotion.
// ok is false for the graduating class (and for values outside the sequence).
func (g GradeLevel) Next() (next GradeLevel, ok bool) {
	next, ok = nextGrade[g]
	return next, ok
}

func (g GradeLevel) IsValid() bool {
	for _, gl := range GradeLevels {
		if g == gl {
			return true
		}
	}
	return false
}

// GradeGroup is a named department of consecutive grades, used to group
// classes (and their teachers) for display.
type GradeGroup struct {
	Name   string       `json:"name"`
	Grades []GradeLevel `json:"grades"`
}

var GradeGroups = []GradeGroup{
	{Name: "Pre-Unit", Grades: []GradeLevel{GradePlaygroup, GradePP1, GradePP2}},
	{Name: "Primary", Grades: []GradeLevel{Grade1, Grade2, Grade3, Grade4, Grade5, Grade6}},
	{Name: "Junior Secondary", Grades: []GradeLevel{Grade7}},
}

// Roles
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RoleTeacher           Role = "TEACHER"
	RoleHeadTeacher       Role = "HEAD_TEACHER"
	RoleDeputyHeadTeacher Role = "DEPUTY_HEAD_TEACHER"
)

var Roles = []Role{RoleAdmin, RoleTeacher, RoleHeadTeacher, RoleDeputyHeadTeacher}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleHeadTeacher, RoleDeputyHeadTeacher:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants access to the admin portal.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleHeadTeacher || r == RoleDeputyHeadTeacher
}

func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Manager"
	case RoleHeadTeacher:
		return "Headteacher"
	case RoleDeputyHeadTeacher:
		return "Deputy Headteacher"
	default:
		return "Teacher"
	}
}

// DefaultPIN is assigned to new staff enrolled without a PIN.
const DefaultPIN = "1234"

type Student struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Grade GradeLevel `json:"grade"`
}

// Staff is a staff member. AssignedClass is only meaningful for the Teacher
// role; a Teacher with an empty AssignedClass is general staff.
type Staff struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Role          Role       `json:"role"`
	AssignedClass GradeLevel `json:"assigned_class,omitempty"`
	PIN           string     `json:"-"`
}

func (s Staff) IsGeneralStaff() bool {
	return s.Role == RoleTeacher && s.AssignedClass == ""
}

// CheckPIN performs the opaque credential check used by login.
func (s Staff) CheckPIN(pin string) bool {
	if s.PIN == "" {
		return pin == DefaultPIN
	}
	return pin == s.PIN
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name  string     `json:"name" validate:"required"`
	Grade GradeLevel `json:"grade" validate:"required,gradelevel"`
}

func (ns *NewStudent) Validate(validate StructValidator) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// NewStaff contains information needed to enroll a new Staff member.
type NewStaff struct {
	Name          string     `json:"name" validate:"required"`
	Role          Role       `json:"role" validate:"required,staffrole"`
	AssignedClass GradeLevel `json:"assigned_class" validate:"omitempty,gradelevel"`
	PIN           string     `json:"pin" validate:"omitempty,len=4,numeric"`
}

func (ns *NewStaff) Validate(validate StructValidator) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// StructValidator abstracts *validator.Validate for the DTO Validate helpers.
type StructValidator interface {
	Struct(s interface{}) error
}
