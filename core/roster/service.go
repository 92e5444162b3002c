package roster

import (
	"errors"
	"fmt"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found")
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrDuplicateID     = errors.New("a staff member with this id already exists")
)

type (
	StudentRepository interface {
		// CreateStudent prepends so that new students list first.
		CreateStudent(s Student) (Student, error)
		CreateStudents(ss []Student) error
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		// ReplaceStudents atomically swaps the whole collection.
		ReplaceStudents(ss []Student) error
		// DeleteStudent is a no-op if the id is absent.
		DeleteStudent(id string) error
	}

	StaffRepository interface {
		QueryAllStaff() ([]Staff, error)
		GetStaffByID(id string) (Staff, error)
		// ReplaceStaff atomically swaps the whole collection.
		ReplaceStaff(ss []Staff) error
		UpdateStaff(s Staff) (Staff, error)
		// DeleteStaff is a no-op if the id is absent.
		DeleteStaff(id string) error
	}

	// Ledger is the slice of the attendance ledger the roster cascades into
	// whenever the identity space it references changes.
	Ledger interface {
		RemoveForEntity(entityID string) error
	}

	// Transition is an atomic multi-collection rewrite. Students is always
	// applied; Staff only when ReplaceStaff is set.
	Transition struct {
		Students     []Student
		ReplaceStaff bool
		Staff        []Staff
		ClearLedger  bool
	}

	// TransitionRepository applies a Transition as a single unit: either
	// every listed rewrite lands or none do. A bulk transition must never
	// leave a partial state behind, since callers recover from failures by
	// retrying and a retry over half-applied grades would advance students
	// twice.
	TransitionRepository interface {
		ApplyTransition(t Transition) error
	}

	Service struct {
		students    StudentRepository
		staff       StaffRepository
		transitions TransitionRepository
		ledger      Ledger
	}
)

func NewService(students StudentRepository, staff StaffRepository, transitions TransitionRepository, ledger Ledger) *Service {
	return &Service{students: students, staff: staff, transitions: transitions, ledger: ledger}
}

// Changed reports which collections an operation rewrote so the caller can
// refresh the affected views.
type Changed struct {
	Students   bool `json:"students"`
	Staff      bool `json:"staff"`
	Attendance bool `json:"attendance"`
}

// PromotionResult summarizes an academic-year promotion.
// UnassignedTeachers lists class teachers whose class graduated out from
// under them; they remain on staff as general staff.
type PromotionResult struct {
	Changed
	Promoted           int     `json:"promoted"`
	Graduated          int     `json:"graduated"`
	MovedTeachers      int     `json:"moved_teachers"`
	UnassignedTeachers []Staff `json:"unassigned_teachers,omitempty"`
}

// Students

// AddStudent enrolls a single student. The caller is responsible for id
// generation; the grade value is stored as given.
func (svc *Service) AddStudent(s Student) (Student, error) {
	return svc.students.CreateStudent(s)
}

// AddStudentsBulk enrolls students in bulk; all of them sort before the
// existing collection.
func (svc *Service) AddStudentsBulk(ss []Student) error {
	return svc.students.CreateStudents(ss)
}

func (svc *Service) QueryAllStudents() ([]Student, error) {
	return svc.students.QueryAllStudents()
}

func (svc *Service) GetStudentByID(id string) (Student, error) {
	return svc.students.GetStudentByID(id)
}

// RemoveStudent deletes the student and cascade-deletes their attendance
// records so no orphaned rows remain. Absent ids are a silent no-op.
func (svc *Service) RemoveStudent(id string) error {
	if err := svc.students.DeleteStudent(id); err != nil {
		return err
	}
	return svc.ledger.RemoveForEntity(id)
}

// Staff

func (svc *Service) QueryAllStaff() ([]Staff, error) {
	return svc.staff.QueryAllStaff()
}

func (svc *Service) GetStaffByID(id string) (Staff, error) {
	return svc.staff.GetStaffByID(id)
}

// AddStaff enrolls a staff member, enforcing the assignment-exclusivity
// invariants before insertion:
//   - a new Headteacher or Deputy evicts the current incumbent;
//   - a new class teacher demotes the incumbent of that class to general
//     staff (unassigned, not removed).
//
// Fails with ErrDuplicateID when the id collides; the caller must generate a
// fresh id and retry.
func (svc *Service) AddStaff(ns Staff) (Staff, error) {
	all, err := svc.staff.QueryAllStaff()
	if err != nil {
		return Staff{}, err
	}

	for _, s := range all {
		if s.ID == ns.ID {
			return Staff{}, ErrDuplicateID
		}
	}

	next := make([]Staff, 0, len(all)+1)
	for _, s := range all {
		switch {
		case ns.Role == RoleHeadTeacher && s.Role == RoleHeadTeacher:
			continue // evicted
		case ns.Role == RoleDeputyHeadTeacher && s.Role == RoleDeputyHeadTeacher:
			continue // evicted
		case ns.Role == RoleTeacher && ns.AssignedClass != "" &&
			s.Role == RoleTeacher && s.AssignedClass == ns.AssignedClass:
			s.AssignedClass = "" // demoted to general staff
		}
		next = append(next, s)
	}

	if ns.PIN == "" {
		ns.PIN = DefaultPIN
	}
	next = append(next, ns)

	if err := svc.staff.ReplaceStaff(next); err != nil {
		return Staff{}, err
	}
	return ns, nil
}

// RemoveStaff deletes the staff member. Their attendance history is retained
// as a valid log entry; only student removals cascade into the ledger.
func (svc *Service) RemoveStaff(id string) error {
	return svc.staff.DeleteStaff(id)
}

// UpdatePIN replaces the staff member's PIN. Unknown ids are a silent no-op;
// format validation is the caller's concern.
func (svc *Service) UpdatePIN(userID, newPIN string) error {
	s, err := svc.staff.GetStaffByID(userID)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return nil
		}
		return err
	}
	s.PIN = newPIN
	if _, err = svc.staff.UpdateStaff(s); err != nil && !errors.Is(err, ErrStaffNotFound) {
		return err
	}
	return nil
}

// Bulk transitions

// GenerateStudents builds a synthetic roster of count students spread as
// evenly as possible across the grade sequence, remainder to the earliest
// grades first.
func GenerateStudents(count int) []Student {
	students := make([]Student, 0, count)
	base := count / len(GradeLevels)
	remainder := count % len(GradeLevels)

	id := 1
	for _, grade := range GradeLevels {
		n := base
		if remainder > 0 {
			n++
			remainder--
		}
		for i := 0; i < n; i++ {
			students = append(students, Student{
				ID:    fmt.Sprintf("s%d", id),
				Name:  fmt.Sprintf("Student %d (%s)", id, grade),
				Grade: grade,
			})
			id++
		}
	}
	return students
}

// Regenerate replaces the whole student collection with a fresh synthetic
// roster and clears the attendance ledger: the old records would reference
// ids that no longer exist.
func (svc *Service) Regenerate(count int) (Changed, error) {
	err := svc.transitions.ApplyTransition(Transition{
		Students:    GenerateStudents(count),
		ClearLedger: true,
	})
	if err != nil {
		return Changed{}, err
	}
	return Changed{Students: true, Attendance: true}, nil
}

// WipeStudents empties the student collection and clears the ledger.
func (svc *Service) WipeStudents() (Changed, error) {
	if err := svc.transitions.ApplyTransition(Transition{ClearLedger: true}); err != nil {
		return Changed{}, err
	}
	return Changed{Students: true, Attendance: true}, nil
}

// WipeAll resets students, staff and the ledger to empty. The caller is
// expected to reseed staff afterwards.
func (svc *Service) WipeAll() (Changed, error) {
	err := svc.transitions.ApplyTransition(Transition{
		ReplaceStaff: true,
		ClearLedger:  true,
	})
	if err != nil {
		return Changed{}, err
	}
	return Changed{Students: true, Staff: true, Attendance: true}, nil
}

// Promote advances every student to the next grade per the canonical
// mapping; students in the graduating class are dropped. When
// moveTeachersWithClass is set, class teachers move with their class, or
// become general staff when their class graduates. The ledger is cleared
// unconditionally: grade-keyed records from the prior year are meaningless
// post-promotion.
func (svc *Service) Promote(moveTeachersWithClass bool) (PromotionResult, error) {
	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return PromotionResult{}, err
	}

	res := PromotionResult{Changed: Changed{Students: true, Attendance: true}}

	promoted := make([]Student, 0, len(students))
	for _, s := range students {
		next, ok := s.Grade.Next()
		if !ok {
			res.Graduated++ // no archive is kept here
			continue
		}
		s.Grade = next
		promoted = append(promoted, s)
		res.Promoted++
	}

	var staff []Staff
	if moveTeachersWithClass {
		staff, err = svc.staff.QueryAllStaff()
		if err != nil {
			return PromotionResult{}, err
		}
		for i, s := range staff {
			if s.Role != RoleTeacher || s.AssignedClass == "" {
				continue
			}
			if next, ok := s.AssignedClass.Next(); ok {
				staff[i].AssignedClass = next
				res.MovedTeachers++
			} else {
				staff[i].AssignedClass = ""
				res.UnassignedTeachers = append(res.UnassignedTeachers, staff[i])
			}
		}
		res.Staff = true
	}

	err = svc.transitions.ApplyTransition(Transition{
		Students:     promoted,
		ReplaceStaff: moveTeachersWithClass,
		Staff:        staff,
		ClearLedger:  true,
	})
	if err != nil {
		return PromotionResult{}, err
	}
	return res, nil
}
