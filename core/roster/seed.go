package roster

// CanonicalStaff is the school's default staff roster, used to (re)seed a
// fresh deployment: one manager, head and deputy, a class teacher per grade
// and one general staff member.
func CanonicalStaff() []Staff {
	return []Staff{
		{ID: "admin1", Name: "School Manager", Role: RoleAdmin, PIN: DefaultPIN},
		{ID: "head1", Name: "Mr. Kamau (Principal)", Role: RoleHeadTeacher, PIN: DefaultPIN},
		{ID: "deputy1", Name: "Tr. Grace (Deputy)", Role: RoleDeputyHeadTeacher, PIN: DefaultPIN},
		// Pre-Unit
		{ID: "t1", Name: "Tr. Mary", Role: RoleTeacher, AssignedClass: GradePlaygroup, PIN: DefaultPIN},
		{ID: "t2", Name: "Tr. Rose", Role: RoleTeacher, AssignedClass: GradePP1, PIN: DefaultPIN},
		{ID: "t3", Name: "Tr. Alice", Role: RoleTeacher, AssignedClass: GradePP2, PIN: DefaultPIN},
		// Primary
		{ID: "t4", Name: "Tr. James", Role: RoleTeacher, AssignedClass: Grade1, PIN: DefaultPIN},
		{ID: "t5", Name: "Tr. Kamau", Role: RoleTeacher, AssignedClass: Grade2, PIN: DefaultPIN},
		{ID: "t6", Name: "Tr. Lucy", Role: RoleTeacher, AssignedClass: Grade3, PIN: DefaultPIN},
		{ID: "t7", Name: "Tr. John", Role: RoleTeacher, AssignedClass: Grade4, PIN: DefaultPIN},
		{ID: "t8", Name: "Tr. Peter", Role: RoleTeacher, AssignedClass: Grade5, PIN: DefaultPIN},
		{ID: "t9", Name: "Tr. David", Role: RoleTeacher, AssignedClass: Grade6, PIN: DefaultPIN},
		// Junior Secondary
		{ID: "t10", Name: "Tr. Sarah", Role: RoleTeacher, AssignedClass: Grade7, PIN: DefaultPIN},
		// Subject / general staff
		{ID: "t11", Name: "Tr. Kevin (Games)", Role: RoleTeacher, PIN: DefaultPIN},
	}
}

// DefaultEnrollment is the size of the synthetic roster seeded on a fresh
// deployment.
const DefaultEnrollment = 98
