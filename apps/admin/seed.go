package main

import (
	"github.com/trezcool/shule/core/roster"
)

// seed resets the roster to a known state: the canonical staff list plus a
// generated student roster. Attendance is cleared since the old records
// reference ids that no longer exist. The whole reset is one transition so a
// failure never leaves the collections out of sync.
func (cli *commandLine) seed(studentCount int) error {
	return cli.transitions.ApplyTransition(roster.Transition{
		Students:     roster.GenerateStudents(studentCount),
		ReplaceStaff: true,
		Staff:        roster.CanonicalStaff(),
		ClearLedger:  true,
	})
}
