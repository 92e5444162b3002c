package attendance

import (
	"time"

	"github.com/trezcool/shule/core/roster"
)

type EntityType string

const (
	EntityStudent EntityType = "STUDENT"
	EntityStaff   EntityType = "STAFF"
)

type Status string

const (
	// Students may hold both a half-day and a full-day mark for the same
	// date; the two states are independent.
	StatusHalfDay Status = "HALF_DAY"
	StatusFullDay Status = "FULL_DAY"

	// Staff are simply present.
	StatusPresent Status = "PRESENT"
)

// DateLayout is the calendar-day format used throughout the ledger.
const DateLayout = "2006-01-02"

// DateOf returns t's calendar day in DateLayout.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Record is a single immutable attendance mark. Date is the logical day the
// mark applies to: always the current day at mark time, regardless of which
// day's roster view is open. Grade is a snapshot of the student's grade at
// mark time and is never re-derived.
type Record struct {
	ID         string            `json:"id"`
	EntityID   string            `json:"entity_id"`
	EntityName string            `json:"entity_name"`
	EntityType EntityType        `json:"entity_type"`
	Grade      roster.GradeLevel `json:"grade,omitempty"`
	Date       string            `json:"date"`
	Status     Status            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	MarkedBy   string            `json:"marked_by"`
}

// Key is the ledger's sole deduplication key.
type Key struct {
	EntityID string
	Date     string
	Status   Status
}

func (r Record) Key() Key {
	return Key{EntityID: r.EntityID, Date: r.Date, Status: r.Status}
}
