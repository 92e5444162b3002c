package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Action identifies a marking context with its own daily window.
type Action string

const (
	ActionTeacherSignIn  Action = "teacher-sign-in"
	ActionStudentHalfDay Action = "student-half-day"
	ActionStudentFullDay Action = "student-full-day"
)

// ActionFor maps a student mark status to its window action; staff marks use
// ActionTeacherSignIn.
func ActionFor(status Status) Action {
	if status == StatusFullDay {
		return ActionStudentFullDay
	}
	return ActionStudentHalfDay
}

// Window is a daily recurring interval in minutes of day, inclusive on both
// ends.
type Window struct {
	Start int
	End   int
}

func (w Window) Contains(minute int) bool {
	return minute >= w.Start && minute <= w.End
}

func parseMinuteOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, errors.Errorf("malformed time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, errors.Errorf("malformed hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, errors.Errorf("malformed minute in %q", s)
	}
	return h*60 + m, nil
}

// ParseWindow parses "HH:MM" bounds into a Window. Returning an error here
// is a startup-time configuration failure, never a runtime one.
func ParseWindow(times core.WindowTimes) (Window, error) {
	start, err := parseMinuteOfDay(times.Start)
	if err != nil {
		return Window{}, errors.Wrap(err, "window start")
	}
	end, err := parseMinuteOfDay(times.End)
	if err != nil {
		return Window{}, errors.Wrap(err, "window end")
	}
	if end < start {
		return Window{}, errors.Errorf("window end %q before start %q", times.End, times.Start)
	}
	return Window{Start: start, End: end}, nil
}

// WindowPolicy decides whether a marking action is permitted at a given
// wall-clock instant. It is pure: the clock is always an argument and the
// policy never reads time.Now itself.
type WindowPolicy struct {
	windows map[Action]Window
}

func NewWindowPolicy(conf core.AttendanceConfig) (*WindowPolicy, error) {
	windows := make(map[Action]Window, 3)
	for action, times := range map[Action]core.WindowTimes{
		ActionTeacherSignIn:  conf.TeacherSignIn,
		ActionStudentHalfDay: conf.StudentHalfDay,
		ActionStudentFullDay: conf.StudentFullDay,
	} {
		w, err := ParseWindow(times)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("parsing %s window", action))
		}
		windows[action] = w
	}
	return &WindowPolicy{windows: windows}, nil
}

func (p *WindowPolicy) Window(action Action) (Window, bool) {
	w, ok := p.windows[action]
	return w, ok
}

// CanMark reports whether action is currently permitted. forDate must be
// now's calendar day: historical dates are read-only and always denied,
// whatever the minute of day.
func (p *WindowPolicy) CanMark(action Action, now time.Time, forDate string) bool {
	w, ok := p.windows[action]
	if !ok {
		return false
	}
	if DateOf(now) != forDate {
		return false
	}
	return w.Contains(minuteOfDay(now))
}

// TeacherLate classifies a sign-in timestamp against the teacher window's
// end boundary. A mark recorded past the end is late even though the window
// being closed would have prevented it: the classification is independent of
// availability.
func (p *WindowPolicy) TeacherLate(ts time.Time) bool {
	return minuteOfDay(ts) > p.windows[ActionTeacherSignIn].End
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
