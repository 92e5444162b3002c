package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
)

// mocked in tests
var nowFunc = time.Now

type attendanceApi struct {
	deps *ServerDeps
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := attendanceApi{deps: deps}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark)
	ag.GET("", api.query)
	ag.GET("/stats", api.stats, adminMiddleware())
	ag.GET("/export", api.export, adminMiddleware())
	ag.DELETE("", api.clear, adminMiddleware())
}

// mark appends an attendance record for today. Historical dates cannot be
// written to; the mark is refused outside the action's daily window.
func (api *attendanceApi) mark(ctx echo.Context) error {
	var data MarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	now := nowFunc()
	today := attendance.DateOf(now)

	var record attendance.Record
	var action attendance.Action

	switch data.EntityType {
	case attendance.EntityStaff:
		// staff sign themselves in
		if data.EntityID != claims.Subject && !claims.IsAdmin {
			return errHttpForbidden
		}
		s, err := api.deps.RosterSvc.GetStaffByID(data.EntityID)
		if err != nil {
			return errors.Wrap(err, "finding staff by ID")
		}
		action = attendance.ActionTeacherSignIn
		record = attendance.Record{
			EntityID:   s.ID,
			EntityName: s.Name,
			EntityType: attendance.EntityStaff,
			Status:     attendance.StatusPresent,
		}

	case attendance.EntityStudent:
		if data.Status == attendance.StatusPresent {
			return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "students take a half-day or full-day mark"})
		}
		s, err := api.deps.RosterSvc.GetStudentByID(data.EntityID)
		if err != nil {
			return errors.Wrap(err, "finding student by ID")
		}
		// only the class teacher (or an admin) marks a class register
		if !claims.IsAdmin && claims.AssignedClass != string(s.Grade) {
			return errHttpForbidden
		}
		action = attendance.ActionFor(data.Status)
		record = attendance.Record{
			EntityID:   s.ID,
			EntityName: s.Name,
			EntityType: attendance.EntityStudent,
			Grade:      s.Grade,
			Status:     data.Status,
		}
	}

	if !api.deps.Policy.CanMark(action, now, today) {
		return windowClosedErr(api.deps.Policy, action)
	}

	record.ID = uuid.New().String()
	record.Date = today
	record.Timestamp = now
	record.MarkedBy = claims.Subject

	if err := api.deps.AttendanceSvc.Append(record); err != nil {
		return errors.Wrap(err, "appending attendance record")
	}
	return ctx.JSON(http.StatusCreated, api.recordResponse(record))
}

func (api *attendanceApi) query(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		date = attendance.DateOf(nowFunc())
	}

	records, err := api.deps.AttendanceSvc.Query(date)
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}

	res := make([]RecordResponse, len(records))
	for i, r := range records {
		res[i] = api.recordResponse(r)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		date = attendance.DateOf(nowFunc())
	}

	records, err := api.deps.AttendanceSvc.Query(date)
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	students, err := api.deps.RosterSvc.QueryAllStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	staff, err := api.deps.RosterSvc.QueryAllStaff()
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}

	return ctx.JSON(http.StatusOK, StatsResponse{
		DailyStats: attendance.BuildDailyStats(records, students, staff, date),
		Grades:     attendance.BuildGradeBreakdown(records, students, date),
	})
}

func (api *attendanceApi) export(ctx echo.Context) error {
	records, err := api.deps.AttendanceSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}

	buf := new(bytes.Buffer)
	if err := attendance.WriteCSV(buf, records); err != nil {
		return errors.Wrap(err, "exporting attendance records")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="attendance.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (api *attendanceApi) clear(ctx echo.Context) error {
	if err := api.deps.AttendanceSvc.Clear(); err != nil {
		return errors.Wrap(err, "clearing attendance records")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) recordResponse(r attendance.Record) RecordResponse {
	res := RecordResponse{Record: r}
	if r.EntityType == attendance.EntityStaff {
		res.Late = api.deps.Policy.TeacherLate(r.Timestamp)
	}
	return res
}

func windowClosedErr(policy *attendance.WindowPolicy, action attendance.Action) error {
	if w, ok := policy.Window(action); ok {
		return echo.NewHTTPError(http.StatusForbidden,
			fmt.Sprintf("marking window closed (allowed %s - %s)", clock(w.Start), clock(w.End)))
	}
	return echo.NewHTTPError(http.StatusForbidden, "marking window closed")
}

func clock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

type (
	MarkRequest struct {
		EntityID   string                `json:"entity_id" validate:"required"`
		EntityType attendance.EntityType `json:"entity_type" validate:"required,oneof=STUDENT STAFF"`
		Status     attendance.Status     `json:"status" validate:"required,oneof=HALF_DAY FULL_DAY PRESENT"`
	}

	RecordResponse struct {
		attendance.Record
		Late bool `json:"late,omitempty"`
	}

	StatsResponse struct {
		attendance.DailyStats
		Grades []attendance.GradeCount `json:"grades"`
	}
)

func (mr *MarkRequest) Validate(validate *validator.Validate) error {
	mr.EntityID = core.CleanString(mr.EntityID)
	return validate.Struct(mr)
}
