package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/roster"
)

type staffApi struct {
	deps *ServerDeps
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := staffApi{deps: deps}

	sg := g.Group("/staff")

	// un-authed endpoints
	// TODO: rate limit `/login`
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.PUT("/pin", api.changePIN)
	ag.GET("", api.query, adminMiddleware())
	ag.POST("", api.create, adminMiddleware())
	ag.GET("/roles", api.queryRoles, adminMiddleware())

	dg := ag.Group("/:id", adminMiddleware())
	dg.DELETE("", api.destroy)
	dg.PUT("/pin", api.resetPIN)
}

func (api *staffApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := authenticate(data.ID, data.PIN, api.deps.RosterSvc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *staffApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.RosterSvc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *staffApi) changePIN(ctx echo.Context) error {
	var data ChangePINRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePINRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.deps.RosterSvc.UpdatePIN(claims.Subject, data.PIN); err != nil {
		return errors.Wrap(err, "updating PIN")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "PIN has been updated."})
}

func (api *staffApi) query(ctx echo.Context) error {
	staff, err := api.deps.RosterSvc.QueryAllStaff()
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}
	if staff == nil {
		staff = []roster.Staff{}
	}
	return ctx.JSON(http.StatusOK, staff)
}

func (api *staffApi) create(ctx echo.Context) error {
	var data roster.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	s, err := api.deps.RosterSvc.AddStaff(roster.Staff{
		ID:            uuid.New().String(),
		Name:          data.Name,
		Role:          data.Role,
		AssignedClass: data.AssignedClass,
		PIN:           data.PIN,
	})
	if err != nil {
		return errors.Wrap(err, "enrolling staff")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *staffApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// Say No to Suicide! ctxStaff cannot delete themselves
	if ctx.Param("id") == claims.Subject {
		return errHttpForbidden
	}

	if err := api.deps.RosterSvc.RemoveStaff(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing staff")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *staffApi) resetPIN(ctx echo.Context) error {
	if _, err := api.deps.RosterSvc.GetStaffByID(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding staff by ID")
	}
	if err := api.deps.RosterSvc.UpdatePIN(ctx.Param("id"), roster.DefaultPIN); err != nil {
		return errors.Wrap(err, "resetting PIN")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "PIN has been reset to the default."})
}

func (api *staffApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, roster.Roles)
}

type studentApi struct {
	deps *ServerDeps
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := studentApi{deps: deps}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, adminMiddleware())
	sg.POST("/bulk", api.createBulk, adminMiddleware())
	sg.POST("/regenerate", api.regenerate, adminMiddleware())
	sg.DELETE("", api.wipe, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.deps.RosterSvc.QueryAllStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []roster.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data roster.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	s, err := api.deps.RosterSvc.AddStudent(roster.Student{
		ID:    uuid.New().String(),
		Name:  data.Name,
		Grade: data.Grade,
	})
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) createBulk(ctx echo.Context) error {
	var data BulkEnrollmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkEnrollmentRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	students := make([]roster.Student, len(data.Students))
	for i, ns := range data.Students {
		students[i] = roster.Student{
			ID:    uuid.New().String(),
			Name:  ns.Name,
			Grade: ns.Grade,
		}
	}
	if err := api.deps.RosterSvc.AddStudentsBulk(students); err != nil {
		return errors.Wrap(err, "enrolling students")
	}
	return ctx.JSON(http.StatusCreated, students)
}

func (api *studentApi) regenerate(ctx echo.Context) error {
	var data RegenerateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegenerateRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	changed, err := api.deps.RosterSvc.Regenerate(data.Count)
	if err != nil {
		return errors.Wrap(err, "regenerating students")
	}
	return ctx.JSON(http.StatusOK, changed)
}

func (api *studentApi) wipe(ctx echo.Context) error {
	changed, err := api.deps.RosterSvc.WipeStudents()
	if err != nil {
		return errors.Wrap(err, "wiping students")
	}
	return ctx.JSON(http.StatusOK, changed)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.deps.RosterSvc.RemoveStudent(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type rosterApi struct {
	deps *ServerDeps
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := rosterApi{deps: deps}

	rg := g.Group("/roster", jwt)
	rg.GET("/grade-groups", api.queryGradeGroups)
	rg.POST("/promote", api.promote, adminMiddleware())
	rg.DELETE("", api.wipeAll, adminMiddleware())
}

func (api *rosterApi) queryGradeGroups(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, roster.GradeGroups)
}

func (api *rosterApi) promote(ctx echo.Context) error {
	var data PromoteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PromoteRequest")
	}

	res, err := api.deps.RosterSvc.Promote(data.MoveTeachersWithClass)
	if err != nil {
		return errors.Wrap(err, "promoting students")
	}

	api.deps.EmailSvc.SendMessages(promotionEmail(res))
	return ctx.JSON(http.StatusOK, res)
}

func (api *rosterApi) wipeAll(ctx echo.Context) error {
	changed, err := api.deps.RosterSvc.WipeAll()
	if err != nil {
		return errors.Wrap(err, "wiping roster")
	}
	return ctx.JSON(http.StatusOK, changed)
}

// promotionEmail summarizes a completed academic-year promotion for the
// school administrator.
func promotionEmail(res roster.PromotionResult) *core.EmailMessage {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "The academic year promotion has completed.\n\n")
	_, _ = fmt.Fprintf(body, "Students promoted: %d\n", res.Promoted)
	_, _ = fmt.Fprintf(body, "Students graduated: %d\n", res.Graduated)
	_, _ = fmt.Fprintf(body, "Teachers moved with their class: %d\n", res.MovedTeachers)
	if len(res.UnassignedTeachers) > 0 {
		_, _ = fmt.Fprint(body, "\nTeachers now unassigned (their class graduated):\n")
		for _, t := range res.UnassignedTeachers {
			_, _ = fmt.Fprintf(body, "  - %s\n", t.Name)
		}
	}
	return &core.EmailMessage{
		To:          []mail.Address{core.Conf.AdminEmail},
		Subject:     "Academic year promotion completed",
		TextContent: body.String(),
	}
}

type (
	LoginRequest struct {
		ID  string `json:"id" validate:"required"`
		PIN string `json:"pin" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	ChangePINRequest struct {
		PIN string `json:"pin" validate:"required,len=4,numeric"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	BulkEnrollmentRequest struct {
		Students []roster.NewStudent `json:"students" validate:"required,min=1,dive"`
	}

	RegenerateRequest struct {
		Count int `json:"count" validate:"required,min=1"`
	}

	PromoteRequest struct {
		MoveTeachersWithClass bool `json:"move_teachers_with_class"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.ID = core.CleanString(lr.ID)
	return validate.Struct(lr)
}

func (cr *ChangePINRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}

func (br *BulkEnrollmentRequest) Validate(validate *validator.Validate) error {
	for i := range br.Students {
		br.Students[i].Name = core.CleanString(br.Students[i].Name)
	}
	return validate.Struct(br)
}

func (rr *RegenerateRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(rr)
}
