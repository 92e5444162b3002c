package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/roster"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

var (
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator

	studentRepo roster.StudentRepository
	staffRepo   roster.StaffRepository
	attRepo     attendance.Repository
	rosterSvc   *roster.Service
	attSvc      *attendance.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	_ = os.Setenv("ENV", "TEST")
	_ = os.Setenv("TEST_DEBUG", "false") // structured error payloads, not debug dumps
	conf = core.NewConfig()

	validate = validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	roster.InitValidators(validate, translator)

	os.Exit(m.Run())
}

// setup builds a Server on fresh in-memory repos. An alternate attendance
// window config may be passed to control whether marking is open.
func setup(t *testing.T, windows ...core.AttendanceConfig) Server {
	db := inmemdb.NewDB()
	studentRepo = inmemdb.NewStudentRepository(db)
	staffRepo = inmemdb.NewStaffRepository(db)
	attRepo = inmemdb.NewAttendanceRepository(db)

	attSvc = attendance.NewService(attRepo)
	rosterSvc = roster.NewService(studentRepo, staffRepo, inmemdb.NewTransitionRepository(db), attSvc)

	attConf := conf.Attendance
	if len(windows) > 0 {
		attConf = windows[0]
	}
	policy, err := attendance.NewWindowPolicy(attConf)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	return NewServer(
		ServerDeps{
			Conf:           conf,
			Logger:         logger,
			RosterSvc:      rosterSvc,
			AttendanceSvc:  attSvc,
			Policy:         policy,
			EmailSvc:       emailsvc.NewConsoleServiceMock(),
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)
}

// openAllDay keeps every marking window open for the whole day so window
// gating never interferes with unrelated assertions.
func openAllDay() core.AttendanceConfig {
	w := core.WindowTimes{Start: "00:00", End: "23:59"}
	return core.AttendanceConfig{TeacherSignIn: w, StudentHalfDay: w, StudentFullDay: w}
}

// closedNow yields windows guaranteed to exclude the current minute.
func closedNow() core.AttendanceConfig {
	now := time.Now()
	var w core.WindowTimes
	if now.Hour() == 0 && now.Minute() < 3 {
		w = core.WindowTimes{Start: "23:57", End: "23:59"}
	} else {
		end := now.Add(-2 * time.Minute)
		w = core.WindowTimes{Start: "00:00", End: fmt.Sprintf("%02d:%02d", end.Hour(), end.Minute())}
	}
	return core.AttendanceConfig{TeacherSignIn: w, StudentHalfDay: w, StudentFullDay: w}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, s roster.Staff) string {
	claims := GetStaffClaims(s)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// nolint
func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
