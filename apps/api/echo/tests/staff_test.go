package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core/roster"
	testutil "github.com/trezcool/shule/tests"
)

func login(t *testing.T, app http.Handler, id, pin string) (*echoapi.LoginResponse, int) {
	t.Helper()
	body := marchallObj(t, echoapi.LoginRequest{ID: id, PIN: pin})
	req, rec := newRequest(http.MethodPost, "/v1/staff/login", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return nil, rec.Code
	}
	var res echoapi.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	return &res, rec.Code
}

func Test_staffApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateStaff(t, staffRepo, "t1", "Tr. Mary", roster.RoleTeacher, roster.Grade1)

	t.Run("ok with default PIN", func(t *testing.T) {
		res, code := login(t, app, "t1", roster.DefaultPIN)
		if code != http.StatusOK {
			t.Fatalf("login code = %v, want %v", code, http.StatusOK)
		}
		if res.Token == "" {
			t.Error("login returned an empty token")
		}
	})

	tests := []httpTest{
		{
			name: "unknown id", body: marchallObj(t, echoapi.LoginRequest{ID: "lol", PIN: roster.DefaultPIN}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong PIN", body: marchallObj(t, echoapi.LoginRequest{ID: "t1", PIN: "0000"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "missing fields", body: marchallObj(t, echoapi.LoginRequest{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"id": "this field is required", "pin": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/staff/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_staffApi_query(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateStaff(t, staffRepo, "admin1", "School Manager", roster.RoleAdmin, "")
	teacher := testutil.CreateStaff(t, staffRepo, "t1", "Tr. Mary", roster.RoleTeacher, roster.Grade1)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Admin required", token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "Get all", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallList(t, admin, teacher)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/staff", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_staffApi_create(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateStaff(t, staffRepo, "admin1", "School Manager", roster.RoleAdmin, "")
	testutil.CreateStaff(t, staffRepo, "t1", "Tr. Mary", roster.RoleTeacher, roster.Grade1)
	adminToken := getToken(t, admin)

	t.Run("enrolling a class teacher unassigns the incumbent", func(t *testing.T) {
		body := marchallObj(t, roster.NewStaff{Name: "Tr. Alice", Role: roster.RoleTeacher, AssignedClass: roster.Grade1})
		req, rec := newAuthRequest(http.MethodPost, "/v1/staff", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		incumbent, err := staffRepo.GetStaffByID("t1")
		if err != nil {
			t.Fatalf("the incumbent was removed: %v", err)
		}
		if !incumbent.IsGeneralStaff() {
			t.Errorf("incumbent = %+v, want general staff", incumbent)
		}
	})

	t.Run("new staff get the default PIN", func(t *testing.T) {
		body := marchallObj(t, roster.NewStaff{Name: "Tr. Kevin", Role: roster.RoleTeacher})
		req, rec := newAuthRequest(http.MethodPost, "/v1/staff", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var s roster.Staff
		if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if _, code := login(t, app, s.ID, roster.DefaultPIN); code != http.StatusOK {
			t.Errorf("login with the default PIN failed with code %v", code)
		}
	})

	tests := []httpTest{
		{
			name: "invalid role", body: marchallObj(t, roster.NewStaff{Name: "X", Role: roster.Role("JANITOR")}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "must be a valid staff role"}),
		},
		{
			name: "invalid class", body: marchallObj(t, roster.NewStaff{Name: "X", Role: roster.RoleTeacher, AssignedClass: roster.GradeLevel("Grade 8")}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"assigned_class": "must be a valid grade level"}),
		},
		{
			name: "invalid PIN", body: marchallObj(t, roster.NewStaff{Name: "X", Role: roster.RoleTeacher, PIN: "12a"}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/staff", adminToken, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %v, want %v: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_staffApi_changePIN(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateStaff(t, staffRepo, "t1", "Tr. Mary", roster.RoleTeacher, roster.Grade1)
	token := getToken(t, teacher)

	body := marchallObj(t, echoapi.ChangePINRequest{PIN: "9876"})
	req, rec := newAuthRequest(http.MethodPut, "/v1/staff/pin", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	if _, code := login(t, app, "t1", roster.DefaultPIN); code == http.StatusOK {
		t.Error("login with the old PIN still succeeds")
	}
	if _, code := login(t, app, "t1", "9876"); code != http.StatusOK {
		t.Errorf("login with the new PIN failed with code %v", code)
	}

	t.Run("PIN format is enforced", func(t *testing.T) {
		body := marchallObj(t, echoapi.ChangePINRequest{PIN: "12345"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/staff/pin", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusBadRequest)
		}
	})
}

func Test_staffApi_resetPIN(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateStaff(t, staffRepo, "admin1", "School Manager", roster.RoleAdmin, "")
	teacher := testutil.CreateStaff(t, staffRepo, "t1", "Tr. Mary", roster.RoleTeacher, roster.Grade1)
	adminToken := getToken(t, admin)

	// teacher sets a custom PIN first
	body := marchallObj(t, echoapi.ChangePINRequest{PIN: "9876"})
	req, rec := newAuthRequest(http.MethodPut, "/v1/staff/pin", getToken(t, teacher), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("changing PIN failed: %s", rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodPut, "/v1/staff/t1/pin", adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if _, code := login(t, app, "t1", roster.DefaultPIN); code != http.StatusOK {
		t.Errorf("login with the default PIN failed with code %v", code)
	}

	t.Run("unknown staff", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/staff/lol/pin", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_staffApi_destroy(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateStaff(t, staffRepo, "admin1", "School Manager", roster.RoleAdmin, "")
	testutil.CreateStaff(t, staffRepo, "t1", "Tr. Mary", roster.RoleTeacher, roster.Grade1)
	adminToken := getToken(t, admin)

	t.Run("cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/staff/admin1", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/staff/t1", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v, want %v: %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		if _, err := staffRepo.GetStaffByID("t1"); err == nil {
			t.Error("staff member still present after delete")
		}
	})
}

func Test_staffApi_queryRoles(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateStaff(t, staffRepo, "admin1", "School Manager", roster.RoleAdmin, "")

	tt := httpTest{
		name: "Get roles", token: getToken(t, admin),
		wantCode: http.StatusOK, wantData: marchallObj(t, roster.Roles),
	}
	req, rec := newAuthRequest(http.MethodGet, "/v1/staff/roles", tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
