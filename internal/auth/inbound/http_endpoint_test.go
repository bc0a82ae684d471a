package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gnelabs/authgate/internal/auth/usecase"
	"github.com/gnelabs/authgate/internal/pkg/goerror"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
	"github.com/gnelabs/authgate/internal/pkg/router"
)

type fakeUC struct {
	loginOut *usecase.LoginOutput
	loginErr error

	verifyOut *usecase.LoginChallengeOutput
	verifyErr error

	gotLogin  *usecase.LoginInput
	gotVerify *usecase.LoginChallengeInput
}

func (f *fakeUC) Login(_ context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	f.gotLogin = &in
	return f.loginOut, f.loginErr
}

func (f *fakeUC) LoginChallenge(_ context.Context, in usecase.LoginChallengeInput) (*usecase.LoginChallengeOutput, error) {
	f.gotVerify = &in
	return f.verifyOut, f.verifyErr
}

func serve(t *testing.T, uc *fakeUC, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	ro := router.NewRouter(router.Config{Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(ro, uc)

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	return body
}

func TestLoginSuccess(t *testing.T) {
	uc := &fakeUC{loginOut: &usecase.LoginOutput{ChallengeID: "ch-123"}}

	rec := serve(t, uc, "/api/login", `{"username":"alice","password":"secret","sms":false}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["challenge_id"] != "ch-123" {
		t.Fatalf("unexpected challenge_id %v", body["challenge_id"])
	}
	if body["message"] != "Successfully generated challenge ID." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if uc.gotLogin == nil || uc.gotLogin.Username != "alice" || uc.gotLogin.Password != "secret" {
		t.Fatalf("usecase received %+v", uc.gotLogin)
	}
}

func TestLoginMissingParameters(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"username":"alice"}`,
		`{"username":"alice","password":"secret"}`,
		`{"password":"secret","sms":true}`,
		`not-json`,
		``,
	} {
		uc := &fakeUC{}
		rec := serve(t, uc, "/api/login", body)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
		got := decode(t, rec)
		if got["message"] != "No parameters specified or missing parameters." {
			t.Fatalf("body %q: unexpected message %v", body, got["message"])
		}
		if got["challenge_id"] != "" {
			t.Fatalf("body %q: expected empty challenge_id, got %v", body, got["challenge_id"])
		}
		if uc.gotLogin != nil {
			t.Fatalf("body %q: usecase should not be called", body)
		}
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	uc := &fakeUC{loginErr: goerror.NewBusiness("invalid username or password", goerror.CodeUnauthorized)}

	rec := serve(t, uc, "/api/login", `{"username":"alice","password":"wrong","sms":false}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Failed to login." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestLoginServerFailure(t *testing.T) {
	uc := &fakeUC{loginErr: goerror.NewServer(errors.New("store down"))}

	rec := serve(t, uc, "/api/login", `{"username":"alice","password":"secret","sms":false}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decode(t, rec); body["message"] != "Something went wrong server-side." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestLoginChallengeSuccess(t *testing.T) {
	uc := &fakeUC{verifyOut: &usecase.LoginChallengeOutput{AccessToken: "jwt-abc"}}

	rec := serve(t, uc, "/api/loginchallenge",
		`{"code":"123456","challenge":"ch-123","username":"alice","password":"secret","sms":false}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["2fa_login_successful"] != true {
		t.Fatalf("unexpected flag %v", body["2fa_login_successful"])
	}
	if body["message"] != "Successfully authenticated. Logging in." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["access_token"] != "jwt-abc" {
		t.Fatalf("unexpected access_token %v", body["access_token"])
	}
	if uc.gotVerify == nil || uc.gotVerify.ChallengeID != "ch-123" || uc.gotVerify.Code != "123456" {
		t.Fatalf("usecase received %+v", uc.gotVerify)
	}
}

func TestLoginChallengeMissingParameters(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"code":"123456","challenge":"ch-123"}`,
		`{"code":"123456","username":"alice","password":"secret","sms":false}`,
		`broken`,
	} {
		uc := &fakeUC{}
		rec := serve(t, uc, "/api/loginchallenge", body)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
		got := decode(t, rec)
		if got["message"] != "No parameters specified or missing parameters." {
			t.Fatalf("body %q: unexpected message %v", body, got["message"])
		}
		if got["2fa_login_successful"] != false {
			t.Fatalf("body %q: unexpected flag %v", body, got["2fa_login_successful"])
		}
		if uc.gotVerify != nil {
			t.Fatalf("body %q: usecase should not be called", body)
		}
	}
}

func TestLoginChallengeRejected(t *testing.T) {
	uc := &fakeUC{verifyErr: goerror.NewBusiness("challenge rejected", goerror.CodeUnauthorized)}

	rec := serve(t, uc, "/api/loginchallenge",
		`{"code":"000000","challenge":"ch-123","username":"alice","password":"secret","sms":false}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["2fa_login_successful"] != false {
		t.Fatalf("unexpected flag %v", body["2fa_login_successful"])
	}
	if body["message"] != "Failed to authenticate." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if _, present := body["access_token"]; present {
		t.Fatalf("access_token must not be present on failure: %v", body)
	}
}

func TestLoginChallengeServerFailure(t *testing.T) {
	uc := &fakeUC{verifyErr: goerror.NewServer(errors.New("store down"))}

	rec := serve(t, uc, "/api/loginchallenge",
		`{"code":"123456","challenge":"ch-123","username":"alice","password":"secret","sms":false}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decode(t, rec); body["message"] != "Something went wrong server-side." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}
