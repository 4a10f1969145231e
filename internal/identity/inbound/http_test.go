package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/safemeet/internal/identity/entity"
	"github.com/shandysiswandi/safemeet/internal/identity/usecase"
	"github.com/shandysiswandi/safemeet/internal/pkg/config"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	"github.com/shandysiswandi/safemeet/internal/pkg/instrument"
	"github.com/shandysiswandi/safemeet/internal/pkg/jwt"
	"github.com/shandysiswandi/safemeet/internal/pkg/router"
)

type stubUC struct {
	sendIn    usecase.OTPSendInput
	verifyErr error
	signupErr error
	loginErr  error
}

func (s *stubUC) OTPSend(_ context.Context, in usecase.OTPSendInput) (*usecase.OTPSendOutput, error) {
	s.sendIn = in
	return &usecase.OTPSendOutput{Channel: entity.ChannelEmail, ExpiresIn: 5 * time.Minute}, nil
}

func (s *stubUC) OTPVerify(context.Context, usecase.OTPVerifyInput) error { return s.verifyErr }

func (s *stubUC) Signup(context.Context, usecase.SignupInput) error { return s.signupErr }

func (s *stubUC) Login(context.Context, usecase.LoginInput) (*usecase.LoginOutput, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &usecase.LoginOutput{AccessToken: "tok"}, nil
}

func (s *stubUC) Profile(ctx context.Context) (*entity.Profile, error) {
	clm := jwt.GetAuth(ctx)
	return &entity.Profile{ID: clm.UserID, Identifier: clm.Identifier, State: entity.VerificationVerified}, nil
}

type staticUUID string

func (s staticUUID) Generate() string { return string(s) }

type stubJWT struct{}

func (stubJWT) Generate(int64, string) (string, error) { return "good", nil }

func (stubJWT) Verify(token string) (jwt.Claims, error) {
	if token != "good" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	return jwt.Claims{UserID: 5, Identifier: "a@x.com"}, nil
}

func newServer(t *testing.T, uc uc) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  env: production\n"))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       staticUUID("cid"),
		JWT:        stubJWT{},
		Instrument: instrument.NewNoop(),
		Public:     PublicRoutes,
	})
	RegisterHTTPEndpoint(r, uc)

	return r
}

func do(t *testing.T, r http.Handler, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, out
}

func TestSendOTPEndpoint(t *testing.T) {
	uc := &stubUC{}
	r := newServer(t, uc)

	code, body := do(t, r, http.MethodPost, "/api/send-otp", `{"identifier":"a@x.com","deliveryToken":"d1"}`, "")
	if code != http.StatusOK || body["success"] != true || body["message"] != "OTP sent" {
		t.Fatalf("status = %d body = %v", code, body)
	}
	if uc.sendIn.Identifier != "a@x.com" || uc.sendIn.DeliveryToken != "d1" {
		t.Fatalf("input = %+v", uc.sendIn)
	}
	data := body["data"].(map[string]any)
	if data["channel"] != "email" || data["expiresInSeconds"] != float64(300) {
		t.Fatalf("data = %v", data)
	}

	code, body = do(t, r, http.MethodPost, "/api/send-otp", `{"identifier":`, "")
	if code != http.StatusBadRequest || body["success"] != false {
		t.Fatalf("malformed body status = %d body = %v", code, body)
	}
}

func TestRejectionsAnswerOK(t *testing.T) {
	uc := &stubUC{
		verifyErr: goerror.NewRejection("Invalid or expired OTP"),
		signupErr: goerror.NewRejection("OTP not verified"),
		loginErr:  goerror.NewRejection("Invalid credentials"),
	}
	r := newServer(t, uc)

	tests := []struct {
		path string
		body string
		msg  string
	}{
		{path: "/api/verify-otp", body: `{"identifier":"a@x.com","code":"000000"}`, msg: "Invalid or expired OTP"},
		{path: "/api/signup", body: `{"identifier":"a@x.com","password":"password-1"}`, msg: "OTP not verified"},
		{path: "/api/login", body: `{"identifier":"a@x.com","password":"password-1"}`, msg: "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := do(t, r, http.MethodPost, tt.path, tt.body, "")
			if code != http.StatusOK || body["success"] != false || body["message"] != tt.msg {
				t.Fatalf("status = %d body = %v", code, body)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	r := newServer(t, &stubUC{})

	code, body := do(t, r, http.MethodPost, "/api/login", `{"identifier":"a@x.com","password":"password-1"}`, "")
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("status = %d body = %v", code, body)
	}
	data := body["data"].(map[string]any)
	if data["accessToken"] != "tok" || data["tokenType"] != "Bearer" {
		t.Fatalf("data = %v", data)
	}
}

func TestProfileEndpoint(t *testing.T) {
	r := newServer(t, &stubUC{})

	code, _ := do(t, r, http.MethodGet, "/api/profile", "", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d", code)
	}

	code, body := do(t, r, http.MethodGet, "/api/profile", "", "good")
	if code != http.StatusOK {
		t.Fatalf("status = %d body = %v", code, body)
	}
	data := body["data"].(map[string]any)
	if data["id"] != "5" || data["identifier"] != "a@x.com" || data["verificationState"] != "VERIFIED" {
		t.Fatalf("data = %v", data)
	}
}
