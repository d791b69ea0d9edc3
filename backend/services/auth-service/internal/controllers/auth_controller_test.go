package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

type stubAuth struct {
	loginErr   error
	refreshErr error
	calls      int
}

func (s *stubAuth) Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error) {
	s.calls++
	return &models.User{ID: uuid.New(), Email: req.Email, Name: req.Name}, nil
}

func (s *stubAuth) Login(ctx context.Context, req dtos.LoginRequest, ip string) (*dtos.LoginResponse, error) {
	s.calls++
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dtos.LoginResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubAuth) Refresh(ctx context.Context, token string) (*dtos.RefreshTokenResponse, error) {
	s.calls++
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return &dtos.RefreshTokenResponse{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func (s *stubAuth) Logout(ctx context.Context, token string) error { s.calls++; return nil }

func (s *stubAuth) Me(ctx context.Context, sess middleware.Session) (*models.User, error) {
	s.calls++
	return &models.User{ID: sess.UserID}, nil
}

func do(ctx context.Context, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, utils.ErrorResponse) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h(rec, req)
	var er utils.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	return rec, er
}

func TestRegister_ValidationHappensBeforeService(t *testing.T) {
	stub := &stubAuth{}
	c := NewAuthController(stub)

	rec, er := do(context.Background(), c.Register, `{"name":"A","email":"not-an-email","phone_number":"123","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, utils.ErrCodeValidation, er.Code)

	rec, er = do(context.Background(), c.Register, `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, utils.ErrCodeInvalidPayload, er.Code)
	require.Zero(t, stub.calls)

	rec, _ = do(context.Background(), c.Register, `{"name":"Ama","email":"ama@example.com","phone_number":"+233201234567","password":"longenough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestLogin_ErrorMapping(t *testing.T) {
	body := `{"email":"ama@example.com","password":"x"}`
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{utils.ErrInvalidCredentials, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials},
		{utils.ErrRateLimitExceeded, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded},
	}
	for _, tc := range cases {
		c := NewAuthController(&stubAuth{loginErr: tc.err})
		rec, er := do(context.Background(), c.Login, body)
		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, tc.code, er.Code)
	}
}

func TestRefresh_ExpiredMapsToTokenExpired(t *testing.T) {
	c := NewAuthController(&stubAuth{refreshErr: services.ErrRefreshTokenExpired})
	rec, er := do(context.Background(), c.Refresh, `{"refresh_token":"r"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, utils.ErrCodeTokenExpired, er.Code)
}

func TestMe_RequiresSession(t *testing.T) {
	c := NewAuthController(&stubAuth{})
	rec, _ := do(context.Background(), c.Me, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	id := uuid.New()
	rec, _ = do(middleware.WithSession(context.Background(), middleware.Session{UserID: id}), c.Me, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var u dtos.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	require.Equal(t, id, u.ID)
}
