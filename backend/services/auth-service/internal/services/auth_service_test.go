package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-testhelpers"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// ---------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------

type memTokens struct {
	mu   sync.Mutex
	rows map[string]models.RefreshToken
}

func newMemTokens() *memTokens { return &memTokens{rows: map[string]models.RefreshToken{}} }

func (m *memTokens) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[utils.HashToken(t.Token)] = *t
	return nil
}

func (m *memTokens) GetRefreshToken(ctx context.Context, raw string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[utils.HashToken(raw)]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memTokens) RemoveRefreshToken(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.rows {
		if t.ID == id {
			delete(m.rows, k)
		}
	}
	return nil
}

func (m *memTokens) RemoveAllRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.rows {
		if t.UserID == userID {
			delete(m.rows, k)
		}
	}
	return nil
}

func (m *memTokens) CleanupExpiredRefreshTokens(ctx context.Context) error { return nil }

type memCounters struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *memCounters) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key] <= limit, nil
}

func (m *memCounters) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, key)
	return nil
}

type acceptAll struct{ email, phone bool }

func (a acceptAll) ValidEmail(ctx context.Context, email string) (bool, error) { return a.email, nil }
func (a acceptAll) ValidPhone(ctx context.Context, phone string) (bool, error) { return a.phone, nil }

type recordingMailer struct{ sent []string }

func (m *recordingMailer) Send(ctx context.Context, toName, toEmail, subject, plainText, html string) error {
	m.sent = append(m.sent, toEmail)
	return nil
}

type harness struct {
	store  *testhelpers.MemStore
	tokens *memTokens
	mailer *recordingMailer
	key    *rsa.PrivateKey
	svc    AuthService
}

func newHarness(t *testing.T, validator ContactValidator) *harness {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	h := &harness{
		store:  testhelpers.NewMemStore(),
		tokens: newMemTokens(),
		mailer: &recordingMailer{},
		key:    key,
	}
	jwtSvc := NewJWTService(key, h.tokens, time.Minute, time.Hour)
	limiter := NewRateLimiterService(&memCounters{counts: map[string]int{}}, 3, 3, time.Minute)
	h.svc = NewAuthService(h.store.UserRepo(), jwtSvc, limiter, validator, h.mailer)
	return h
}

var registerReq = dtos.RegisterRequest{
	Name:        "Ama Mensah",
	Email:       "Ama@Example.com ",
	PhoneNumber: "+233201234567",
	Password:    "s3cret-pass",
}

// ---------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------

func TestRegister_CreatesUserWithoutTenancy(t *testing.T) {
	h := newHarness(t, acceptAll{true, true})
	ctx := context.Background()

	u, err := h.svc.Register(ctx, registerReq)
	require.NoError(t, err)
	require.Equal(t, "ama@example.com", u.Email)
	require.Nil(t, u.TenancyID)
	require.NotEqual(t, registerReq.Password, u.PasswordHash)
	require.Equal(t, []string{"ama@example.com"}, h.mailer.sent)

	_, err = h.svc.Register(ctx, registerReq)
	require.ErrorIs(t, err, utils.ErrEmailExists)
}

func TestRegister_RejectsUndeliverableContacts(t *testing.T) {
	ctx := context.Background()

	h := newHarness(t, acceptAll{email: false, phone: true})
	_, err := h.svc.Register(ctx, registerReq)
	require.ErrorIs(t, err, utils.ErrInvalidEmail)

	h = newHarness(t, acceptAll{email: true, phone: false})
	_, err = h.svc.Register(ctx, registerReq)
	require.ErrorIs(t, err, utils.ErrInvalidPhone)
	require.Zero(t, h.store.Writes)
}

func TestLogin_IssuesVerifiableTokens(t *testing.T) {
	h := newHarness(t, acceptAll{true, true})
	ctx := context.Background()
	u, err := h.svc.Register(ctx, registerReq)
	require.NoError(t, err)

	resp, err := h.svc.Login(ctx, dtos.LoginRequest{Email: "ama@example.com", Password: registerReq.Password}, "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, u.ID, resp.User.ID)

	tok, err := middleware.ValidateToken(resp.AccessToken, &h.key.PublicKey)
	require.NoError(t, err)
	sub, err := tok.Claims.GetSubject()
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), sub)

	_, err = h.svc.Login(ctx, dtos.LoginRequest{Email: "ama@example.com", Password: "wrong"}, "10.0.0.1")
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHarness(t, acceptAll{true, true})
	ctx := context.Background()

	bad := dtos.LoginRequest{Email: "nobody@example.com", Password: "x"}
	for i := 0; i < 3; i++ {
		_, err := h.svc.Login(ctx, bad, "10.0.0.9")
		require.ErrorIs(t, err, utils.ErrInvalidCredentials)
	}
	_, err := h.svc.Login(ctx, bad, "10.0.0.9")
	require.ErrorIs(t, err, utils.ErrRateLimitExceeded)
}

func TestRefreshAndLogout(t *testing.T) {
	h := newHarness(t, acceptAll{true, true})
	ctx := context.Background()
	_, err := h.svc.Register(ctx, registerReq)
	require.NoError(t, err)
	login, err := h.svc.Login(ctx, dtos.LoginRequest{Email: "ama@example.com", Password: registerReq.Password}, "10.0.0.1")
	require.NoError(t, err)

	rotated, err := h.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	_, err = h.svc.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken, "old refresh token must be single use")

	require.NoError(t, h.svc.Logout(ctx, rotated.RefreshToken))
	require.NoError(t, h.svc.Logout(ctx, rotated.RefreshToken), "logout is idempotent")
	_, err = h.svc.Refresh(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_Expired(t *testing.T) {
	tokens := newMemTokens()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	svc := NewJWTService(key, tokens, time.Minute, time.Hour).(*jwtService)

	rt, err := svc.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = svc.RefreshToken(context.Background(), rt.Token)
	require.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestMe(t *testing.T) {
	h := newHarness(t, acceptAll{true, true})
	ctx := context.Background()
	u, err := h.svc.Register(ctx, registerReq)
	require.NoError(t, err)

	got, err := h.svc.Me(ctx, middleware.Session{UserID: u.ID})
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)

	_, err = h.svc.Me(ctx, middleware.Session{UserID: uuid.New()})
	require.ErrorIs(t, err, utils.ErrNotFound)
}
