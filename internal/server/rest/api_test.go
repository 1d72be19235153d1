package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/cryptox"
	"github.com/dmitrijs2005/projecthub/internal/logging"
	"github.com/dmitrijs2005/projecthub/internal/metrics"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/users"
	"github.com/dmitrijs2005/projecthub/internal/server/services"
	"github.com/dmitrijs2005/projecthub/internal/server/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type testAPI struct {
	e    *echo.Echo
	gate *auth.Gate
}

func newTestAPI(t *testing.T, limiter *RateLimiter) *testAPI {
	t.Helper()

	issuer, err := auth.NewIssuer([]byte("rest-secret"), time.Hour)
	require.NoError(t, err)
	revs := revocations.NewMemoryRepository()

	reg, m := metrics.NewRegistry()
	gate := auth.NewGate(issuer, revs, auth.WithGateMetrics(m))

	creds, err := services.NewCredentialStore(users.NewMemoryRepository(),
		cryptox.NewPasswordHasher(cryptox.Argon2Params{Memory: 1024, Iterations: 1, Threads: 1, SaltLength: 16, KeyLength: 32}),
		time.Second)
	require.NoError(t, err)
	svc := services.NewUserService(creds, issuer, revs, services.WithMetrics(m))

	e := NewRouter(RouterConfig{
		Logger:   logging.NewDiscard(),
		Users:    svc,
		Gate:     gate,
		Pipeline: validation.NewPipeline(validation.DefaultMinPasswordLength),
		Gatherer: reg,
		Limiter:  limiter,
	})
	return &testAPI{e: e, gate: gate}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- scenarios ---

func TestScenario_RegisterProfileLogoutProfile(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/register", "", credentials{"a@x.com", "abcde"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[authResponse](t, rec)
	require.NotEmpty(t, reg.Token)
	require.NotNil(t, reg.ExpiresAt)
	t1 := reg.Token

	rec = api.do(t, http.MethodGet, "/profile", t1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", decode[profileResponse](t, rec).User.Email)

	rec = api.do(t, http.MethodGet, "/logout", t1, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/profile", t1, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decode[errorResponse](t, rec).Error)

	// a revoked token cannot reach logout again either
	rec = api.do(t, http.MethodGet, "/logout", t1, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScenario_RegisterReportsAllFieldErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/register", "", credentials{"bad", "ab"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	ve := decode[common.ValidationError](t, rec)
	assert.Equal(t, []common.FieldError{
		{Field: "email", Message: "Email is not valid"},
		{Field: "password", Message: "Password is too short"},
	}, ve.Fields)
}

// --- endpoint behavior ---

func TestRegister_Duplicate(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/register", "", credentials{"a@x.com", "abcde"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/register", "", credentials{"A@X.com", "other"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_BadBody(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/register", "", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode[errorResponse](t, rec).Error)
}

func TestRegister_NeverReturnsPasswordHash(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/register", "", credentials{"a@x.com", "abcde"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "argon2")
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
}

func TestLogin_FailuresLookAlike(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/register", "", credentials{"a@x.com", "abcde"})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrong := api.do(t, http.MethodPost, "/login", "", credentials{"a@x.com", "nope!"})
	unknown := api.do(t, http.MethodPost, "/login", "", credentials{"ghost@x.com", "abcde"})

	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "invalid email or password", decode[errorResponse](t, wrong).Error)
}

func TestLogin_Success(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/register", "", credentials{"a@x.com", "abcde"})
	require.Equal(t, http.StatusCreated, rec.Code)
	uid := decode[authResponse](t, rec).User.ID

	rec = api.do(t, http.MethodPost, "/login", "", credentials{"a@x.com", "abcde"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[authResponse](t, rec)

	s, err := api.gate.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, uid, s.UserID)
}

func TestProtected_RejectionsLookAlike(t *testing.T) {
	api := newTestAPI(t, nil)

	headers := []string{"", "Bearer", "Basic abc", "Bearer not-a-token", "Bearer a.b.c"}
	var bodies []string
	for _, h := range headers {
		req := httptest.NewRequest(http.MethodGet, "/all", nil)
		if h != "" {
			req.Header.Set(echo.HeaderAuthorization, h)
		}
		rec := httptest.NewRecorder()
		api.e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, h)
		bodies = append(bodies, rec.Body.String())
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}
}

func TestAll_ListsUsers(t *testing.T) {
	api := newTestAPI(t, nil)

	var token string
	for i := 0; i < 3; i++ {
		rec := api.do(t, http.MethodPost, "/register", "", credentials{fmt.Sprintf("u%d@x.com", i), "abcde"})
		require.Equal(t, http.StatusCreated, rec.Code)
		token = decode[authResponse](t, rec).Token
	}

	rec := api.do(t, http.MethodGet, "/all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[usersResponse](t, rec).Users, 3)
}

type unavailableGate struct{}

func (unavailableGate) Authenticate(context.Context, string) (*auth.Session, error) {
	return nil, fmt.Errorf("%w: redis down", common.ErrStoreUnavailable)
}

func TestProtected_StoreUnavailable(t *testing.T) {
	e := NewRouter(RouterConfig{
		Logger:   logging.NewDiscard(),
		Gate:     unavailableGate{},
		Pipeline: validation.NewPipeline(0),
	})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer x")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	api.do(t, http.MethodPost, "/login", "", credentials{"ghost@x.com", "abcde"})

	rec = api.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `projecthub_logins_total{result="invalid"} 1`)
}

func TestRateLimit_CredentialEndpoints(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := newTestAPI(t, NewRateLimiter(ctx, 1, 2))

	for i := 0; i < 2; i++ {
		rec := api.do(t, http.MethodPost, "/login", "", credentials{"ghost@x.com", "abcde"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := api.do(t, http.MethodPost, "/login", "", credentials{"ghost@x.com", "abcde"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// the gate-protected routes are not limited
	rec = api.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
