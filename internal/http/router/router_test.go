package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gig-marketplace/internal/config"
	"github.com/ignatzorin/gig-marketplace/internal/http/middleware"
	"github.com/ignatzorin/gig-marketplace/internal/http/router"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/service"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/gig"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/hire"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	engine *gin.Engine
}

func newTestServer(t *testing.T, rateLimit int64) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Discard()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitLimit:  rateLimit,
		RateLimitPeriod: time.Minute,
	}

	store := memory.New()
	cache := service.NewCacheService(ctx, time.Minute)
	authService := service.NewAuthService(store.Users(), service.NewTokenManager("router-test-secret-0123456789abcdef", time.Hour))

	authLimit, err := middleware.NewRateLimitStore(nil, "test:auth")
	require.NoError(t, err)
	bidLimit, err := middleware.NewRateLimitStore(nil, "test:bids")
	require.NoError(t, err)

	engine := router.SetupRouter(cfg, router.Deps{
		AuthHandler: handler.NewAuthHandler(authService, false),
		GigHandler: handler.NewGigHandler(
			gig.NewCreateGigUseCase(store.Gigs(), cache),
			gig.NewGetGigUseCase(store.Gigs()),
			gig.NewListOpenGigsUseCase(store.Gigs(), cache),
			gig.NewListMyGigsUseCase(store.Gigs()),
		),
		BidHandler: handler.NewBidHandler(
			bid.NewSubmitBidUseCase(store),
			bid.NewListBidsForGigUseCase(store.Gigs(), store.Bids()),
			bid.NewListBidsForFreelancerUseCase(store.Bids()),
			hire.NewHireUseCase(store, time.Second, cache),
		),
		HealthHandler:  handler.NewHealthHandler(store),
		Authenticator:  authService,
		AuthLimitStore: authLimit,
		BidLimitStore:  bidLimit,
	})

	return &testServer{engine: engine}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *testServer) register(t *testing.T, name, email, role string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

type gigData struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Owner  *struct {
		Name string `json:"name"`
	} `json:"owner"`
}

type bidData struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Freelancer *struct {
		Email string `json:"email"`
	} `json:"freelancer"`
	Gig *struct {
		Title string `json:"title"`
	} `json:"gig"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 100)

	w, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestHireFlow(t *testing.T) {
	s := newTestServer(t, 100)

	client := s.register(t, "Заказчик", "client@example.com", "client")
	f1 := s.register(t, "Первый", "f1@example.com", "freelancer")
	f2 := s.register(t, "Второй", "f2@example.com", "")

	w, env := s.do(t, http.MethodPost, "/api/gigs", client, map[string]interface{}{
		"title":       "Лендинг",
		"description": "Нужен лендинг для кофейни",
		"budget":      500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[gigData](t, env.Data)
	assert.Equal(t, "open", created.Status)

	w, env = s.do(t, http.MethodGet, "/api/gigs?search="+url.QueryEscape("кофейни"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	open := decode[[]gigData](t, env.Data)
	require.Len(t, open, 1)
	require.NotNil(t, open[0].Owner)
	assert.Equal(t, "Заказчик", open[0].Owner.Name)

	w, env = s.do(t, http.MethodPost, "/api/bids", f1, map[string]interface{}{
		"gig_id": created.ID, "message": "Сделаю за неделю", "bid_amount": 400,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b1 := decode[bidData](t, env.Data)
	assert.Equal(t, "pending", b1.Status)

	w, env = s.do(t, http.MethodPost, "/api/bids", f2, map[string]interface{}{
		"gig_id": created.ID, "message": "Сделаю за три дня", "bid_amount": 450,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b2 := decode[bidData](t, env.Data)

	w, env = s.do(t, http.MethodGet, "/api/bids/"+created.ID, f1, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, env = s.do(t, http.MethodGet, "/api/bids/"+created.ID, client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]bidData](t, env.Data)
	require.Len(t, listed, 2)
	for _, b := range listed {
		require.NotNil(t, b.Freelancer)
	}

	w, env = s.do(t, http.MethodPatch, "/api/bids/"+b1.ID+"/hire", f1, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodPatch, "/api/bids/"+b1.ID+"/hire", client, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	hired := decode[struct {
		Bid bidData `json:"bid"`
		Gig struct {
			Status string  `json:"status"`
			Budget float64 `json:"budget"`
		} `json:"gig"`
		RejectedCount int64 `json:"rejected_count"`
	}](t, env.Data)
	assert.Equal(t, "hired", hired.Bid.Status)
	assert.Equal(t, "assigned", hired.Gig.Status)
	assert.Equal(t, 500.0, hired.Gig.Budget)
	assert.Equal(t, int64(1), hired.RejectedCount)

	w, env = s.do(t, http.MethodPatch, "/api/bids/"+b2.ID+"/hire", client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	w, env = s.do(t, http.MethodGet, "/api/gigs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]gigData](t, env.Data))

	w, env = s.do(t, http.MethodGet, "/api/bids/my-bids/all", f2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]bidData](t, env.Data)
	require.Len(t, mine, 1)
	assert.Equal(t, "rejected", mine[0].Status)
	require.NotNil(t, mine[0].Gig)
	assert.Equal(t, "Лендинг", mine[0].Gig.Title)

	w, env = s.do(t, http.MethodGet, "/api/gigs/my-gigs", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	myGigs := decode[[]gigData](t, env.Data)
	require.Len(t, myGigs, 1)
	assert.Equal(t, "assigned", myGigs[0].Status)

	w, env = s.do(t, http.MethodPost, "/api/bids", s.register(t, "Третий", "f3@example.com", "freelancer"), map[string]interface{}{
		"gig_id": created.ID, "message": "Я тоже могу", "bid_amount": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestBids_DuplicateAndRoles(t *testing.T) {
	s := newTestServer(t, 100)

	client := s.register(t, "Заказчик", "client@example.com", "client")
	f1 := s.register(t, "Первый", "f1@example.com", "freelancer")

	w, _ := s.do(t, http.MethodPost, "/api/gigs", f1, map[string]interface{}{
		"title": "Нельзя", "description": "Фрилансер не размещает заказы", "budget": 10,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/gigs", client, map[string]interface{}{
		"title": "Логотип", "description": "Нужен логотип", "budget": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[gigData](t, env.Data)

	w, _ = s.do(t, http.MethodPost, "/api/bids", client, map[string]interface{}{
		"gig_id": created.ID, "message": "Сам себе", "bid_amount": 10,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	body := map[string]interface{}{"gig_id": created.ID, "message": "Готов", "bid_amount": 90}
	w, _ = s.do(t, http.MethodPost, "/api/bids", f1, body)
	require.Equal(t, http.StatusCreated, w.Code)

	body["message"] = "Другое сообщение"
	body["bid_amount"] = 80
	w, env = s.do(t, http.MethodPost, "/api/bids", f1, body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	w, env = s.do(t, http.MethodPost, "/api/bids", f1, map[string]interface{}{
		"gig_id": created.ID, "message": "Без суммы",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestInvalidFieldsAreValidationErrors(t *testing.T) {
	s := newTestServer(t, 100)

	client := s.register(t, "Заказчик", "client@example.com", "client")
	f1 := s.register(t, "Первый", "f1@example.com", "freelancer")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty title", map[string]interface{}{"title": "", "description": "Описание", "budget": 10}},
		{"missing description", map[string]interface{}{"title": "Логотип", "budget": 10}},
		{"budget over schema bound", map[string]interface{}{"title": "Логотип", "description": "Описание", "budget": 1e12}},
		{"budget below a cent", map[string]interface{}{"title": "Логотип", "description": "Описание", "budget": 0.004}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, "/api/gigs", client, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}

	w, env := s.do(t, http.MethodPost, "/api/gigs", client, map[string]interface{}{
		"title": "Логотип", "description": "Нужен логотип", "budget": 9999999999.99,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[gigData](t, env.Data)

	w, env = s.do(t, http.MethodPost, "/api/bids", f1, map[string]interface{}{
		"gig_id": created.ID, "message": "   ", "bid_amount": 90,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = s.do(t, http.MethodPost, "/api/bids", f1, map[string]interface{}{
		"gig_id": created.ID, "message": "Готов", "bid_amount": 1e10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestAuth_CookieAndErrors(t *testing.T) {
	s := newTestServer(t, 100)
	s.register(t, "Анна", "anna@example.com", "client")

	w, _ := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@example.com", "password": "wrong-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ANNA@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tokenCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			tokenCookie = c
		}
	}
	require.NotNil(t, tokenCookie)
	assert.True(t, tokenCookie.HttpOnly)
	assert.Positive(t, tokenCookie.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(tokenCookie)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anna@example.com")
	assert.NotContains(t, rec.Body.String(), "password")

	w, _ = s.do(t, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, middleware.TokenCookie, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)

	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Анна", "email": "anna@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestRouting_Validation(t *testing.T) {
	s := newTestServer(t, 100)

	w, env := s.do(t, http.MethodGet, "/api/gigs/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)

	w, env = s.do(t, http.MethodGet, "/api/gigs/6f1c2a7e-8d9b-4c3a-9e2f-1a2b3c4d5e6f", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, _ = s.do(t, http.MethodGet, "/api/bids/my-bids/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestAuth_RateLimited(t *testing.T) {
	s := newTestServer(t, 2)

	login := map[string]string{"email": "nobody@example.com", "password": "secret123"}
	for i := 0; i < 2; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/auth/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w, env := s.do(t, http.MethodPost, "/api/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t, 100)

	req := httptest.NewRequest(http.MethodOptions, "/api/gigs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/gigs", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
