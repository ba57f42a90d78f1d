package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
	"bank-records-api/internal/service"
)

type testServer struct {
	store  *kvstore.MemoryStore
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := kvstore.NewMemoryStore()
	session, err := service.OpenSession(context.Background(), store)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := service.NewBalanceEngine(session, logger)

	router := NewRouter(Handlers{
		Health:       NewHealthHandler(store, "memory", "test"),
		Customers:    NewCustomerHandler(service.NewCustomerService(session, logger), logger),
		Accounts:     NewAccountHandler(service.NewAccountService(session, logger), logger),
		Cards:        NewATMCardHandler(service.NewATMCardService(session, logger), logger),
		Transactions: NewTransactionHandler(service.NewTransactionService(session, engine, logger), logger),
		Idempotency:  repository.NewIdempotencyRepository(store, time.Hour),
	}, logger)

	return &testServer{store: store, router: router}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// seed creates customer 1, account 1 with the given balance and card 1.
func (s *testServer) seed(t *testing.T, balance string) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/v1/customers", `{"name":"Ada","email":"ada@example.com","phone":"555-0100"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/v1/accounts", `{"accountNumber":"ACC-1","customerId":1,"balance":"`+balance+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/v1/atm-cards", `{"cardNumber":"4000-1","accountId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[model.HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "memory", resp.Store.Backend)
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

type downStore struct{ *kvstore.MemoryStore }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler_StoreDown(t *testing.T) {
	h := NewHealthHandler(downStore{kvstore.NewMemoryStore()}, "redis", "test")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[model.HealthResponse](t, rec)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "connection refused", resp.Store.Error)
}

func TestCustomerHandler_CRUD(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/customers", `{"name":"Ada","email":"ada@example.com","phone":"555-0100"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Customer](t, rec)
	assert.Equal(t, int64(1), created.ID)

	rec = s.do(t, http.MethodPut, "/v1/customers/1", `{"name":"Ada L","email":"ada@example.com","phone":"555-0100"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada L", decode[model.Customer](t, rec).Name)

	rec = s.do(t, http.MethodGet, "/v1/customers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse[model.Customer]](t, rec)
	assert.Equal(t, 1, list.Count)

	rec = s.do(t, http.MethodDelete, "/v1/customers/1?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/customers/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/customers", `{"name":"Ada","email":"ada@example.com","phone":"1"}`)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		headers    []string
		wantStatus int
		wantCode   string
	}{
		{"invalid email", http.MethodPost, "/v1/customers", `{"name":"Bob","email":"nope","phone":"1"}`, nil, http.StatusBadRequest, model.ErrCodeValidation},
		{"malformed json", http.MethodPost, "/v1/customers", `{"name":`, nil, http.StatusBadRequest, model.ErrCodeInvalidInput},
		{"bad id", http.MethodGet, "/v1/customers/abc", "", nil, http.StatusBadRequest, model.ErrCodeInvalidInput},
		{"unknown id", http.MethodGet, "/v1/customers/42", "", nil, http.StatusNotFound, model.ErrCodeNotFound},
		{"delete without confirmation", http.MethodDelete, "/v1/customers/1", "", nil, http.StatusPreconditionRequired, model.ErrCodeNotConfirmed},
		{"confirm=false declines", http.MethodDelete, "/v1/customers/1?confirm=false", "", nil, http.StatusPreconditionRequired, model.ErrCodeNotConfirmed},
		{"unknown route", http.MethodGet, "/v1/branches", "", nil, http.StatusNotFound, model.ErrCodeNotFound},
		{"method not allowed", http.MethodPatch, "/v1/customers/1", "", nil, http.StatusMethodNotAllowed, model.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body, tt.headers...)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decode[model.ErrorResponse](t, rec).Code)
		})
	}

	// The customer survived the declined deletes.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/v1/customers/1", "").Code)
}

func TestDelete_ConfirmHeader(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "0")

	rec := s.do(t, http.MethodDelete, "/v1/atm-cards/1", "", "X-Confirm", "yes")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAccountHandler_DuplicateNumber(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")

	rec := s.do(t, http.MethodPost, "/v1/accounts", `{"accountNumber":"ACC-1","customerId":1}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[model.ErrorResponse](t, rec)
	assert.Equal(t, "This account number is already assigned.", resp.Error)
}

func TestATMCardHandler_DuplicateNumber(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")

	rec := s.do(t, http.MethodPost, "/v1/atm-cards", `{"cardNumber":"4000-1","accountId":1}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "This ATM card number is already assigned.", decode[model.ErrorResponse](t, rec).Error)
}

func TestTransactionHandler_SubmitAndReverse(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")

	rec := s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"deposit","amount":"40"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	submitted := decode[model.TransactionResponse](t, rec)
	require.NotNil(t, submitted.Balance)
	assert.Equal(t, "140", submitted.Balance.Balance.String())

	rec = s.do(t, http.MethodPost, "/v1/transactions/1/reverse", "")
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/transactions/1/reverse?confirm=true", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reversal := decode[model.ReversalResponse](t, rec)
	assert.True(t, reversal.Original.Reversed)
	assert.Equal(t, model.TransactionTypeReversal, reversal.Reversal.Type)

	rec = s.do(t, http.MethodPost, "/v1/transactions/1/reverse?confirm=true", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/accounts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "100", decode[model.Account](t, rec).Balance.String())

	rec = s.do(t, http.MethodGet, "/v1/transactions", "")
	list := decode[listResponse[model.TransactionView]](t, rec)
	assert.Equal(t, 2, list.Count)
}

func TestTransactionHandler_EditIsUnsupported(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")
	s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"withdrawal","amount":"10"}`)

	rec := s.do(t, http.MethodPut, "/v1/transactions/1", `{"atmCardId":1,"type":"withdrawal","amount":"99"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[model.ErrorResponse](t, rec)
	assert.Equal(t, model.ErrCodeUnsupported, resp.Code)
	assert.Equal(t, "Editing a transaction is not supported.", resp.Error)
}

func TestTransactionHandler_RejectsNonPositiveAmount(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")

	rec := s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"deposit","amount":"0"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "amount", decode[model.ErrorResponse](t, rec).Field)
}

func TestIdempotency_ReplaysResponse(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")
	body := `{"atmCardId":1,"type":"deposit","amount":"25"}`

	first := s.do(t, http.MethodPost, "/v1/transactions", body, IdempotencyHeader, "dep-1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(IdempotencyHitHeader))

	second := s.do(t, http.MethodPost, "/v1/transactions", body, IdempotencyHeader, "dep-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyHitHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// Only one deposit was applied.
	rec := s.do(t, http.MethodGet, "/v1/accounts/1", "")
	assert.Equal(t, "125", decode[model.Account](t, rec).Balance.String())
}

func TestIdempotency_KeyReusedWithDifferentBody(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")

	s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"deposit","amount":"25"}`, IdempotencyHeader, "dep-1")
	rec := s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"deposit","amount":"50"}`, IdempotencyHeader, "dep-1")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, model.ErrCodeConflict, decode[model.ErrorResponse](t, rec).Code)
}

func TestIdempotency_KeyReusedOnDifferentPath(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"deposit","amount":"10"}`).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"deposit","amount":"20"}`).Code)

	first := s.do(t, http.MethodPost, "/v1/transactions/1/reverse?confirm=true", "", IdempotencyHeader, "rev")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := s.do(t, http.MethodPost, "/v1/transactions/2/reverse?confirm=true", "", IdempotencyHeader, "rev")
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Empty(t, second.Header().Get(IdempotencyHitHeader))
	assert.Equal(t, model.ErrCodeConflict, decode[model.ErrorResponse](t, second).Code)

	// Transaction 2 was not reversed and only the first reversal moved the balance.
	rec := s.do(t, http.MethodGet, "/v1/transactions/2", "")
	assert.False(t, decode[model.TransactionView](t, rec).Reversed)
	rec = s.do(t, http.MethodGet, "/v1/accounts/1", "")
	assert.Equal(t, "120", decode[model.Account](t, rec).Balance.String())

	// A fresh key reverses transaction 2.
	rec = s.do(t, http.MethodPost, "/v1/transactions/2/reverse?confirm=true", "", IdempotencyHeader, "rev-2")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodGet, "/v1/accounts/1", "")
	assert.Equal(t, "100", decode[model.Account](t, rec).Balance.String())
}

func TestIdempotency_ReplaysSameReversal(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "100")
	s.do(t, http.MethodPost, "/v1/transactions", `{"atmCardId":1,"type":"deposit","amount":"40"}`)

	first := s.do(t, http.MethodPost, "/v1/transactions/1/reverse?confirm=true", "", IdempotencyHeader, "rev")
	require.Equal(t, http.StatusCreated, first.Code)

	second := s.do(t, http.MethodPost, "/v1/transactions/1/reverse?confirm=true", "", IdempotencyHeader, "rev")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyHitHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestIdempotency_FailuresAreNotCached(t *testing.T) {
	s := newTestServer(t)

	first := s.do(t, http.MethodPost, "/v1/customers", `{"name":"Ada"}`, IdempotencyHeader, "c-1")
	require.Equal(t, http.StatusBadRequest, first.Code)

	_, found, err := s.store.Get(context.Background(), "idempotency:"+repository.GenerateKeyHash("c-1"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodOptions, "/v1/transactions", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_PropagatesCallerValue(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", RequestIDHeader, "abc-123")

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
