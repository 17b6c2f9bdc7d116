package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/jortega/bancore/internal/usecase"
	"github.com/jortega/bancore/internal/usecase/mocks"
)

const testKeyTTL = time.Hour

func TestIdempotencyMiddleware_ReplaysCachedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "key-1", nil, testKeyTTL).
		Return(true, []byte(`{"cached":true}`), nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/withdrawal", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	NewIdempotencyMiddleware(store, testKeyTTL).Wrap(next).ServeHTTP(rec, req)

	if called {
		t.Error("cached key must not reach the handler")
	}
	if rec.Header().Get("X-Idempotency-Replay") != "true" {
		t.Error("expected replay marker header")
	}
	if rec.Body.String() != `{"cached":true}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "key-1", nil, testKeyTTL).
		Return(false, nil, nil)
	store.EXPECT().
		Update(gomock.Any(), "key-1", []byte(`{"ok":true}`), testKeyTTL).
		Return(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/withdrawal", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	NewIdempotencyMiddleware(store, testKeyTTL).Wrap(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestIdempotencyMiddleware_ZeroTTLUsesDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "key-1", nil, usecase.IdempotencyKeyTTL).
		Return(true, []byte(`{}`), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/withdrawal", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	NewIdempotencyMiddleware(store, 0).Wrap(next).ServeHTTP(rec, req)
}

func TestIdempotencyMiddleware_SkipsFailedResponses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "key-1", nil, testKeyTTL).
		Return(false, nil, nil)
	// No Update expected for a 4xx response.

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/withdrawal", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	NewIdempotencyMiddleware(store, testKeyTTL).Wrap(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestIdempotencyMiddleware_IgnoresRequestsWithoutKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIdempotencyStore(ctrl)
	// No store calls expected.

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/withdrawal", nil)
	rec := httptest.NewRecorder()

	NewIdempotencyMiddleware(store, testKeyTTL).Wrap(next).ServeHTTP(rec, req)

	if !called {
		t.Error("requests without a key must pass through")
	}
}

func TestIdempotencyMiddleware_IgnoresGETRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIdempotencyStore(ctrl)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	NewIdempotencyMiddleware(store, testKeyTTL).Wrap(next).ServeHTTP(rec, req)

	if !called {
		t.Error("read requests must pass through")
	}
}
