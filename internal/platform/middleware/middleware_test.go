package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "mintgate/pkg/domain"
	"mintgate/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubValidator struct {
	claims *Claims
	err    error
}

func (v *stubValidator) ValidateToken(string) (*Claims, error) {
	return v.claims, v.err
}

func TestRequestID(t *testing.T) {
	t.Run("assigns id when absent", func(t *testing.T) {
		var captured string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, captured)
		assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))
	})

	t.Run("honors inbound id", func(t *testing.T) {
		var captured string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-42")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "upstream-42", captured)
	})
}

func TestRequireAuth(t *testing.T) {
	address := "0xa11ce00000000000000000000000000000000001"

	t.Run("missing header", func(t *testing.T) {
		handler := RequireAuth(&stubValidator{}, discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler should not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mint", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		validator := &stubValidator{err: errors.New("expired")}
		handler := RequireAuth(validator, discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler should not run")
		}))

		req := httptest.NewRequest(http.MethodPost, "/mint", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed address claim", func(t *testing.T) {
		validator := &stubValidator{claims: &Claims{Address: "not-an-address", Role: "minter"}}
		handler := RequireAuth(validator, discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler should not run")
		}))

		req := httptest.NewRequest(http.MethodPost, "/mint", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches handler with caller", func(t *testing.T) {
		validator := &stubValidator{claims: &Claims{Address: address, Role: "minter"}}
		var caller id.Address
		var role string
		handler := RequireAuth(validator, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller = requestcontext.Caller(r.Context())
			role = GetRole(r.Context())
		}))

		req := httptest.NewRequest(http.MethodPost, "/mint", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id.MustAddress(address), caller)
		assert.Equal(t, "minter", role)
	})
}

func TestRequireRole(t *testing.T) {
	address := "0xa11ce00000000000000000000000000000000001"

	newRouter := func(role string) http.Handler {
		validator := &stubValidator{claims: &Claims{Address: address, Role: role}}
		inner := RequireRole("owner", discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		return RequireAuth(validator, discardLogger())(inner)
	}

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/collection/pause", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		newRouter("owner").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("other role gets 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/collection/pause", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		newRouter("minter").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestContentTypeJSON(t *testing.T) {
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("json body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wrong content type rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`quantity=1`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("bodyless request passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal","error_description":"Internal server error"}`, rec.Body.String())
}
