package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/shared/constant"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestTracing_EchoesRequestID(t *testing.T) {
	m, _ := newLimitedMiddleware(t, false)

	handler := chiMiddleware.RequestID(m.Tracing(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set(constant.RequestHeaderRequestID, "req-42")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(constant.RequestHeaderRequestID))
}
