package csrf_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"arxivo_backend/internal/http_server/middleware/csrf"
	"arxivo_backend/internal/lib/api/cookies"

	"github.com/stretchr/testify/require"
)

func newHandler() http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return csrf.New(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRF_MatchingTokenPasses(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.AddCookie(&http.Cookie{Name: cookies.CSRFToken, Value: "token-123"})
	req.Header.Set(csrf.HeaderName, "token-123")

	rr := httptest.NewRecorder()
	newHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCSRF_MismatchRejected(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.AddCookie(&http.Cookie{Name: cookies.CSRFToken, Value: "token-123"})
	req.Header.Set(csrf.HeaderName, "token-456")

	rr := httptest.NewRecorder()
	newHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRF_MissingCookieRejected(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/search", nil)
	req.Header.Set(csrf.HeaderName, "token-123")

	rr := httptest.NewRecorder()
	newHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRF_SafeMethodSkipped(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)

	rr := httptest.NewRecorder()
	newHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}
