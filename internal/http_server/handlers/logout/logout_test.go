package logout_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arxivo_backend/internal/http_server/handlers/logout"
	"arxivo_backend/internal/lib/api/cookies"

	"github.com/stretchr/testify/require"
)

func TestLogout_ClearsCookies(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := logout.New(log, true)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookies.AccessToken, Value: "some-access"})
	req.AddCookie(&http.Cookie{Name: cookies.RefreshToken, Value: "some-refresh"})

	rr := httptest.NewRecorder()
	handler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	cleared := map[string]bool{}
	for _, c := range rr.Result().Cookies() {
		require.Empty(t, c.Value, "cookie %s must be emptied", c.Name)
		require.True(t, c.Expires.Before(time.Now()), "cookie %s must be expired", c.Name)
		cleared[c.Name] = true
	}

	require.True(t, cleared[cookies.AccessToken])
	require.True(t, cleared[cookies.RefreshToken])
	require.True(t, cleared[cookies.CSRFToken])
}
