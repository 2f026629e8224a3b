package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arxivo_backend/internal/auth"
	"arxivo_backend/internal/http_server/handlers/login"
	"arxivo_backend/internal/lib/api/cookies"
	"arxivo_backend/internal/storage/memory"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (http.HandlerFunc, *auth.Auth, *memory.MemoryRepo) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.New()
	a := auth.New(log, repo, repo, "test-secret", 15*time.Minute, 24*time.Hour)

	return login.New(log, validator.New(), a, true), a, repo
}

func doLogin(t *testing.T, handler http.HandlerFunc, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)

	return rr
}

func TestLogin_SetsCookies(t *testing.T) {
	t.Parallel()

	handler, a, _ := setup(t)

	_, err := a.RegisterNewUser(context.Background(), "alice@example.com", "alice", "correct-horse", "pk")
	require.NoError(t, err)

	rr := doLogin(t, handler, "alice", "correct-horse")
	require.Equal(t, http.StatusOK, rr.Code)

	got := map[string]*http.Cookie{}
	for _, c := range rr.Result().Cookies() {
		got[c.Name] = c
	}

	access, ok := got[cookies.AccessToken]
	require.True(t, ok, "access cookie missing")
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, http.SameSiteStrictMode, access.SameSite)
	require.True(t, access.Expires.After(time.Now()))

	refresh, ok := got[cookies.RefreshToken]
	require.True(t, ok, "refresh cookie missing")
	require.True(t, refresh.HttpOnly)
	require.True(t, refresh.Expires.After(access.Expires))

	csrf, ok := got[cookies.CSRFToken]
	require.True(t, ok, "csrf cookie missing")
	require.False(t, csrf.HttpOnly, "csrf cookie must be readable")
	require.NotEmpty(t, csrf.Value)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "OK", resp.Status)
	require.Equal(t, access.Value, resp.Data.Access)
	require.Equal(t, refresh.Value, resp.Data.Refresh)
}

func TestLogin_GenericFailure(t *testing.T) {
	t.Parallel()

	handler, a, _ := setup(t)

	_, err := a.RegisterNewUser(context.Background(), "bob@example.com", "bob", "correct-horse", "pk")
	require.NoError(t, err)

	wrongPass := doLogin(t, handler, "bob", "nope")
	noUser := doLogin(t, handler, "ghost", "nope")

	// неверный пароль и неизвестное имя неразличимы для клиента
	require.Equal(t, http.StatusNotFound, wrongPass.Code)
	require.Equal(t, http.StatusNotFound, noUser.Code)
	require.JSONEq(t, wrongPass.Body.String(), noUser.Body.String())
	require.Empty(t, wrongPass.Result().Cookies())
}

func TestLogin_InactiveAccount(t *testing.T) {
	t.Parallel()

	handler, a, repo := setup(t)

	uid, err := a.RegisterNewUser(context.Background(), "carol@example.com", "carol", "correct-horse", "pk")
	require.NoError(t, err)

	repo.SetActive(uid, false)

	rr := doLogin(t, handler, "carol", "correct-horse")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "not active")
}
