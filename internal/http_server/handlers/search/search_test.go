package search_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	searchhandler "arxivo_backend/internal/http_server/handlers/search"
	"arxivo_backend/internal/models"
	"arxivo_backend/internal/search"
	"arxivo_backend/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, usernames ...string) http.HandlerFunc {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.New()

	for _, username := range usernames {
		_, err := repo.SaveUser(context.Background(), username+"@example.com", username, []byte("hash"), "pk-"+username)
		require.NoError(t, err)
	}

	return searchhandler.New(log, search.New(log, repo))
}

func doSearch(t *testing.T, handler http.HandlerFunc, term string) []models.PublicProfile {
	t.Helper()

	body, err := json.Marshal(map[string]string{"search_term": term})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []models.PublicProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return resp.Data
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	handler := setup(t, "Alice", "MALicia", "bob")

	profiles := doSearch(t, handler, "ali")

	require.Len(t, profiles, 2)
	require.Equal(t, "Alice", profiles[0].Username)
	require.Equal(t, "pk-Alice", profiles[0].PublicKey)
	require.Equal(t, "MALicia", profiles[1].Username)
}

func TestSearch_EmptyTermReturnsAll(t *testing.T) {
	t.Parallel()

	handler := setup(t, "a", "b", "c")

	profiles := doSearch(t, handler, "")

	require.Len(t, profiles, 3)
}

func TestSearch_NoMatches(t *testing.T) {
	t.Parallel()

	handler := setup(t, "alice")

	profiles := doSearch(t, handler, "zzz")

	require.NotNil(t, profiles)
	require.Empty(t, profiles)
}
