package memory

import (
	"context"
	"testing"

	"arxivo_backend/internal/storage"

	"github.com/stretchr/testify/require"
)

func TestSearchUsers_CaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := New()

	for _, username := range []string{"Alice", "MALicia", "bob", "kalle"} {
		_, err := repo.SaveUser(ctx, username+"@example.com", username, []byte("hash"), "pk")
		require.NoError(t, err)
	}

	users, err := repo.SearchUsers(ctx, "ali")
	require.NoError(t, err)

	var names []string
	for _, u := range users {
		names = append(names, u.Username)
	}
	require.Equal(t, []string{"Alice", "MALicia"}, names)
}

func TestSearchUsers_EmptyTermReturnsAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := New()

	for _, username := range []string{"a", "b", "c"} {
		_, err := repo.SaveUser(ctx, username+"@example.com", username, []byte("hash"), "pk")
		require.NoError(t, err)
	}

	users, err := repo.SearchUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, users, 3)
}

func TestSaveUser_DuplicatesRegardlessOfOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := New()

	_, err := repo.SaveUser(ctx, "x@example.com", "x", []byte("h"), "pk")
	require.NoError(t, err)

	_, err = repo.SaveUser(ctx, "x@example.com", "y", []byte("h"), "pk")
	require.ErrorIs(t, err, storage.ErrEmailTaken)

	_, err = repo.SaveUser(ctx, "y@example.com", "x", []byte("h"), "pk")
	require.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestNotifications_UnknownUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := New()

	_, err := repo.TakeNotifications(ctx, 999)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}
