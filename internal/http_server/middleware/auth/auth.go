package auth

import (
	"context"
	"log/slog"
	"net/http"

	"arxivo_backend/internal/lib/api/cookies"
	resp "arxivo_backend/internal/lib/api/response"
	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/models"

	"github.com/go-chi/render"
)

type contextKey string

const userKey contextKey = "user"

type UserVerifier interface {
	VerifyAccessToken(raw string) (int64, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

// New проверяет access-токен из cookie и кладёт пользователя в контекст
// запроса. Без валидного токена запрос дальше не проходит.
func New(log *slog.Logger, verifier UserVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.New"

			log := log.With(slog.String("op", op))

			cookie, err := r.Cookie(cookies.AccessToken)
			if err != nil {
				unauthorized(w, r)
				return
			}

			userID, err := verifier.VerifyAccessToken(cookie.Value)
			if err != nil {
				log.Warn("invalid access token", sl.Err(err))
				unauthorized(w, r)
				return
			}

			user, err := verifier.UserByID(r.Context(), userID)
			if err != nil {
				log.Warn("failed to load user", sl.Err(err))
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, resp.Error("Unauthorized"))
}
