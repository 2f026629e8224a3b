package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"arxivo_backend/internal/auth"
	"arxivo_backend/internal/lib/api/cookies"
	resp "arxivo_backend/internal/lib/api/response"
	sl "arxivo_backend/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Message string `json:"message,omitempty"`
}

// New ротирует пару токенов по refresh cookie. Отсутствующий, истёкший
// или повреждённый refresh-токен — 401, ротации не происходит. Прежний
// refresh-токен при этом остаётся криптографически валидным до своего
// истечения: серверного списка отзыва нет.
func New(
	log *slog.Logger,
	authService *auth.Auth,
	secureCookies bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.refresh.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		cookie, err := r.Cookie(cookies.RefreshToken)
		if err != nil {
			log.Warn("refresh cookie is missing")

			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("Invalid refresh token"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		pair, err := authService.Refresh(ctx, cookie.Value)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrAccountInactive) {
				log.Warn("refresh rejected", sl.Err(err))

				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Invalid refresh token"))

				return
			}

			log.Error("failed to refresh tokens", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Tokens refreshed successfully")

		cookies.SetToken(w, cookies.AccessToken, pair.AccessToken, pair.AccessExpiresAt, secureCookies)
		cookies.SetToken(w, cookies.RefreshToken, pair.RefreshToken, pair.RefreshExpiresAt, secureCookies)
		// csrf-cookie живёт до нового refresh-expiry, иначе продлеваемая
		// сессия переживёт свой CSRF-токен
		cookies.SetCSRF(w, cookies.NewCSRFValue(), pair.RefreshExpiresAt, secureCookies)

		ResponseOK(w, r)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Response: resp.OK(),
		Message:  "Tokens Refreshed Successfully",
	})
}
