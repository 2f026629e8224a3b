package login

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
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenSummary struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Response struct {
	resp.Response
	Message string       `json:"message,omitempty"`
	Data    TokenSummary `json:"data"`
}

// New аутентифицирует пользователя и выставляет access/refresh cookie
// (HttpOnly) и csrf cookie (читаемую). Неизвестное имя и неверный пароль
// дают один и тот же ответ.
func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
	secureCookies bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		log.Info("Request body decoded")

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		pair, err := authService.Login(ctx, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Invalid username or password"))

				return
			}
			if errors.Is(err, auth.ErrAccountInactive) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("This account is not active"))

				return
			}

			log.Error("failed to login user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("User logged in successfully")

		cookies.SetToken(w, cookies.AccessToken, pair.AccessToken, pair.AccessExpiresAt, secureCookies)
		cookies.SetToken(w, cookies.RefreshToken, pair.RefreshToken, pair.RefreshExpiresAt, secureCookies)
		cookies.SetCSRF(w, cookies.NewCSRFValue(), pair.RefreshExpiresAt, secureCookies)

		ResponseOK(w, r, pair)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, pair auth.TokenPair) {
	render.JSON(w, r, Response{
		Response: resp.OK(),
		Message:  "Login successfully",
		Data: TokenSummary{
			Access:  pair.AccessToken,
			Refresh: pair.RefreshToken,
		},
	})
}
