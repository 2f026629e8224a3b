package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"arxivo_backend/internal/auth"
	"arxivo_backend/internal/lib/api/cookies"
	resp "arxivo_backend/internal/lib/api/response"
	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/lib/passwordpolicy"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
	PublicKey string `json:"public_key" validate:"required"`
}

type Response struct {
	resp.Response
	Message string `json:"message,omitempty"`
}

// New регистрирует пользователя. Все ошибки валидации — формат полей,
// политика пароля, несовпадение паролей, занятые email/username —
// собираются в один маппинг поле -> сообщение; при любой из них ничего
// не сохраняется.
func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
	policy passwordpolicy.Policy,
	csrfTTL time.Duration,
	secureCookies bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

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

		fieldErrs := make(map[string]string)

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			for field, msg := range resp.ValidationError(validateErr).Errors {
				fieldErrs[field] = msg
			}
		}

		if req.Password != "" {
			failures := policy.Validate(req.Password, passwordpolicy.UserAttributes{
				Username: req.Username,
				Email:    req.Email,
			})
			if len(failures) > 0 {
				fieldErrs["password"] = strings.Join(failures, "; ")
			}
		}

		if req.Password2 != "" && req.Password != req.Password2 {
			fieldErrs["password2"] = "Password fields didn't match."
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if req.Email != "" || req.Username != "" {
			emailTaken, usernameTaken, err := authService.CheckIdentity(ctx, req.Email, req.Username)
			if err != nil {
				log.Error("failed to check identity", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))

				return
			}

			if emailTaken {
				fieldErrs["email"] = "user with this email already exists"
			}
			if usernameTaken {
				fieldErrs["username"] = "user with this username already exists"
			}
		}

		if len(fieldErrs) > 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.FieldErrors(fieldErrs))

			return
		}

		userID, err := authService.RegisterNewUser(ctx, req.Email, req.Username, req.Password, req.PublicKey)
		if err != nil {
			// backstop for the race between CheckIdentity and the insert
			if errors.Is(err, auth.ErrEmailTaken) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.FieldErrors(map[string]string{
					"email": "user with this email already exists",
				}))

				return
			}
			if errors.Is(err, auth.ErrUsernameTaken) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.FieldErrors(map[string]string{
					"username": "user with this username already exists",
				}))

				return
			}

			log.Error("failed to register user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("User registered", slog.Int64("id", userID))

		cookies.SetCSRF(w, cookies.NewCSRFValue(), time.Now().Add(csrfTTL), secureCookies)

		ResponseOK(w, r)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Response: resp.OK(),
		Message:  "User Created Successfully",
	})
}
