package send

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	authmw "arxivo_backend/internal/http_server/middleware/auth"
	resp "arxivo_backend/internal/lib/api/response"
	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/notifications"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	SendTo   string `json:"send_to" validate:"required"`
	Filename string `json:"filename" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Key      string `json:"key" validate:"required"`
	FileType string `json:"file_type" validate:"required"`
}

type Response struct {
	resp.Response
}

// New добавляет уведомление о расшаренном файле получателю. Повторная
// отправка тех же данных создаст вторую запись.
func New(
	log *slog.Logger,
	validate *validator.Validate,
	notifService *notifications.Notifications,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.send.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sender, ok := authmw.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("Unauthorized"))

			return
		}

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

		err = notifService.Send(ctx, sender, req.SendTo, req.Filename, req.Address, req.Key, req.FileType)
		if err != nil {
			if errors.Is(err, notifications.ErrRecipientNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Recipient not found"))

				return
			}

			log.Error("failed to send notification", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("notification sent", slog.String("recipient", req.SendTo))

		ResponseOK(w, r)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Response: resp.OK(),
	})
}
