package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	authmw "arxivo_backend/internal/http_server/middleware/auth"
	resp "arxivo_backend/internal/lib/api/response"
	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/models"
	"arxivo_backend/internal/notifications"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Data []models.Notification `json:"data"`
}

// New возвращает уведомления пользователя в том виде, в каком они были
// до вызова, и помечает их прочитанными. Второй вызов вернёт те же
// записи уже с seen=true.
func New(
	log *slog.Logger,
	notifService *notifications.Notifications,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := authmw.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("Unauthorized"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		notifs, err := notifService.List(ctx, user)
		if err != nil {
			log.Error("failed to list notifications", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		ResponseOK(w, r, notifs)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, notifs []models.Notification) {
	if notifs == nil {
		notifs = []models.Notification{}
	}

	render.JSON(w, r, Response{
		Response: resp.OK(),
		Data:     notifs,
	})
}
