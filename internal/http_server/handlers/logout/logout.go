package logout

import (
	"log/slog"
	"net/http"

	"arxivo_backend/internal/lib/api/cookies"
	resp "arxivo_backend/internal/lib/api/response"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Message string `json:"message,omitempty"`
}

// New сбрасывает все auth-cookie. Подписи самих токенов при этом не
// инвалидируются — logout работает только на стороне клиента.
func New(
	log *slog.Logger,
	secureCookies bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.logout.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		cookies.Clear(w, cookies.AccessToken, secureCookies)
		cookies.Clear(w, cookies.RefreshToken, secureCookies)
		cookies.Clear(w, cookies.CSRFToken, secureCookies)

		log.Info("user logged out successfully")

		ResponseOK(w, r)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{
		Response: resp.OK(),
		Message:  "Logged Out Successfully",
	})
}
