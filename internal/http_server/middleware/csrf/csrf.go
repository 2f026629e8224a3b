package csrf

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"arxivo_backend/internal/lib/api/cookies"
	resp "arxivo_backend/internal/lib/api/response"

	"github.com/go-chi/render"
)

const HeaderName = "X-CSRF-Token"

// New реализует double-submit проверку: значение заголовка X-CSRF-Token
// должно совпадать со значением csrf-cookie. Безопасные методы (GET,
// HEAD, OPTIONS) не проверяются.
func New(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.csrf.New"

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(cookies.CSRFToken)
			if err != nil || cookie.Value == "" {
				forbidden(w, r)
				return
			}

			header := r.Header.Get(HeaderName)
			if subtle.ConstantTimeCompare([]byte(header), []byte(cookie.Value)) != 1 {
				log.Warn("csrf token mismatch", slog.String("op", op))
				forbidden(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusForbidden)
	render.JSON(w, r, resp.Error("CSRF verification failed"))
}
