package cookies

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	AccessToken  = "access_token"
	RefreshToken = "refresh_token"
	CSRFToken    = "csrf_token"
)

// SetToken выставляет auth-cookie: HttpOnly, SameSite=Strict,
// срок действия совпадает со сроком действия самого токена.
func SetToken(w http.ResponseWriter, name, value string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetCSRF выставляет читаемую из JS cookie для double-submit проверки.
func SetCSRF(w http.ResponseWriter, value string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFToken,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

func Clear(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: name != CSRFToken,
		SameSite: http.SameSiteStrictMode,
	})
}

func NewCSRFValue() string {
	return uuid.NewString()
}
