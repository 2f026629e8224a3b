package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims включает стандартные утверждения и назначение токена:
// access-токен нельзя предъявить вместо refresh-токена и наоборот.
type Claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

func NewToken(userID int64, purpose, secret string, ttl time.Duration) (token string, expiresAt time.Time, err error) {
	const op = "lib.jwt.NewToken"

	expiresAt = time.Now().Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Purpose: purpose,
	})

	token, err = t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return token, expiresAt, nil
}

// ParseToken проверяет подпись, срок действия и назначение токена
// и возвращает идентификатор пользователя.
func ParseToken(tokenStr, purpose, secret string) (int64, error) {
	const op = "lib.jwt.ParseToken"

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: unexpected signing method", op)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !parsed.Valid {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Purpose != purpose {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return userID, nil
}
