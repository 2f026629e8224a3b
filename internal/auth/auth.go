package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"arxivo_backend/internal/lib/jwt"
	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/models"
	"arxivo_backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password, so a caller cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	secret      string
	tokenTTL    time.Duration
	refreshTTL  time.Duration
}

type UserSaver interface {
	SaveUser(ctx context.Context, email string, username string, passHash []byte, publicKey string) (uid int64, err error)
}

type UserProvider interface {
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
	CheckIdentity(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
}

// TokenPair — access и refresh токены вместе со сроками действия,
// чтобы у cookie Expires совпадал с exp токена.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	secret string,
	tokenTTL, refreshTTL time.Duration,
) *Auth {
	return &Auth{
		usrSaver:    userSaver,
		usrProvider: userProvider,
		log:         log,
		secret:      secret,
		tokenTTL:    tokenTTL,
		refreshTTL:  refreshTTL,
	}
}

// * Login проверяет учетные данные и возвращает пару токенов.
// Неизвестное имя и неверный пароль дают одну и ту же ошибку.
func (a *Auth) Login(
	ctx context.Context,
	username, password string,
) (TokenPair, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return TokenPair{}, ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return TokenPair{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn("account is not active", slog.Int64("uid", user.ID))
		return TokenPair{}, ErrAccountInactive
	}

	pair, err := a.issuePair(user.ID)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return TokenPair{}, err
	}

	log.Info("user logged in successfully", slog.Int64("uid", user.ID))
	return pair, nil
}

func (a *Auth) RegisterNewUser(
	ctx context.Context,
	email string,
	username string,
	pass string,
	publicKey string,
) (int64, error) {
	const op = "auth.RegisterNewUser"

	log := a.log.With(
		slog.String("op", op),
	)

	log.Info("Registering new user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, email, username, passHash, publicKey)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			log.Warn("email already taken")

			return 0, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		if errors.Is(err, storage.ErrUsernameTaken) {
			log.Warn("username already taken")

			return 0, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		log.Error("Failed to save user", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// CheckIdentity сообщает, заняты ли email и username, обе коллизии сразу.
func (a *Auth) CheckIdentity(ctx context.Context, email, username string) (bool, bool, error) {
	return a.usrProvider.CheckIdentity(ctx, email, username)
}

// * Refresh выпускает новую пару токенов по действующему refresh-токену.
// Ротация только криптографическая: прежний refresh-токен остаётся
// валидным до собственного истечения, серверного чёрного списка нет.
func (a *Auth) Refresh(
	ctx context.Context,
	refreshToken string,
) (TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(
		slog.String("op", op),
	)

	userID, err := jwt.ParseToken(refreshToken, jwt.PurposeRefresh, a.secret)
	if err != nil {
		log.Warn("invalid refresh token", sl.Err(err))
		return TokenPair{}, ErrInvalidToken
	}

	user, err := a.usrProvider.UserByID(ctx, userID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		return TokenPair{}, ErrInvalidToken
	}

	if !user.IsActive {
		log.Warn("account is not active", slog.Int64("uid", user.ID))
		return TokenPair{}, ErrAccountInactive
	}

	pair, err := a.issuePair(user.ID)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return TokenPair{}, err
	}

	log.Info("refresh successful", slog.Int64("uid", user.ID))

	return pair, nil
}

// VerifyAccessToken проверяет access-токен и возвращает id пользователя.
func (a *Auth) VerifyAccessToken(raw string) (int64, error) {
	userID, err := jwt.ParseToken(raw, jwt.PurposeAccess, a.secret)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

func (a *Auth) UserByID(ctx context.Context, id int64) (models.User, error) {
	return a.usrProvider.UserByID(ctx, id)
}

func (a *Auth) issuePair(userID int64) (TokenPair, error) {
	access, accessExp, err := jwt.NewToken(userID, jwt.PurposeAccess, a.secret, a.tokenTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, refreshExp, err := jwt.NewToken(userID, jwt.PurposeRefresh, a.secret, a.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}
