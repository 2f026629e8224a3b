package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"arxivo_backend/internal/config"
	"arxivo_backend/internal/models"
	"arxivo_backend/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	dsn := DSN(cfg)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) SaveUser(ctx context.Context, email, username string, passHash []byte, publicKey string) (int64, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (email, username, password_hash, public_key, notification_list)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`

	emptyList, err := models.EmptyNotificationList().Encode()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64

	err = r.pool.QueryRow(ctx, query, email, username, string(passHash), publicKey, emptyList).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return 0, storage.ErrEmailTaken
			default:
				return 0, storage.ErrUsernameTaken
			}
		}

		return 0, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

// CheckIdentity проверяет занятость email и username одним запросом,
// чтобы регистрация могла вернуть обе коллизии сразу.
func (r *PostgresRepo) CheckIdentity(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	const op = "storage.postgres.CheckIdentity"

	query := `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE email = $1),
			EXISTS (SELECT 1 FROM users WHERE username = $2);
	`

	err = r.pool.QueryRow(ctx, query, email, username).Scan(&emailTaken, &usernameTaken)
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", op, err)
	}

	return emailTaken, usernameTaken, nil
}

func (r *PostgresRepo) UserByUsername(ctx context.Context, username string) (models.User, error) {
	query := `
		SELECT id, email, username, password_hash, public_key, is_active, is_verified
		FROM users
		WHERE username = $1;
	`

	row := r.pool.QueryRow(ctx, query, username)

	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PassHash,
		&u.PublicKey,
		&u.IsActive,
		&u.IsVerified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, err
}

func (r *PostgresRepo) UserByID(ctx context.Context, id int64) (models.User, error) {
	query := `
		SELECT id, email, username, password_hash, public_key, is_active, is_verified
		FROM users
		WHERE id = $1;
	`

	row := r.pool.QueryRow(ctx, query, id)

	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PassHash,
		&u.PublicKey,
		&u.IsActive,
		&u.IsVerified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, storage.ErrUserNotFound
	}

	return u, err
}

// likeEscaper экранирует метасимволы LIKE, чтобы term искался
// буквально ('\' — escape-символ LIKE по умолчанию в postgres).
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// SearchUsers возвращает всех пользователей, чьё имя содержит term
// (без учёта регистра). Пустой term возвращает всех.
func (r *PostgresRepo) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	const op = "storage.postgres.SearchUsers"

	query := `
		SELECT id, email, username, password_hash, public_key, is_active, is_verified
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		ORDER BY id;
	`

	rows, err := r.pool.Query(ctx, query, escapeLike(term))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User

	for rows.Next() {
		var u models.User

		err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.Username,
			&u.PassHash,
			&u.PublicKey,
			&u.IsActive,
			&u.IsVerified,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return users, nil
}

// AppendNotification добавляет уведомление в конец списка получателя.
// Строка пользователя блокируется (FOR UPDATE) на время read-modify-write,
// поэтому конкурентные отправки одному получателю сериализуются и записи
// не теряются.
func (r *PostgresRepo) AppendNotification(ctx context.Context, recipientID int64, n models.Notification) error {
	const op = "storage.postgres.AppendNotification"

	return r.withUserRow(ctx, op, recipientID, func(list *models.NotificationList) {
		list.Data = append(list.Data, n)
	})
}

// TakeNotifications возвращает список, каким он был ДО вызова, и в той же
// транзакции помечает все записи прочитанными.
func (r *PostgresRepo) TakeNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	const op = "storage.postgres.TakeNotifications"

	var before []models.Notification

	err := r.withUserRow(ctx, op, userID, func(list *models.NotificationList) {
		before = make([]models.Notification, len(list.Data))
		copy(before, list.Data)

		for i := range list.Data {
			list.Data[i].Seen = true
		}
	})
	if err != nil {
		return nil, err
	}

	return before, nil
}

func (r *PostgresRepo) withUserRow(ctx context.Context, op string, userID int64, mutate func(*models.NotificationList)) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var blob []byte

	err = tx.QueryRow(ctx,
		`SELECT notification_list FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrUserNotFound
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	list, err := models.DecodeNotificationList(blob)
	if err != nil {
		return fmt.Errorf("%s: failed to decode notification list: %w", op, err)
	}

	mutate(&list)

	encoded, err := list.Encode()
	if err != nil {
		return fmt.Errorf("%s: failed to encode notification list: %w", op, err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET notification_list = $1 WHERE id = $2`,
		encoded, userID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// DSN формирует конфигурацию базы данных.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
