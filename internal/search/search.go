package search

import (
	"context"
	"fmt"
	"log/slog"

	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/models"
)

type Search struct {
	log         *slog.Logger
	usrSearcher UserSearcher
}

type UserSearcher interface {
	SearchUsers(ctx context.Context, term string) ([]models.User, error)
}

func New(log *slog.Logger, usrSearcher UserSearcher) *Search {
	return &Search{
		log:         log,
		usrSearcher: usrSearcher,
	}
}

// * Find возвращает username и публичный ключ каждого пользователя, чьё
// имя содержит term (без учёта регистра). Пустой term возвращает всех —
// это документированное поведение, ограничения на размер выдачи нет.
func (s *Search) Find(ctx context.Context, term string) ([]models.PublicProfile, error) {
	const op = "search.Find"

	log := s.log.With(slog.String("op", op))

	users, err := s.usrSearcher.SearchUsers(ctx, term)
	if err != nil {
		log.Error("failed to search users", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, models.PublicProfile{
			Username:  u.Username,
			PublicKey: u.PublicKey,
		})
	}

	return profiles, nil
}
