package memory

import (
	"context"
	"strings"
	"sync"

	"arxivo_backend/internal/models"
	"arxivo_backend/internal/storage"
)

// MemoryRepo is an in-memory storage used in tests. Notification lists go
// through the same encode/decode cycle as the postgres backend, so the
// persisted-blob contract is exercised too.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*record
}

type record struct {
	user models.User
	blob []byte
}

func New() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		users:  make(map[int64]*record),
	}
}

func (r *MemoryRepo) SaveUser(_ context.Context, email, username string, passHash []byte, publicKey string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.users {
		if rec.user.Email == email {
			return 0, storage.ErrEmailTaken
		}
		if rec.user.Username == username {
			return 0, storage.ErrUsernameTaken
		}
	}

	emptyList, err := models.EmptyNotificationList().Encode()
	if err != nil {
		return 0, err
	}

	id := r.nextID
	r.nextID++

	r.users[id] = &record{
		user: models.User{
			ID:        id,
			Email:     email,
			Username:  username,
			PassHash:  passHash,
			PublicKey: publicKey,
			IsActive:  true,
		},
		blob: emptyList,
	}

	return id, nil
}

func (r *MemoryRepo) CheckIdentity(_ context.Context, email, username string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var emailTaken, usernameTaken bool

	for _, rec := range r.users {
		if rec.user.Email == email {
			emailTaken = true
		}
		if rec.user.Username == username {
			usernameTaken = true
		}
	}

	return emailTaken, usernameTaken, nil
}

func (r *MemoryRepo) UserByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.users {
		if rec.user.Username == username {
			return rec.user, nil
		}
	}

	return models.User{}, storage.ErrUserNotFound
}

func (r *MemoryRepo) UserByID(_ context.Context, id int64) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return rec.user, nil
}

func (r *MemoryRepo) SearchUsers(_ context.Context, term string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	term = strings.ToLower(term)

	var users []models.User

	for id := int64(1); id < r.nextID; id++ {
		rec, ok := r.users[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(rec.user.Username), term) {
			users = append(users, rec.user)
		}
	}

	return users, nil
}

func (r *MemoryRepo) AppendNotification(_ context.Context, recipientID int64, n models.Notification) error {
	return r.withUserBlob(recipientID, func(list *models.NotificationList) {
		list.Data = append(list.Data, n)
	})
}

func (r *MemoryRepo) TakeNotifications(_ context.Context, userID int64) ([]models.Notification, error) {
	var before []models.Notification

	err := r.withUserBlob(userID, func(list *models.NotificationList) {
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

// withUserBlob держит мьютекс на весь цикл read-modify-write,
// как postgres-бэкенд держит блокировку строки.
func (r *MemoryRepo) withUserBlob(userID int64, mutate func(*models.NotificationList)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}

	list, err := models.DecodeNotificationList(rec.blob)
	if err != nil {
		return err
	}

	mutate(&list)

	encoded, err := list.Encode()
	if err != nil {
		return err
	}

	rec.blob = encoded

	return nil
}

// SetActive used by tests to simulate deactivated accounts.
func (r *MemoryRepo) SetActive(userID int64, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.users[userID]; ok {
		rec.user.IsActive = active
	}
}
