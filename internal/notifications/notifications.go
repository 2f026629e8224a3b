package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/models"
	"arxivo_backend/internal/storage"
)

var ErrRecipientNotFound = errors.New("recipient not found")

type Notifications struct {
	log         *slog.Logger
	store       NotificationStore
	usrProvider UserProvider
	publisher   Publisher
}

// NotificationStore serializes mutations of one user's list: Append and
// Take must never interleave their read-modify-write for the same user.
type NotificationStore interface {
	AppendNotification(ctx context.Context, recipientID int64, n models.Notification) error
	TakeNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
}

type UserProvider interface {
	UserByUsername(ctx context.Context, username string) (models.User, error)
}

type Publisher interface {
	SendMessage(ctx context.Context, event models.ShareEvent) error
}

func New(
	log *slog.Logger,
	store NotificationStore,
	usrProvider UserProvider,
	publisher Publisher,
) *Notifications {
	return &Notifications{
		log:         log,
		store:       store,
		usrProvider: usrProvider,
		publisher:   publisher,
	}
}

// * Send добавляет уведомление о файле в конец списка получателя.
// Повторный вызов с теми же данными добавит вторую запись — дедупликации
// нет. Событие дополнительно публикуется в очередь, сбой брокера
// логируется и не считается ошибкой отправки.
func (n *Notifications) Send(
	ctx context.Context,
	sender models.User,
	recipientUsername, filename, address, key, fileType string,
) error {
	const op = "notifications.Send"

	log := n.log.With(slog.String("op", op))

	recipient, err := n.usrProvider.UserByUsername(ctx, recipientUsername)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("recipient not found")
			return ErrRecipientNotFound
		}

		log.Error("failed to get recipient", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	notif := models.Notification{
		Filename: filename,
		Address:  address,
		Key:      key,
		FileType: fileType,
		Seen:     false,
		Sender:   sender.Username,
	}

	if err := n.store.AppendNotification(ctx, recipient.ID, notif); err != nil {
		log.Error("failed to append notification", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if n.publisher != nil {
		event := models.ShareEvent{
			Recipient: recipient.Username,
			Sender:    sender.Username,
			Filename:  filename,
			FileType:  fileType,
		}

		if err := n.publisher.SendMessage(ctx, event); err != nil {
			log.Error("failed to publish share event", sl.Err(err))
		}
	}

	log.Info("notification sent",
		slog.String("recipient", recipient.Username),
		slog.String("sender", sender.Username),
	)

	return nil
}

// * List возвращает список уведомлений, каким он был ДО вызова, и в той
// же операции помечает все записи прочитанными. Чтение разрушает статус
// "непрочитано": второй вызов вернёт те же записи уже с seen=true.
func (n *Notifications) List(ctx context.Context, user models.User) ([]models.Notification, error) {
	const op = "notifications.List"

	log := n.log.With(slog.String("op", op))

	notifs, err := n.store.TakeNotifications(ctx, user.ID)
	if err != nil {
		log.Error("failed to take notifications", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return notifs, nil
}
