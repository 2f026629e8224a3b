package models

import "encoding/json"

type User struct {
	ID         int64
	Email      string
	Username   string
	PassHash   []byte
	PublicKey  string
	IsActive   bool
	IsVerified bool
}

// PublicProfile — то, что видят другие пользователи при поиске.
type PublicProfile struct {
	Username  string `json:"username"`
	PublicKey string `json:"public_key"`
}

// Notification describes one shared file. All fields except Seen are
// immutable after creation; Seen only ever flips false -> true.
type Notification struct {
	Filename string `json:"filename"`
	Address  string `json:"address"`
	Key      string `json:"key"`
	FileType string `json:"file_type"`
	Seen     bool   `json:"seen"`
	Sender   string `json:"sender"`
}

const notificationListVersion = 1

// NotificationList is the persisted envelope for a user's notifications.
type NotificationList struct {
	Version int            `json:"version"`
	Data    []Notification `json:"data"`
}

func EmptyNotificationList() NotificationList {
	return NotificationList{Version: notificationListVersion, Data: []Notification{}}
}

// DecodeNotificationList парсит сохранённый blob. Blob без поля version
// (старый формат) читается как версия 1.
func DecodeNotificationList(blob []byte) (NotificationList, error) {
	if len(blob) == 0 {
		return EmptyNotificationList(), nil
	}

	var list NotificationList
	if err := json.Unmarshal(blob, &list); err != nil {
		return NotificationList{}, err
	}

	if list.Version == 0 {
		list.Version = notificationListVersion
	}
	if list.Data == nil {
		list.Data = []Notification{}
	}

	return list, nil
}

func (l NotificationList) Encode() ([]byte, error) {
	if l.Version == 0 {
		l.Version = notificationListVersion
	}
	return json.Marshal(l)
}

// ShareEvent публикуется в очередь при каждой успешной отправке уведомления.
type ShareEvent struct {
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
	Filename  string `json:"filename"`
	FileType  string `json:"file_type"`
}
