package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeNotificationList_LegacyBlob(t *testing.T) {
	t.Parallel()

	// blob старого формата, без поля version
	blob := []byte(`{"data": [{"filename": "a.txt", "address": "addr", "key": "k", "file_type": "txt", "seen": false, "sender": "alice"}]}`)

	list, err := DecodeNotificationList(blob)
	require.NoError(t, err)
	require.Equal(t, 1, list.Version)
	require.Len(t, list.Data, 1)
	require.Equal(t, "a.txt", list.Data[0].Filename)
}

func TestDecodeNotificationList_Empty(t *testing.T) {
	t.Parallel()

	list, err := DecodeNotificationList(nil)
	require.NoError(t, err)
	require.Equal(t, 1, list.Version)
	require.NotNil(t, list.Data)
	require.Empty(t, list.Data)
}

func TestNotificationList_RoundTrip(t *testing.T) {
	t.Parallel()

	list := EmptyNotificationList()
	list.Data = append(list.Data, Notification{
		Filename: "b.pdf",
		Address:  "s3://x",
		Key:      "wrapped",
		FileType: "pdf",
		Sender:   "bob",
	})

	encoded, err := list.Encode()
	require.NoError(t, err)

	decoded, err := DecodeNotificationList(encoded)
	require.NoError(t, err)
	require.Equal(t, list, decoded)
}

func TestDecodeNotificationList_Malformed(t *testing.T) {
	t.Parallel()

	_, err := DecodeNotificationList([]byte(`{"data": `))
	require.Error(t, err)
}
