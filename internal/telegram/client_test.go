package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	c := NewClient("TOKEN")
	c.apiURL = serverURL
	return c
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).SendMessage(context.Background(), 42, "hello", 13)
	require.NoError(t, err)

	assert.Equal(t, "/botTOKEN/sendMessage", gotPath)
	assert.Equal(t, []string{"42"}, gotQuery["chat_id"])
	assert.Equal(t, []string{"hello"}, gotQuery["text"])
	assert.Equal(t, []string{"13"}, gotQuery["reply_to_message_id"])
}

func TestSendMessageWithoutReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotContains(t, r.URL.Query(), "reply_to_message_id")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":8}}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).SendMessage(context.Background(), 42, "hello", 0)
	require.NoError(t, err)
}

func TestSendPhotoReturnsMessageID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendPhoto", r.URL.Path)
		assert.Equal(t, "https://gw.example.com/?face=abc", r.URL.Query().Get("photo"))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":555}}`))
	}))
	defer server.Close()

	id, err := newTestClient(server.URL).SendPhoto(context.Background(), 42, "https://gw.example.com/?face=abc")
	require.NoError(t, err)
	assert.Equal(t, int64(555), id)
}

func TestAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).SendMessage(context.Background(), 42, "hi", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
