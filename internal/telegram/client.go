// Package telegram is a minimal client for the Bot API methods this system
// uses: sendMessage and sendPhoto.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultAPIURL = "https://api.telegram.org"

type Client struct {
	apiURL string
	token  string
	http   *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		apiURL: defaultAPIURL,
		token:  token,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type apiResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Description string `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (*apiResponse, error) {
	u := fmt.Sprintf("%s/bot%s/%s?%s", c.apiURL, c.token, method, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal %s response: %w", method, err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("%s failed: %s", method, parsed.Description)
	}
	return &parsed, nil
}

// SendMessage sends text to a chat, optionally as a reply to replyTo
// (pass 0 for a plain message).
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	if replyTo != 0 {
		params.Set("reply_to_message_id", strconv.FormatInt(replyTo, 10))
	}
	_, err := c.call(ctx, "sendMessage", params)
	return err
}

// SendPhoto sends a photo by URL and returns the id of the sent message.
// Telegram fetches the URL itself, so photoURL must be publicly reachable.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL string) (int64, error) {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("photo", photoURL)
	resp, err := c.call(ctx, "sendPhoto", params)
	if err != nil {
		return 0, err
	}
	return resp.Result.MessageID, nil
}
