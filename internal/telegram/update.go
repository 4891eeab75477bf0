package telegram

// Update is the webhook payload Telegram posts to the bot. Only the fields
// this bot branches on are declared.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64    `json:"message_id"`
	Chat      Chat     `json:"chat"`
	Text      string   `json:"text"`
	ReplyTo   *Message `json:"reply_to_message"`
}

type Chat struct {
	ID int64 `json:"id"`
}
