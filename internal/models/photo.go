package models

// Photo maps a face crop to the original it was cut from. Name stays nil
// until someone labels the crop through the bot.
type Photo struct {
	Photo         string  `json:"photo" db:"photo"`
	OriginalPhoto string  `json:"original_photo" db:"original_photo"`
	Name          *string `json:"name,omitempty" db:"name"`
}

// BotMessage records a crop photo the bot sent to a chat, so a later reply
// to that message can be resolved back to the crop being labeled.
type BotMessage struct {
	ChatID    int64  `json:"chat_id" db:"chat_id"`
	MessageID int64  `json:"message_id" db:"message_id"`
	Photo     string `json:"photo" db:"photo"`
}

// UploadEvent is the message published to NATS when a new photo lands in
// the source bucket.
type UploadEvent struct {
	Bucket string `json:"bucket"`
	Object string `json:"object"`
}
