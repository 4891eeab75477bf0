// Package bot implements the chat side of the labeling workflow: handing out
// unnamed face crops, accepting names as replies, and searching by name.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/your-org/facetag/internal/observability"
	"github.com/your-org/facetag/internal/telegram"
)

const (
	getFaceCommand = "/getface"
	findPrefix     = "/find "
)

// User-facing replies. The chat message is the only failure signal users
// see; the webhook itself always answers 200.
const (
	msgError        = "Something went wrong"
	msgAlreadyNamed = "This photo already has a name"
	msgNoFacesLeft  = "No unnamed faces left"
)

// Store is the slice of the photo store the bot needs.
type Store interface {
	GetFaceWithoutName(ctx context.Context) (string, error)
	CheckPhotoWithoutName(ctx context.Context, photo string) (bool, error)
	SetPhotoName(ctx context.Context, photo, name string) error
	GetPhotosByName(ctx context.Context, name string) ([]string, error)
	SaveMessage(ctx context.Context, chatID, messageID int64, photo string) error
	GetPhotoByMessage(ctx context.Context, chatID, messageID int64) (string, error)
}

// Sender is the outbound half of the chat API.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) error
	SendPhoto(ctx context.Context, chatID int64, photoURL string) (int64, error)
}

type Bot struct {
	store       Store
	tg          Sender
	gatewayHost string
}

func New(store Store, tg Sender, gatewayHost string) *Bot {
	return &Bot{store: store, tg: tg, gatewayHost: gatewayHost}
}

// HandleUpdate processes one webhook update. Failures are logged and
// answered with a generic chat error; they never bubble up to the webhook
// response.
func (b *Bot) HandleUpdate(ctx context.Context, upd telegram.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	chatID := msg.Chat.ID

	var outcome string
	switch {
	case msg.Text == "":
		b.sendError(ctx, chatID, msg.MessageID)
		outcome = "no_text"
	case msg.ReplyTo != nil:
		outcome = b.handleReply(ctx, chatID, msg)
	case msg.Text == getFaceCommand:
		outcome = b.handleGetFace(ctx, chatID, msg.MessageID)
	case strings.HasPrefix(msg.Text, findPrefix):
		outcome = b.handleFind(ctx, chatID, msg.MessageID, strings.TrimPrefix(msg.Text, findPrefix))
	default:
		b.sendError(ctx, chatID, msg.MessageID)
		outcome = "unknown_command"
	}

	observability.BotUpdates.WithLabelValues(outcome).Inc()
}

// handleReply labels the crop shown by the replied-to bot message.
func (b *Bot) handleReply(ctx context.Context, chatID int64, msg *telegram.Message) string {
	photo, err := b.store.GetPhotoByMessage(ctx, chatID, msg.ReplyTo.MessageID)
	if err != nil {
		slog.Error("lookup replied message", "chat_id", chatID, "error", err)
		b.sendError(ctx, chatID, msg.MessageID)
		return "error"
	}
	if photo == "" {
		b.sendError(ctx, chatID, msg.MessageID)
		return "unknown_reply"
	}

	unnamed, err := b.store.CheckPhotoWithoutName(ctx, photo)
	if err != nil {
		slog.Error("check photo name", "photo", photo, "error", err)
		b.sendError(ctx, chatID, msg.MessageID)
		return "error"
	}
	if !unnamed {
		b.reply(ctx, chatID, msg.MessageID, msgAlreadyNamed)
		return "already_named"
	}

	if err := b.store.SetPhotoName(ctx, photo, msg.Text); err != nil {
		slog.Error("set photo name", "photo", photo, "error", err)
		b.sendError(ctx, chatID, msg.MessageID)
		return "error"
	}

	b.reply(ctx, chatID, msg.MessageID, fmt.Sprintf("Saved this photo with the name %s", msg.Text))
	return "labeled"
}

// handleGetFace sends one unnamed crop and records the sent message so the
// eventual reply can be traced back to the crop.
func (b *Bot) handleGetFace(ctx context.Context, chatID, messageID int64) string {
	face, err := b.store.GetFaceWithoutName(ctx)
	if err != nil {
		slog.Error("get face without name", "error", err)
		b.sendError(ctx, chatID, messageID)
		return "error"
	}
	if face == "" {
		b.reply(ctx, chatID, messageID, msgNoFacesLeft)
		return "no_faces_left"
	}

	faceURL := fmt.Sprintf("https://%s/?face=%s", b.gatewayHost, url.QueryEscape(face))
	sentID, err := b.tg.SendPhoto(ctx, chatID, faceURL)
	if err != nil {
		slog.Error("send face photo", "face", face, "error", err)
		b.sendError(ctx, chatID, messageID)
		return "error"
	}

	if err := b.store.SaveMessage(ctx, chatID, sentID, face); err != nil {
		slog.Error("save sent message", "face", face, "error", err)
		b.sendError(ctx, chatID, messageID)
		return "error"
	}
	return "face_sent"
}

// handleFind sends every original photo labeled with name, one message per
// match.
func (b *Bot) handleFind(ctx context.Context, chatID, messageID int64, name string) string {
	originals, err := b.store.GetPhotosByName(ctx, name)
	if err != nil {
		slog.Error("find photos by name", "name", name, "error", err)
		b.sendError(ctx, chatID, messageID)
		return "error"
	}
	if len(originals) == 0 {
		b.reply(ctx, chatID, messageID, fmt.Sprintf("No photos found for %s", name))
		return "not_found"
	}

	for _, original := range originals {
		photoURL := fmt.Sprintf("https://%s/original/?photo=%s", b.gatewayHost, url.QueryEscape(original))
		if _, err := b.tg.SendPhoto(ctx, chatID, photoURL); err != nil {
			slog.Error("send original photo", "photo", original, "error", err)
		}
	}
	return "found"
}

func (b *Bot) reply(ctx context.Context, chatID, messageID int64, text string) {
	if err := b.tg.SendMessage(ctx, chatID, text, messageID); err != nil {
		slog.Error("send reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendError(ctx context.Context, chatID, messageID int64) {
	b.reply(ctx, chatID, messageID, msgError)
}
