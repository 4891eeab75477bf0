package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/facetag/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS photos (
	photo          TEXT PRIMARY KEY,
	original_photo TEXT NOT NULL,
	name           TEXT
);

CREATE TABLE IF NOT EXISTS messages (
	chat_id    BIGINT NOT NULL,
	message_id BIGINT NOT NULL,
	photo      TEXT   NOT NULL,
	PRIMARY KEY (chat_id, message_id)
);
`

type PhotoStore struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

func NewPhotoStore(cfg config.DatabaseConfig, retry config.RetryConfig) (*PhotoStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PhotoStore{
		pool:  pool,
		retry: RetryPolicy{Attempts: retry.Attempts, Backoff: retry.Backoff},
	}, nil
}

func (s *PhotoStore) Close() {
	s.pool.Close()
}

func (s *PhotoStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the photos and messages tables if they don't exist.
func (s *PhotoStore) EnsureSchema(ctx context.Context) error {
	return s.retry.Do(ctx, "ensure schema", func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx, schema)
		return err
	})
}

// --- photos ---

// SavePhoto records a freshly cut crop with its source photo. Name starts
// out null and is filled in later through the labeling flow.
func (s *PhotoStore) SavePhoto(ctx context.Context, photo, originalPhoto string) error {
	return s.retry.Do(ctx, "save photo", func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO photos (photo, original_photo) VALUES ($1, $2)`,
			photo, originalPhoto)
		return err
	})
}

// GetFaceWithoutName returns the crop key of an arbitrary unnamed face, or
// "" if every crop has been labeled.
func (s *PhotoStore) GetFaceWithoutName(ctx context.Context) (string, error) {
	var photo string
	err := s.retry.Do(ctx, "get face without name", func(ctx context.Context) error {
		err := s.pool.QueryRow(ctx,
			`SELECT photo FROM photos WHERE name IS NULL LIMIT 1`).Scan(&photo)
		if err == pgx.ErrNoRows {
			photo = ""
			return nil
		}
		return err
	})
	return photo, err
}

// CheckPhotoWithoutName reports whether the crop exists and is still unnamed.
func (s *PhotoStore) CheckPhotoWithoutName(ctx context.Context, photo string) (bool, error) {
	var unnamed bool
	err := s.retry.Do(ctx, "check photo without name", func(ctx context.Context) error {
		var key string
		err := s.pool.QueryRow(ctx,
			`SELECT photo FROM photos WHERE name IS NULL AND photo = $1`, photo).Scan(&key)
		if err == pgx.ErrNoRows {
			unnamed = false
			return nil
		}
		if err != nil {
			return err
		}
		unnamed = true
		return nil
	})
	return unnamed, err
}

// GetOriginalPhoto returns the source object key a crop was cut from.
func (s *PhotoStore) GetOriginalPhoto(ctx context.Context, photo string) (string, error) {
	var original string
	err := s.retry.Do(ctx, "get original photo", func(ctx context.Context) error {
		return s.pool.QueryRow(ctx,
			`SELECT original_photo FROM photos WHERE photo = $1`, photo).Scan(&original)
	})
	return original, err
}

// SetPhotoName labels a single crop row. It reads the crop's original_photo
// first and then upserts the full row; the window between the two statements
// is harmless because original_photo never changes after the crop worker
// inserts it.
func (s *PhotoStore) SetPhotoName(ctx context.Context, photo, name string) error {
	original, err := s.GetOriginalPhoto(ctx, photo)
	if err != nil {
		return err
	}
	return s.retry.Do(ctx, "set photo name", func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO photos (photo, original_photo, name) VALUES ($1, $2, $3)
			 ON CONFLICT (photo) DO UPDATE SET original_photo = $2, name = $3`,
			photo, original, name)
		return err
	})
}

// GetPhotosByName returns the original photo of every crop labeled with the
// exact name.
func (s *PhotoStore) GetPhotosByName(ctx context.Context, name string) ([]string, error) {
	var photos []string
	err := s.retry.Do(ctx, "get photos by name", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx,
			`SELECT original_photo FROM photos WHERE name = $1`, name)
		if err != nil {
			return err
		}
		defer rows.Close()

		photos = photos[:0]
		for rows.Next() {
			var original string
			if err := rows.Scan(&original); err != nil {
				return fmt.Errorf("scan original photo: %w", err)
			}
			photos = append(photos, original)
		}
		return rows.Err()
	})
	return photos, err
}

// --- messages ---

// SaveMessage remembers which crop a bot-sent message depicted.
func (s *PhotoStore) SaveMessage(ctx context.Context, chatID, messageID int64, photo string) error {
	return s.retry.Do(ctx, "save message", func(ctx context.Context) error {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO messages (chat_id, message_id, photo) VALUES ($1, $2, $3)`,
			chatID, messageID, photo)
		return err
	})
}

// GetPhotoByMessage resolves a replied-to bot message back to the crop it
// showed. Returns "" when the message was never recorded.
func (s *PhotoStore) GetPhotoByMessage(ctx context.Context, chatID, messageID int64) (string, error) {
	var photo string
	err := s.retry.Do(ctx, "get photo by message", func(ctx context.Context) error {
		err := s.pool.QueryRow(ctx,
			`SELECT photo FROM messages WHERE chat_id = $1 AND message_id = $2`,
			chatID, messageID).Scan(&photo)
		if err == pgx.ErrNoRows {
			photo = ""
			return nil
		}
		return err
	})
	return photo, err
}
