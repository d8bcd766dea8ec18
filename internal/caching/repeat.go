package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Laisky/errors/v2"
)

// ErrNoRepeatData marks a repeat trigger whose pointer has expired or was
// never recorded; the user gets told the context was lost.
var ErrNoRepeatData = errors.New("no repeat data for message")

// RepeatData is the durable pointer recorded against a delivered message,
// letting a later repeat interaction resolve which handler and query to
// re-invoke.
type RepeatData struct {
	Query   string `json:"query"`
	Handler string `json:"handler"`
}

// RepeatStore persists repeat pointers keyed by (chat, message).
// Telegram message ids are only unique within a chat.
type RepeatStore struct {
	store Store
	ttl   time.Duration
}

// NewRepeatStore is the constructor for RepeatStore.
func NewRepeatStore(store Store, ttl time.Duration) *RepeatStore {
	return &RepeatStore{
		store: store,
		ttl:   ttl,
	}
}

// Watch records the pointer for a delivered message.
func (s *RepeatStore) Watch(ctx context.Context, chatID int64, messageID int, data RepeatData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "marshal repeat data")
	}

	key := repeatKey(chatID, messageID)
	if err = s.store.Set(ctx, key, string(payload), s.ttl); err != nil {
		return errors.Wrap(err, "set repeat data")
	}

	return nil
}

// Get resolves the pointer for a message, returning ErrNoRepeatData when
// it expired or was never recorded.
func (s *RepeatStore) Get(ctx context.Context, chatID int64, messageID int) (RepeatData, error) {
	payload, ok, err := s.store.Get(ctx, repeatKey(chatID, messageID))
	if err != nil {
		return RepeatData{}, errors.Wrap(err, "get repeat data")
	}
	if !ok {
		return RepeatData{}, errors.Wrapf(ErrNoRepeatData, "message %d/%d", chatID, messageID)
	}

	var data RepeatData
	if err = json.Unmarshal([]byte(payload), &data); err != nil {
		return RepeatData{}, errors.Wrap(err, "unmarshal repeat data")
	}

	return data, nil
}

// Purge forgets the pointer for a message, e.g. once the message has been
// deleted. Best effort: a pointer left behind only expires a bit later.
func (s *RepeatStore) Purge(ctx context.Context, chatID int64, messageID int) {
	_, _, _ = s.store.GetDel(ctx, repeatKey(chatID, messageID))
}

func repeatKey(chatID int64, messageID int) string {
	return fmt.Sprintf("%s%d/%d", keyPrefixRepeat, chatID, messageID)
}
