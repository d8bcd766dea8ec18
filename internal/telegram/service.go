// Package telegram is the bot surface: it wires chat commands and inline
// buttons to the query handlers.
package telegram

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	tb "gopkg.in/telebot.v3"

	"pushbot/internal/caching"
	"pushbot/internal/queries"
)

// Telegram client
type Telegram struct {
	stop chan struct{}
	bot  *tb.Bot

	registry *queries.Registry
	repeat   *caching.RepeatStore
	logger   logSDK.Logger

	// testChatID restricts command handling to one chat when non-zero.
	testChatID int64

	resultButtons *tb.ReplyMarkup
	btnRepeat     tb.Btn
	btnDelete     tb.Btn
}

// New creates a new telegram client and starts polling.
func New(ctx context.Context,
	registry *queries.Registry,
	repeat *caching.RepeatStore,
	logger logSDK.Logger,
	token, api string,
	testChatID int64) (*Telegram, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token: token,
		URL:   api,
		Poller: &tb.LongPoller{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "new telegram bot")
	}

	tel := &Telegram{
		stop:       make(chan struct{}),
		bot:        bot,
		registry:   registry,
		repeat:     repeat,
		logger:     logger.Named("telegram"),
		testChatID: testChatID,
	}

	tel.registerHandlers()

	go bot.Start()
	go func() {
		select {
		case <-ctx.Done():
		case <-tel.stop:
		}
		bot.Stop()
	}()

	return tel, nil
}

// Stop stops telegram polling
func (s *Telegram) Stop() {
	s.stop <- struct{}{}
}

// ignore reports whether updates from this chat should be dropped, used to
// restrict a test deployment to a single chat.
func (s *Telegram) ignore(chat *tb.Chat) bool {
	return s.testChatID != 0 && (chat == nil || chat.ID != s.testChatID)
}
