package telegram

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"pushbot/internal/caching"
	"pushbot/internal/queries"
)

const searchTimeout = 2 * time.Minute

func (s *Telegram) registerHandlers() {
	menu := &tb.ReplyMarkup{}
	s.btnRepeat = menu.Data("🔁", "repeat")
	s.btnDelete = menu.Data("🗑", "delete")
	menu.Inline(menu.Row(s.btnRepeat, s.btnDelete))
	s.resultButtons = menu

	s.bot.Handle("/search", s.searchHandler(queries.KindSearch))
	s.bot.Handle("/nsfw", s.searchHandler(queries.KindNsfw))
	s.bot.Handle("/sfw", s.searchHandler(queries.KindSfw))
	s.bot.Handle(&s.btnRepeat, s.repeatHandler)
	s.bot.Handle(&s.btnDelete, s.deleteHandler)
}

func (s *Telegram) searchHandler(kind queries.Kind) tb.HandlerFunc {
	return func(c tb.Context) error {
		if s.ignore(c.Chat()) {
			return nil
		}

		query := strings.TrimSpace(c.Message().Payload)
		if query == "" {
			return c.Send("Usage: /" + string(kind) + " <query>")
		}

		handler, err := s.registry.Get(string(kind))
		if err != nil {
			return errors.Wrap(err, "resolve handler")
		}

		// let the user know we're on it, searching can take a while
		_ = c.Notify(tb.Typing)

		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		return s.deliver(ctx, c.Chat(), handler, query)
	}
}

// deliver runs one SearchNext round and sends the outcome to the chat.
func (s *Telegram) deliver(ctx context.Context,
	chat *tb.Chat, handler *queries.Handler, query string) error {
	result, finished, err := handler.SearchNext(ctx, query, chat.ID)
	if err != nil {
		s.logger.Error("search next",
			zap.Error(err),
			zap.String("query", query),
			zap.Int64("chat", chat.ID))

		// don't leak internals into the chat
		if _, err = s.bot.Send(chat, msgSearchFailed); err != nil {
			return errors.Wrap(err, "send error msg")
		}

		return nil
	}

	if result == nil {
		text := msgNoResults(query)
		if finished {
			text = msgNoMoreResults(query)
		}

		if _, err = s.bot.Send(chat, text); err != nil {
			return errors.Wrap(err, "send msg")
		}

		return nil
	}

	msg, err := s.bot.Send(chat, result.FinalURL(), s.resultButtons)
	if err != nil {
		return errors.Wrap(err, "send result")
	}

	// remember which handler and query produced this message so the repeat
	// button can re-invoke them later
	if err = s.repeat.Watch(ctx, chat.ID, msg.ID, caching.RepeatData{
		Query:   query,
		Handler: string(handler.Kind()),
	}); err != nil {
		s.logger.Warn("watch repeat", zap.Error(err), zap.Int("message", msg.ID))
	}

	return nil
}

func (s *Telegram) repeatHandler(c tb.Context) error {
	// acknowledge the interaction
	defer func() { _ = c.Respond() }()

	msg := c.Message()
	if msg == nil || s.ignore(msg.Chat) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	data, err := s.repeat.Get(ctx, msg.Chat.ID, msg.ID)
	if err != nil {
		if errors.Is(err, caching.ErrNoRepeatData) {
			s.logger.Warn("missing repeat data", zap.Int("message", msg.ID))
			return c.Send(msgLostContext)
		}

		return errors.Wrap(err, "get repeat data")
	}

	handler, err := s.registry.Get(data.Handler)
	if err != nil {
		// a persisted kind we no longer know points at a deployment
		// inconsistency, nothing useful to tell the user
		s.logger.Error("resolve repeat handler",
			zap.Error(err),
			zap.String("handler", data.Handler))
		return nil
	}

	_ = c.Notify(tb.Typing)

	return s.deliver(ctx, msg.Chat, handler, data.Query)
}

func (s *Telegram) deleteHandler(c tb.Context) error {
	// the interaction needs acknowledging even though the message is
	// about to disappear
	defer func() { _ = c.Respond() }()

	msg := c.Message()
	if msg == nil || s.ignore(msg.Chat) {
		return nil
	}

	if err := c.Delete(); err != nil {
		return errors.Wrap(err, "delete message")
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()
	s.repeat.Purge(ctx, msg.Chat.ID, msg.ID)

	s.logger.Info("deleted message",
		zap.Int("message", msg.ID),
		zap.String("user", c.Sender().Username))

	return nil
}
