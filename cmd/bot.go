package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"pushbot/internal/caching"
	"pushbot/internal/filters"
	"pushbot/internal/queries"
	"pushbot/internal/telegram"
	rlibs "pushbot/library/db/redis"
	"pushbot/library/log"
)

const defaultCacheTTL = time.Hour

var botCMD = &cobra.Command{
	Use:   "bot",
	Short: "bot",
	Long:  `run the telegram bot until interrupted`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		if err := initialize(context.Background(), cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBot(context.Background()); err != nil {
			log.Logger.Panic("run bot", zap.Error(err))
		}
	},
}

func init() {
	rootCMD.AddCommand(botCMD)
}

func runBot(ctx context.Context) error {
	store, err := newStore()
	if err != nil {
		return errors.Wrap(err, "new cache store")
	}

	ttl := gconfig.Shared.GetDuration("settings.pushbot.cache.ttl")
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	resultsCache := caching.NewResultsCache(store, ttl)
	repeatStore := caching.NewRepeatStore(store, ttl)
	prober := filters.NewProber(log.Logger)
	multiplexer := queries.NewMultiplexer(log.Logger)

	registry := queries.NewRegistry(
		queries.NewHandler(queries.KindSearch, multiplexer, resultsCache, prober, log.Logger),
		queries.NewHandler(queries.KindNsfw, multiplexer, resultsCache, prober, log.Logger),
		queries.NewHandler(queries.KindSfw, multiplexer, resultsCache, prober, log.Logger),
	)

	var testChatID int64
	if gconfig.Shared.GetBool("settings.pushbot.testing.enabled") {
		testChatID = gconfig.Shared.GetInt64("settings.pushbot.testing.chat_id")
		log.Logger.Info("restrict to test chat", zap.Int64("chat", testChatID))
	}

	bot, err := telegram.New(ctx,
		registry,
		repeatStore,
		log.Logger,
		gconfig.Shared.GetString("settings.pushbot.telegram.token"),
		gconfig.Shared.GetString("settings.pushbot.telegram.api"),
		testChatID,
	)
	if err != nil {
		return errors.Wrap(err, "new telegram bot")
	}

	log.Logger.Info("bot started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	bot.Stop()
	log.Logger.Info("bot stopped")

	return nil
}

func newStore() (caching.Store, error) {
	addr := gconfig.Shared.GetString("settings.pushbot.redis.addr")
	if addr == "" {
		log.Logger.Info("no redis configured, using in-process cache store")
		return caching.NewMemoryStore()
	}

	log.Logger.Info("using redis cache store", zap.String("addr", addr))
	return rlibs.NewDB(&redis.Options{
		Addr: addr,
		DB:   gconfig.Shared.GetInt("settings.pushbot.redis.db"),
	}), nil
}
