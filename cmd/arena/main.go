package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DiamondQuest/internal/arena"
	"DiamondQuest/internal/claims"
	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/config"
	"DiamondQuest/internal/games"
	"DiamondQuest/internal/httpapi"
	"DiamondQuest/internal/notifier"
	"DiamondQuest/internal/recorder"
	"DiamondQuest/internal/scheduler"
	"DiamondQuest/internal/storage"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("DiamondQuest arena starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	setupLogging(cfg.Log.Level, cfg.Log.Format)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}
	clock := clockwork.NewRealClock()

	// Init state store
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	// Init identity lookup
	var identity collector.IdentityFetcher
	if cfg.Identity.Mock {
		identity = &collector.MockIdentityFetcher{}
	} else {
		identity = collector.NewRobloxFetcher(cfg.Identity.UsersURL, cfg.Identity.ThumbnailsURL, cfg.Proxy)
	}
	log.Infof("identity source: %s", identity.Name())

	// Init offer feed
	var offerFetcher collector.OfferFetcher
	if cfg.Offers.Token != "" {
		uc := collector.NewUnlockContentFetcher(cfg.Offers.BaseURL, cfg.Offers.Token, cfg.Offers.FallbackURL, cfg.Proxy,
			collector.NewIpifyLookup(cfg.Offers.IPLookupURL, cfg.Proxy))
		uc.Max, uc.Min, uc.CType = cfg.Offers.Max, cfg.Offers.Min, cfg.Offers.CType
		offerFetcher = uc
	} else {
		offerFetcher = &collector.MockOfferFetcher{Offers: collector.SampleOffers(cfg.Offers.FallbackURL)}
	}
	log.Infof("offer source: %s", offerFetcher.Name())
	offers := collector.NewOfferFeed(offerFetcher, clock, cfg.Offers.CacheTTL, cfg.Offers.UserAgent)

	// Init notifiers
	inbox := notifier.NewInbox(50)
	notifiers := notifier.Multi{notifier.LogNotifier{}, inbox}
	if cfg.Telegram.BotToken != "" {
		notifiers = append(notifiers, notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy))
		log.Info("telegram notifications enabled")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Recorder.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	seed := uint64(time.Now().UnixNano())
	a, err := arena.New(arena.Deps{
		Store:    store,
		Clock:    clock,
		Location: loc,
		Identity: identity,
		Offers:   offers,
		Reviewer: claims.DelayReviewer{Clock: clock, Delay: cfg.Rewards.ProofReviewDelay},
		Notifier: notifiers,
		Recorder: rec,
		Rand:     rand.New(rand.NewPCG(seed, seed>>1)),
	}, arena.Options{
		DailyChestReward: cfg.Rewards.DailyChest,
		OfferCooldown:    cfg.Rewards.OfferCooldown,
		Spin: games.SpinConfig{
			Prizes:    cfg.Rewards.LuckySpinPrizes,
			Duration:  cfg.Rewards.SpinDuration,
			FullTurns: games.DefaultSpinConfig().FullTurns,
		},
		Rush: games.RushConfig{
			Duration:      cfg.Rewards.RushDuration,
			SpawnInterval: cfg.Rewards.RushSpawnInterval,
			TokenLifetime: cfg.Rewards.RushTokenLifetime,
			Cap:           cfg.Rewards.RushCap,
		},
		Shares:    cfg.Shares,
		Exchanges: cfg.Exchange,
	})
	if err != nil {
		log.Fatalf("init arena: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, a, offers, notifiers, loc)
	if err := sched.RegisterAll(scheduler.Specs{
		Tick:          cfg.Schedule.Tick,
		Rollover:      cfg.Schedule.Rollover,
		RefreshOffers: cfg.Schedule.RefreshOffers,
	}); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := httpapi.New(a, inbox, httpapi.Options{
		AllowOrigins:   cfg.Server.AllowOrigins,
		CallbackSecret: cfg.Offers.CallbackSecret,
	})
	go func() {
		if err := srv.Listen(cfg.Server.Listen); err != nil {
			log.Errorf("http server: %v", err)
			cancel()
		}
	}()

	log.Info("DiamondQuest arena is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping...")
	case <-ctx.Done():
	}

	if err := srv.Shutdown(); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	cancel()
	log.Info("DiamondQuest arena stopped")
}

func setupLogging(level, format string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
