package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"DiamondQuest/internal/model"

	"github.com/caarlos0/env/v11"
	"github.com/gosimple/slug"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Listen       string `yaml:"listen" env:"LISTEN_ADDR"`
		PublicURL    string `yaml:"public_url" env:"PUBLIC_URL"`
		AllowOrigins string `yaml:"allow_origins" env:"ALLOWED_ORIGINS"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
		Path   string `yaml:"path" env:"STORAGE_PATH"`
	} `yaml:"storage"`
	Recorder struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"recorder"`
	Identity struct {
		UsersURL      string `yaml:"users_url" env:"ROBLOX_USERS_URL"`
		ThumbnailsURL string `yaml:"thumbnails_url" env:"ROBLOX_THUMBNAILS_URL"`
		Mock          bool   `yaml:"mock" env:"IDENTITY_MOCK"`
	} `yaml:"identity"`
	Offers struct {
		BaseURL     string        `yaml:"base_url" env:"OFFERS_BASE_URL"`
		Token       string        `yaml:"token" env:"OFFERS_API_TOKEN"`
		Max         int           `yaml:"max"`
		Min         int           `yaml:"min"`
		CType       int           `yaml:"ctype"`
		IPLookupURL string        `yaml:"ip_lookup_url" env:"IP_LOOKUP_URL"`
		FallbackURL string        `yaml:"fallback_url"`
		UserAgent   string        `yaml:"user_agent"`
		CacheTTL    time.Duration `yaml:"cache_ttl" env:"OFFERS_CACHE_TTL"`

		// CallbackSecret authenticates offer completion callbacks.
		CallbackSecret string `yaml:"callback_secret" env:"OFFERS_CALLBACK_SECRET"`
	} `yaml:"offers"`
	Telegram struct {
		BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`
	Schedule struct {
		Tick          string `yaml:"tick_cron" env:"CRON_TICK"`
		Rollover      string `yaml:"rollover_cron" env:"CRON_ROLLOVER"`
		RefreshOffers string `yaml:"refresh_offers_cron" env:"CRON_REFRESH_OFFERS"`
	} `yaml:"schedule"`
	Rewards struct {
		DailyChest        int64         `yaml:"daily_chest" env:"DAILY_CHEST_REWARD"`
		LuckySpinPrizes   []int64       `yaml:"lucky_spin_prizes" env:"LUCKY_SPIN_PRIZES" envSeparator:","`
		SpinDuration      time.Duration `yaml:"spin_duration"`
		RushDuration      time.Duration `yaml:"rush_duration"`
		RushSpawnInterval time.Duration `yaml:"rush_spawn_interval"`
		RushTokenLifetime time.Duration `yaml:"rush_token_lifetime"`
		RushCap           int           `yaml:"rush_cap"`
		ProofReviewDelay  time.Duration `yaml:"proof_review_delay" env:"PROOF_REVIEW_DELAY"`
		OfferCooldown     time.Duration `yaml:"offer_cooldown"`
	} `yaml:"rewards"`
	Shares   []model.ShareOption    `yaml:"shares"`
	Exchange []model.ExchangeOption `yaml:"exchange"`
	Timezone string                 `yaml:"timezone"`
	Log      struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then a .env file, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.parseEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// parseEnv applies environment overrides section by section; the share and
// exchange catalogs are file-only.
func (c *Config) parseEnv() error {
	top := struct {
		Timezone string `env:"ARENA_TIMEZONE"`
		Proxy    string `env:"HTTPS_PROXY"`
	}{c.Timezone, c.Proxy}

	for _, target := range []any{
		&c.Server, &c.Storage, &c.Recorder, &c.Identity, &c.Offers,
		&c.Telegram, &c.Schedule, &c.Rewards, &c.Log, &top,
	} {
		if err := env.Parse(target); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	c.Timezone, c.Proxy = top.Timezone, top.Proxy
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/arena_state.json"
	}
	if c.Identity.UsersURL == "" {
		c.Identity.UsersURL = "https://users.roblox.com"
	}
	if c.Identity.ThumbnailsURL == "" {
		c.Identity.ThumbnailsURL = "https://thumbnails.roblox.com"
	}
	if c.Offers.BaseURL == "" {
		c.Offers.BaseURL = "https://unlockcontent.net/api/v2"
	}
	if c.Offers.Max == 0 {
		c.Offers.Max = 6
	}
	if c.Offers.Min == 0 {
		c.Offers.Min = 3
	}
	if c.Offers.CType == 0 {
		c.Offers.CType = 7
	}
	if c.Offers.IPLookupURL == "" {
		c.Offers.IPLookupURL = "https://api.ipify.org?format=json"
	}
	if c.Offers.FallbackURL == "" {
		c.Offers.FallbackURL = "https://areyourealhuman.com/cl/i/g6pqp2"
	}
	if c.Offers.UserAgent == "" {
		c.Offers.UserAgent = "DiamondQuest/1.0"
	}
	if c.Offers.CacheTTL == 0 {
		c.Offers.CacheTTL = 5 * time.Minute
	}
	if c.Schedule.Tick == "" {
		c.Schedule.Tick = "* * * * * *"
	}
	if c.Schedule.Rollover == "" {
		c.Schedule.Rollover = "0 0 0 * * *"
	}
	if c.Schedule.RefreshOffers == "" {
		c.Schedule.RefreshOffers = "0 */5 * * * *"
	}
	if c.Rewards.DailyChest == 0 {
		c.Rewards.DailyChest = 20
	}
	if len(c.Rewards.LuckySpinPrizes) == 0 {
		c.Rewards.LuckySpinPrizes = []int64{20, 49, 37, 19, 100, 99, 1}
	}
	if c.Rewards.SpinDuration == 0 {
		c.Rewards.SpinDuration = 4 * time.Second
	}
	if c.Rewards.RushDuration == 0 {
		c.Rewards.RushDuration = 25 * time.Second
	}
	if c.Rewards.RushSpawnInterval == 0 {
		c.Rewards.RushSpawnInterval = 700 * time.Millisecond
	}
	if c.Rewards.RushTokenLifetime == 0 {
		c.Rewards.RushTokenLifetime = 2 * time.Second
	}
	if c.Rewards.RushCap == 0 {
		c.Rewards.RushCap = 100
	}
	if c.Rewards.ProofReviewDelay == 0 {
		c.Rewards.ProofReviewDelay = 2 * time.Second
	}
	if c.Rewards.OfferCooldown == 0 {
		c.Rewards.OfferCooldown = 30 * time.Second
	}
	if len(c.Shares) == 0 {
		c.Shares = model.DefaultShareOptions(c.Server.PublicURL, "Earn free diamonds in Diamond Quest Arena!")
	}
	if len(c.Exchange) == 0 {
		c.Exchange = model.DefaultExchangeOptions()
	}
	for i := range c.Shares {
		if c.Shares[i].ID == "" {
			c.Shares[i].ID = slug.Make(c.Shares[i].Name)
		}
	}
	for i := range c.Exchange {
		if c.Exchange[i].ID == "" {
			c.Exchange[i].ID = slug.Make(c.Exchange[i].Name)
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Location resolves the configured timezone. Empty means the host's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "file", "sqlite":
	default:
		return fmt.Errorf("storage.driver must be memory, file or sqlite, got %q", c.Storage.Driver)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Rewards.DailyChest <= 0 {
		return fmt.Errorf("rewards.daily_chest must be positive")
	}
	for i, p := range c.Rewards.LuckySpinPrizes {
		if p <= 0 {
			return fmt.Errorf("rewards.lucky_spin_prizes[%d] must be positive", i)
		}
	}
	if c.Rewards.RushCap <= 0 {
		return fmt.Errorf("rewards.rush_cap must be positive")
	}
	for name, d := range map[string]time.Duration{
		"spin_duration":       c.Rewards.SpinDuration,
		"rush_duration":       c.Rewards.RushDuration,
		"rush_spawn_interval": c.Rewards.RushSpawnInterval,
		"rush_token_lifetime": c.Rewards.RushTokenLifetime,
	} {
		if d <= 0 {
			return fmt.Errorf("rewards.%s must be positive", name)
		}
	}

	seen := map[string]bool{}
	for _, s := range c.Shares {
		if s.ID == "" || seen[s.ID] {
			return fmt.Errorf("shares: missing or duplicate id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Reward < 0 {
			return fmt.Errorf("shares.%s: reward must not be negative", s.ID)
		}
	}
	seen = map[string]bool{}
	for _, e := range c.Exchange {
		if e.ID == "" || seen[e.ID] {
			return fmt.Errorf("exchange: missing or duplicate id %q", e.ID)
		}
		seen[e.ID] = true
		if len(e.Rates) == 0 {
			return fmt.Errorf("exchange.%s: at least one rate is required", e.ID)
		}
		for _, r := range e.Rates {
			if r.Diamonds <= 0 {
				return fmt.Errorf("exchange.%s: diamonds must be positive", e.ID)
			}
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
