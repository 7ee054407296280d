package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, int64(20), cfg.Rewards.DailyChest)
	assert.Equal(t, []int64{20, 49, 37, 19, 100, 99, 1}, cfg.Rewards.LuckySpinPrizes)
	assert.Equal(t, 25*time.Second, cfg.Rewards.RushDuration)
	assert.Equal(t, 700*time.Millisecond, cfg.Rewards.RushSpawnInterval)
	assert.Equal(t, 100, cfg.Rewards.RushCap)
	assert.Len(t, cfg.Shares, 6)
	assert.Len(t, cfg.Exchange, 2)
	assert.Equal(t, "https://unlockcontent.net/api/v2", cfg.Offers.BaseURL)
}

func TestLoad_YAMLAndSlugIDs(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9000"
rewards:
  daily_chest: 25
  rush_duration: 30s
exchange:
  - name: "Blox Fruits"
    rates:
      - diamonds: 500
        reward: "10k Beli"
timezone: "America/New_York"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, int64(25), cfg.Rewards.DailyChest)
	assert.Equal(t, 30*time.Second, cfg.Rewards.RushDuration)
	require.Len(t, cfg.Exchange, 1)
	assert.Equal(t, "blox-fruits", cfg.Exchange[0].ID)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7000")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("LUCKY_SPIN_PRIZES", "5,10,15")
	t.Setenv("OFFERS_API_TOKEN", "secret")

	cfg, err := Load(writeConfig(t, "server:\n  listen: \":9000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Listen)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, []int64{5, 10, 15}, cfg.Rewards.LuckySpinPrizes)
	assert.Equal(t, "secret", cfg.Offers.Token)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":   func(c *Config) { c.Storage.Driver = "redis" },
		"telegram": func(c *Config) { c.Telegram.BotToken = "x" },
		"prize":    func(c *Config) { c.Rewards.LuckySpinPrizes = []int64{10, 0} },
		"cap":      func(c *Config) { c.Rewards.RushCap = -1 },
		"timezone": func(c *Config) { c.Timezone = "Mars/Olympus" },
		"rate":     func(c *Config) { c.Exchange[0].Rates[0].Diamonds = 0 },
		"dup":      func(c *Config) { c.Shares[1].ID = c.Shares[0].ID },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}
