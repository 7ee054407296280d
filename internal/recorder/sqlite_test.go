package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"DiamondQuest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	evt := &RewardEvent{Username: "alice", Source: "dailyChest", Amount: 20, BalanceAfter: 20}
	require.NoError(t, r.RecordReward(evt))
	assert.NotEmpty(t, evt.ID)
	assert.False(t, evt.Timestamp.IsZero())

	at := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	rec := &model.ExchangeRecord{ID: "x-1", Username: "alice", Game: "ROBLOX", Reward: "1M Robux", Diamonds: 1000, Timestamp: at}
	require.NoError(t, r.RecordExchange(rec))
	assert.Equal(t, "x-1", rec.ID)

	var source string
	var amount int64
	require.NoError(t, r.db.QueryRow(`SELECT source, amount FROM reward_history WHERE id = ?`, evt.ID).Scan(&source, &amount))
	assert.Equal(t, "dailyChest", source)
	assert.Equal(t, int64(20), amount)

	var ts int64
	var diamonds int64
	require.NoError(t, r.db.QueryRow(`SELECT timestamp, diamonds FROM exchange_requests WHERE id = 'x-1'`).Scan(&ts, &diamonds))
	assert.Equal(t, at.Unix(), ts)
	assert.Equal(t, int64(1000), diamonds)

	assert.Error(t, r.RecordExchange(rec), "ids are unique")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordReward(&RewardEvent{}))
	assert.NoError(t, r.RecordExchange(&model.ExchangeRecord{}))
	assert.NoError(t, r.Close())
}
