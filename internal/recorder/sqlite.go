package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"DiamondQuest/internal/model"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the audit history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reward_history (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			username      TEXT,
			source        TEXT NOT NULL,
			amount        INTEGER NOT NULL,
			balance_after INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reward_ts ON reward_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS exchange_requests (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			username  TEXT,
			game      TEXT NOT NULL,
			reward    TEXT NOT NULL,
			diamonds  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exchange_ts ON exchange_requests(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReward(evt *RewardEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = r.now()
	}
	_, err := r.db.Exec(`INSERT INTO reward_history
		(id, timestamp, username, source, amount, balance_after)
		VALUES (?,?,?,?,?,?)`,
		evt.ID, evt.Timestamp.Unix(), evt.Username, evt.Source, evt.Amount, evt.BalanceAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordExchange(rec *model.ExchangeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = r.now()
	}
	_, err := r.db.Exec(`INSERT INTO exchange_requests
		(id, timestamp, username, game, reward, diamonds)
		VALUES (?,?,?,?,?,?)`,
		rec.ID, rec.Timestamp.Unix(), rec.Username, rec.Game, rec.Reward, rec.Diamonds,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
