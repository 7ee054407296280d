package recorder

import "DiamondQuest/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReward(_ *RewardEvent) error             { return nil }
func (n *NoopRecorder) RecordExchange(_ *model.ExchangeRecord) error { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
