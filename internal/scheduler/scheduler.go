package scheduler

import (
	"context"
	"fmt"
	"time"

	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/model"
	"DiamondQuest/internal/notifier"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Arena is the part of the game core the scheduler drives.
type Arena interface {
	Tick(ctx context.Context)
	Today() string
	Balance() int64
	CurrentUser() (model.Identity, bool)
}

// Specs are the cron expressions (with seconds) of each job.
type Specs struct {
	Tick          string
	Rollover      string
	RefreshOffers string
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Arena    Arena
	Offers   *collector.OfferFeed
	Notifier notifier.Notifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler running in loc.
func NewScheduler(ctx context.Context, a Arena, offers *collector.OfferFeed, n notifier.Notifier, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Arena:    a,
		Offers:   offers,
		Notifier: n,
		Ctx:      ctx,
	}
}

// RegisterAll registers the tick, rollover, and offer refresh tasks.
func (s *Scheduler) RegisterAll(specs Specs) error {
	if _, err := s.Cron.AddFunc(specs.Tick, s.tick); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	if _, err := s.Cron.AddFunc(specs.Rollover, s.rollover); err != nil {
		return fmt.Errorf("register rollover task: %w", err)
	}
	if specs.RefreshOffers != "" {
		if _, err := s.Cron.AddFunc(specs.RefreshOffers, s.refreshOffers); err != nil {
			return fmt.Errorf("register offer refresh task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

func (s *Scheduler) tick() {
	s.Arena.Tick(s.Ctx)
}

// rollover announces the new day's activities to a logged-in user.
func (s *Scheduler) rollover() {
	if _, ok := s.Arena.CurrentUser(); !ok {
		return
	}
	day := s.Arena.Today()
	log.WithField("day", day).Info("daily activities reset")
	s.trySend(model.Toast{
		Title:   "New Day!",
		Message: notifier.FormatRollover(day, s.Arena.Balance()),
		Variant: model.ToastInfo,
	})
}

func (s *Scheduler) refreshOffers() {
	if s.Offers == nil {
		return
	}
	offers, err := s.Offers.Refresh(s.Ctx)
	if err != nil {
		log.Warnf("offer refresh failed: %v", err)
		return
	}
	log.Debugf("offer cache refreshed: %d offers", len(offers))
}

func (s *Scheduler) trySend(t model.Toast) {
	if err := s.Notifier.Notify(s.Ctx, t); err != nil {
		log.Errorf("send notification: %v", err)
	}
}
