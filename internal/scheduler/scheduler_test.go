package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/model"
	"DiamondQuest/internal/notifier"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockArena struct{ mock.Mock }

func (m *mockArena) Tick(context.Context) { m.Called() }
func (m *mockArena) Today() string        { return m.Called().String(0) }
func (m *mockArena) Balance() int64       { return int64(m.Called().Int(0)) }
func (m *mockArena) CurrentUser() (model.Identity, bool) {
	args := m.Called()
	return args.Get(0).(model.Identity), args.Bool(1)
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), &mockArena{}, nil, notifier.NewInbox(5), time.UTC)
	require.NoError(t, s.RegisterAll(Specs{Tick: "* * * * * *", Rollover: "0 0 0 * * *"}))
	assert.Len(t, s.Cron.Entries(), 2)

	assert.Error(t, s.RegisterAll(Specs{Tick: "every tuesday", Rollover: "0 0 0 * * *"}))
}

func TestRolloverSchedule_LocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse("0 0 0 * * *")
	require.NoError(t, err)
	from := time.Date(2026, time.October, 16, 23, 59, 30, 0, loc)
	assert.Equal(t, time.Date(2026, time.October, 17, 0, 0, 0, 0, loc), sched.Next(from))
}

func TestTickAdvancesArena(t *testing.T) {
	a := &mockArena{}
	a.On("Tick").Return().Once()
	s := NewScheduler(context.Background(), a, nil, notifier.NewInbox(5), time.UTC)
	s.tick()
	a.AssertExpectations(t)
}

func TestRollover_NotifiesLoggedInUser(t *testing.T) {
	a := &mockArena{}
	a.On("CurrentUser").Return(model.Identity{Username: "alice"}, true)
	a.On("Today").Return("Sat Oct 17 2026")
	a.On("Balance").Return(1200)
	inbox := notifier.NewInbox(5)

	NewScheduler(context.Background(), a, nil, inbox, time.UTC).rollover()
	got := inbox.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, "New Day!", got[0].Title)
	assert.Contains(t, got[0].Message, "Sat Oct 17 2026")
	assert.Contains(t, got[0].Message, "1,200 diamonds")
}

func TestRollover_SkipsWithoutSession(t *testing.T) {
	a := &mockArena{}
	a.On("CurrentUser").Return(model.Identity{}, false)
	inbox := notifier.NewInbox(5)

	NewScheduler(context.Background(), a, nil, inbox, time.UTC).rollover()
	assert.Empty(t, inbox.Drain())
}

func TestRefreshOffers(t *testing.T) {
	fetcher := &collector.MockOfferFetcher{Offers: collector.SampleOffers("https://x")}
	feed := collector.NewOfferFeed(fetcher, clockwork.NewFakeClock(), time.Hour, "ua")
	s := NewScheduler(context.Background(), &mockArena{}, feed, notifier.NewInbox(5), time.UTC)

	s.refreshOffers()
	assert.Equal(t, 1, fetcher.Calls())

	fetcher.Err = errors.New("down")
	s.refreshOffers()
	assert.Len(t, feed.Offers(context.Background(), collector.OfferRequest{}), 3, "cache survives a failed refresh")
}
