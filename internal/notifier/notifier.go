package notifier

import (
	"context"
	"errors"
	"sync"

	"DiamondQuest/internal/model"

	log "github.com/sirupsen/logrus"
)

// Notifier delivers user-facing toasts.
type Notifier interface {
	Notify(ctx context.Context, t model.Toast) error
}

// LogNotifier writes toasts to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, t model.Toast) error {
	log.WithField("variant", t.Variant).Infof("toast: %s: %s", t.Title, t.Message)
	return nil
}

// Multi fans a toast out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, t model.Toast) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Inbox keeps the most recent toasts until a client drains them.
type Inbox struct {
	mu     sync.Mutex
	limit  int
	toasts []model.Toast
}

func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 20
	}
	return &Inbox{limit: limit}
}

func (i *Inbox) Notify(_ context.Context, t model.Toast) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.toasts = append(i.toasts, t)
	if over := len(i.toasts) - i.limit; over > 0 {
		i.toasts = append([]model.Toast(nil), i.toasts[over:]...)
	}
	return nil
}

// Drain returns pending toasts oldest first and empties the inbox.
func (i *Inbox) Drain() []model.Toast {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.toasts
	i.toasts = nil
	if out == nil {
		out = []model.Toast{}
	}
	return out
}
