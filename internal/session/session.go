package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/model"
	"DiamondQuest/internal/storage"

	log "github.com/sirupsen/logrus"
)

// CandidateThreshold is the number of lookup matches from which the user is
// asked to pick an account instead of being logged in as the first match.
const CandidateThreshold = 4

var (
	ErrEmptyIdentifier  = errors.New("identifier is empty")
	ErrUnknownCandidate = errors.New("candidate was not offered")
)

// LoginStatus tells the caller what Login did.
type LoginStatus int

const (
	LoggedIn LoginStatus = iota
	ChooseCandidate
)

func (s LoginStatus) String() string {
	if s == ChooseCandidate {
		return "choose-candidate"
	}
	return "logged-in"
}

func (s LoginStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LoginResult is returned by Login. Candidates is set only for ChooseCandidate.
type LoginResult struct {
	Status     LoginStatus      `json:"status"`
	Identity   model.Identity   `json:"identity"`
	Candidates []model.Identity `json:"candidates,omitempty"`
}

// Manager owns the single active identity session.
type Manager struct {
	mu        sync.Mutex
	store     storage.Store
	fetcher   collector.IdentityFetcher
	current   *model.Identity
	pending   []model.Identity
	resetters []func()
}

// NewManager restores a persisted session from store, if any. Hooks in
// onLogout run after the store is wiped so in-memory state can follow.
func NewManager(store storage.Store, fetcher collector.IdentityFetcher, onLogout ...func()) *Manager {
	m := &Manager{store: store, fetcher: fetcher, resetters: onLogout}

	var id model.Identity
	ok, err := storage.GetJSON(store, storage.KeySession, &id)
	switch {
	case err != nil:
		log.Warnf("session: stored session unreadable, discarding: %v", err)
		if err := store.Delete(storage.KeySession); err != nil {
			log.Errorf("session: failed to discard stored session: %v", err)
		}
	case ok:
		m.current = &id
	}
	return m
}

// Current returns the active identity.
func (m *Manager) Current() (model.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return model.Identity{}, false
	}
	return *m.current, true
}

// Login looks identifier up. One to three matches log in as the first match;
// CandidateThreshold or more return the candidates without a session. No
// match or a failed lookup logs in unverified: login never hard-fails.
func (m *Manager) Login(ctx context.Context, identifier string) (LoginResult, error) {
	handle := strings.TrimSpace(identifier)
	if handle == "" {
		return LoginResult{}, ErrEmptyIdentifier
	}

	m.mu.Lock()
	m.current = nil
	m.pending = nil
	m.mu.Unlock()
	if err := m.store.Delete(storage.KeySession); err != nil {
		log.Errorf("session: failed to clear previous session: %v", err)
	}

	users, err := m.fetcher.SearchUsers(ctx, handle)
	if err != nil {
		log.Warnf("session: identity lookup for %q failed, logging in unverified: %v", handle, err)
		return m.establish(model.UnverifiedIdentity(handle)), nil
	}

	switch {
	case len(users) == 0:
		log.Infof("session: no account named %q, logging in unverified", handle)
		return m.establish(model.UnverifiedIdentity(handle)), nil

	case len(users) >= CandidateThreshold:
		candidates := collector.WithAvatars(ctx, m.fetcher, users)
		m.mu.Lock()
		m.pending = candidates
		m.mu.Unlock()
		return LoginResult{Status: ChooseCandidate, Candidates: candidates}, nil

	default:
		user := collector.WithAvatars(ctx, m.fetcher, users[:1])[0]
		return m.establish(user), nil
	}
}

// Select establishes the session from a candidate returned by Login.
func (m *Manager) Select(candidateID string) (model.Identity, error) {
	m.mu.Lock()
	var chosen *model.Identity
	for i := range m.pending {
		if m.pending[i].ID == candidateID {
			c := m.pending[i]
			chosen = &c
			break
		}
	}
	m.mu.Unlock()

	if chosen == nil {
		return model.Identity{}, ErrUnknownCandidate
	}
	return m.establish(*chosen).Identity, nil
}

// Logout ends the session and wipes every persisted value: balance, gates
// and claims go with the identity.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.current = nil
	m.pending = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		log.Errorf("session: failed to wipe storage on logout: %v", err)
	}
	for _, reset := range m.resetters {
		reset()
	}
	log.Info("session: logged out, state reset")
}

func (m *Manager) establish(id model.Identity) LoginResult {
	m.mu.Lock()
	m.current = &id
	m.pending = nil
	m.mu.Unlock()

	if err := storage.SetJSON(m.store, storage.KeySession, id); err != nil {
		log.Errorf("session: failed to save session: %v", err)
	}
	log.WithFields(log.Fields{"username": id.Username, "verified": id.Verified}).Info("session established")
	return LoginResult{Status: LoggedIn, Identity: id}
}
