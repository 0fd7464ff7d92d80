package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/notify"
	"github.com/ngo-portal/portal-backend/internal/portal/seed"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
)

const DefaultIdleTTL = 30 * time.Minute

// Config wires a Manager. Backend, Bundle and Seed are required.
type Config struct {
	Backend Backend
	Bundle  *locale.Bundle
	Seed    seed.Data

	Logger   *zap.Logger
	Recorder service.Recorder
	// Publisher, when set, receives every workspace's notifications in
	// addition to the feed and the log.
	Publisher func(workspaceID string) notify.Notifier
	// OnCount is called with the number of live workspaces after every
	// change.
	OnCount func(n int)

	IdleTTL time.Duration
	// MaxWorkspaces caps the live workspaces; zero means no cap.
	MaxWorkspaces int
	FeedSize      int
	Clock         func() time.Time
}

// Manager holds the live workspaces.
type Manager struct {
	cfg Config

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Bundle == nil {
		return nil, fmt.Errorf("session manager: locale bundle is required")
	}
	if cfg.Backend.NGOs == nil || cfg.Backend.AdminProjects == nil || cfg.Backend.NGOProjects == nil {
		return nil, fmt.Errorf("session manager: backend is incomplete")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Manager{cfg: cfg, workspaces: make(map[string]*Workspace)}, nil
}

// Create starts a seeded workspace displayed in lang. It fails with
// domain.ErrSessionLimit once MaxWorkspaces are live.
func (m *Manager) Create(ctx context.Context, lang language.Tag) (*Workspace, error) {
	if m.full() {
		return nil, domain.ErrSessionLimit
	}

	id := uuid.NewString()
	w := m.build(id, lang)
	if err := w.Reset(ctx); err != nil {
		_ = w.close(ctx)
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	m.mu.Lock()
	if max := m.cfg.MaxWorkspaces; max > 0 && len(m.workspaces) >= max {
		m.mu.Unlock()
		_ = w.close(ctx)
		return nil, domain.ErrSessionLimit
	}
	m.workspaces[id] = w
	n := len(m.workspaces)
	m.mu.Unlock()

	m.count(n)
	m.cfg.Logger.Info("workspace created",
		zap.String("workspace", id),
		zap.String("backend", m.cfg.Backend.Name),
		zap.String("lang", w.Language().String()),
	)
	return w, nil
}

func (m *Manager) full() bool {
	if m.cfg.MaxWorkspaces <= 0 {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces) >= m.cfg.MaxWorkspaces
}

func (m *Manager) build(id string, lang language.Tag) *Workspace {
	feed := notify.NewFeed(m.cfg.FeedSize)
	notifiers := notify.Multi{feed, notify.NewLogNotifier(m.cfg.Logger, id)}
	if m.cfg.Publisher != nil {
		notifiers = append(notifiers, m.cfg.Publisher(id))
	}

	w := &Workspace{
		ID:       id,
		Feed:     feed,
		bundle:   m.cfg.Bundle,
		seed:     m.cfg.Seed,
		lastSeen: m.cfg.Clock(),
	}
	w.SetLanguage(lang)

	opts := service.Options{
		Notifier:  notifiers,
		Localizer: w.Localizer,
		Clock:     m.cfg.Clock,
		Recorder:  m.cfg.Recorder,
	}

	ngos := m.cfg.Backend.NGOs(id, service.ScreenNGOs)
	adminProjects := m.cfg.Backend.AdminProjects(id, service.ScreenAdminProjects)
	ngoProjects := m.cfg.Backend.NGOProjects(id, service.ScreenNGOProjects)
	w.drops = droppers(ngos, adminProjects, ngoProjects)
	w.touches = touchers(ngos, adminProjects, ngoProjects)

	w.NGOs = service.NewScreen[domain.NGO, domain.NGODraft](service.NGOBlueprint{}, ngos, opts)
	w.AdminProjects = service.NewScreen[domain.AdminProject, domain.AdminProjectDraft](service.AdminProjectBlueprint{}, adminProjects, opts)
	w.NGOProjects = service.NewScreen[domain.NGOProject, domain.NGOProjectDraft](service.NGOProjectBlueprint{}, ngoProjects, opts)
	return w
}

func droppers(stores ...any) []dropper {
	var out []dropper
	for _, s := range stores {
		if d, ok := s.(dropper); ok {
			out = append(out, d)
		}
	}
	return out
}

func touchers(stores ...any) []toucher {
	var out []toucher
	for _, s := range stores {
		if t, ok := s.(toucher); ok {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the workspace with the given id and marks it as active. A
// workspace idle for longer than the TTL is removed and reported as not
// found even when the sweeper has not reached it yet.
func (m *Manager) Get(ctx context.Context, id string) (*Workspace, error) {
	m.mu.RLock()
	w, ok := m.workspaces[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	now := m.cfg.Clock()
	if w.LastSeen().Before(now.Add(-m.cfg.IdleTTL)) {
		if err := m.Remove(ctx, id); err != nil {
			m.cfg.Logger.Warn("failed to close expired workspace", zap.String("workspace", id), zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if err := w.touch(ctx, now); err != nil {
		return nil, err
	}
	return w, nil
}

// Reset reseeds the workspace, as a page reload would.
func (m *Manager) Reset(ctx context.Context, id string) (*Workspace, error) {
	w, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset workspace %s: %w", id, err)
	}
	m.cfg.Logger.Info("workspace reset", zap.String("workspace", id))
	return w, nil
}

// Remove closes and forgets the workspace. Removing an unknown id is not
// an error.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	w, ok := m.workspaces[id]
	delete(m.workspaces, id)
	n := len(m.workspaces)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	m.count(n)
	return w.close(ctx)
}

// Sweep removes workspaces idle for longer than the configured TTL and
// returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.cfg.Clock().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	var idle []*Workspace
	for id, w := range m.workspaces {
		if w.LastSeen().Before(cutoff) {
			idle = append(idle, w)
			delete(m.workspaces, id)
		}
	}
	n := len(m.workspaces)
	m.mu.Unlock()

	if len(idle) == 0 {
		return 0
	}
	m.count(n)
	for _, w := range idle {
		if err := w.close(ctx); err != nil {
			m.cfg.Logger.Warn("failed to close idle workspace", zap.String("workspace", w.ID), zap.Error(err))
		}
	}
	return len(idle)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// Close removes every workspace.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	all := m.workspaces
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()

	m.count(0)
	var firstErr error
	for _, w := range all {
		if err := w.close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Manager) count(n int) {
	if m.cfg.OnCount != nil {
		m.cfg.OnCount(n)
	}
}
