package session

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSweepSpec = "@every 1m"

// Sweeper periodically evicts idle workspaces.
type Sweeper struct {
	cron    *cron.Cron
	manager *Manager
	logger  *zap.Logger
}

// NewSweeper schedules Manager.Sweep on spec, a cron expression with a
// seconds field or a descriptor such as "@every 30s".
func NewSweeper(m *Manager, spec string, logger *zap.Logger) (*Sweeper, error) {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sweeper{cron: cron.New(cron.WithSeconds()), manager: m, logger: logger}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule session sweep %q: %w", spec, err)
	}
	return s, nil
}

func (s *Sweeper) run() {
	if n := s.manager.Sweep(context.Background()); n > 0 {
		s.logger.Info("evicted idle workspaces",
			zap.Int("evicted", n),
			zap.Int("remaining", s.manager.Len()),
		)
	}
}

func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("session sweeper started")
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to
// end.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
