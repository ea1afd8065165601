package reminder

import (
	"log/slog"
	"sync"
	"time"
)

// Manager hands out one Controller per user, starting a background
// poll loop alongside it and stopping the loop when the user's session
// ends.
type Manager struct {
	src      GoalSource
	mut      GoalMutator
	interval time.Duration

	mu          sync.Mutex
	controllers map[string]*managed
}

type managed struct {
	ctl  *Controller
	stop chan struct{}
}

func NewManager(src GoalSource, mut GoalMutator, interval time.Duration) *Manager {
	return &Manager{
		src:         src,
		mut:         mut,
		interval:    interval,
		controllers: make(map[string]*managed),
	}
}

// Controller returns the user's controller, creating it and starting
// its poll loop on first access.
func (m *Manager) Controller(userID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mc, ok := m.controllers[userID]; ok {
		return mc.ctl
	}

	mc := &managed{
		ctl:  NewController(userID, m.src, m.mut),
		stop: make(chan struct{}),
	}
	m.controllers[userID] = mc
	go m.poll(userID, mc)
	return mc.ctl
}

// Forget tells the user's controller a goal no longer exists. A user
// with no controller yet has nothing to forget.
func (m *Manager) Forget(userID, goalID string) {
	m.mu.Lock()
	mc, ok := m.controllers[userID]
	m.mu.Unlock()

	if ok {
		mc.ctl.Forget(goalID)
	}
}

// Drop tears down the user's controller, e.g. on logout.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mc, ok := m.controllers[userID]
	if !ok {
		return
	}
	close(mc.stop)
	delete(m.controllers, userID)
}

// Close stops all poll loops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, mc := range m.controllers {
		close(mc.stop)
		delete(m.controllers, id)
	}
}

func (m *Manager) poll(userID string, mc *managed) {
	// Scan once immediately so a freshly opened session sees its due
	// reminders without waiting a full interval.
	err := mc.ctl.Refresh()
	if err != nil {
		slog.Warn("reminder refresh failed", "error", err, "user_id", userID)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-mc.stop:
			return
		case <-ticker.C:
			err := mc.ctl.Refresh()
			if err != nil {
				slog.Warn("reminder refresh failed", "error", err, "user_id", userID)
			}
		}
	}
}
