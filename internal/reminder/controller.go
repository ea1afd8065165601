package reminder

import (
	"errors"
	"sync"
	"time"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

var (
	ErrNotShowing = errors.New("no notification showing for that goal")
)

// sweepInterval is how often the dedup cache is purged of old entries.
const sweepInterval = time.Hour

// GoalSource fetches the current goal list for a user.
type GoalSource interface {
	Goals(userID string) ([]*model.Goal, error)
}

// GoalMutator applies the dismissal mutations the controller can issue.
type GoalMutator interface {
	Complete(userID, goalID string) (*model.Goal, error)
	Snooze(userID, goalID string, until time.Time) (*model.Goal, error)
}

// Controller owns the notification lifecycle for one user: at most one
// reminder is showing at a time, and it leaves the showing state only
// through an explicit dismissal (complete, snooze, or dismiss). All
// scanner and presentation state lives on the instance, constructed per
// user session and torn down on logout, so nothing leaks across users.
type Controller struct {
	userID string
	src    GoalSource
	mut    GoalMutator
	now    func() time.Time

	mu        sync.Mutex
	scanner   *Scanner
	current   *model.Goal
	gen       uint64
	lastSweep time.Time
}

func NewController(userID string, src GoalSource, mut GoalMutator) *Controller {
	return &Controller{
		userID:  userID,
		src:     src,
		mut:     mut,
		now:     time.Now,
		scanner: NewScanner(),
	}
}

// Refresh fetches the user's goals and applies a scan. Fetches carry a
// generation number; a result superseded by a newer Refresh is
// discarded rather than overwriting fresher state.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	goals, err := c.src.Goals(c.userID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer fetch was issued while this one was in flight.
		return nil
	}
	c.apply(goals)
	return nil
}

// apply runs a scan over a fresh goal snapshot and, when idle, promotes
// the earliest due reminder to showing. A showing goal that has
// vanished from the snapshot was deleted; its notification is retracted
// rather than waiting for a dismissal that can never succeed. Caller
// holds c.mu.
func (c *Controller) apply(goals []*model.Goal) {
	now := c.now()
	if now.Sub(c.lastSweep) >= sweepInterval {
		c.scanner.Evict(now)
		c.lastSweep = now
	}

	due := c.scanner.Scan(goals, now)

	if c.current != nil {
		found := false
		for _, g := range goals {
			if g.ID == c.current.ID {
				found = true
				break
			}
		}
		if !found {
			c.current = nil
		}
	}

	if c.current == nil && len(due) > 0 {
		c.current = due[0]
	}
}

// Current returns the reminder currently showing, or nil.
func (c *Controller) Current() *model.Goal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Complete marks the showing goal completed. On success the
// notification is dismissed and a rescan surfaces the next queued
// reminder; on failure the notification stays showing so the user can
// retry.
func (c *Controller) Complete(goalID string) error {
	c.mu.Lock()
	if c.current == nil || c.current.ID != goalID {
		c.mu.Unlock()
		return ErrNotShowing
	}
	c.mu.Unlock()

	if _, err := c.mut.Complete(c.userID, goalID); err != nil {
		return err
	}

	c.dismissCurrent(goalID)
	return c.Refresh()
}

// Snooze pushes the showing goal's reminder forward by d, measured from
// the reminder's scheduled time.
func (c *Controller) Snooze(goalID string, d time.Duration) error {
	c.mu.Lock()
	if c.current == nil || c.current.ID != goalID {
		c.mu.Unlock()
		return ErrNotShowing
	}
	until := c.now().Add(d)
	if c.current.ReminderTime != nil {
		until = c.current.ReminderTime.Add(d)
	}
	c.mu.Unlock()

	if _, err := c.mut.Snooze(c.userID, goalID, until); err != nil {
		return err
	}

	c.dismissCurrent(goalID)
	return c.Refresh()
}

// SnoozeTomorrow reschedules the showing goal's reminder to the same
// wall-clock time on the next day.
func (c *Controller) SnoozeTomorrow(goalID string) error {
	c.mu.Lock()
	if c.current == nil || c.current.ID != goalID {
		c.mu.Unlock()
		return ErrNotShowing
	}
	until := c.now().AddDate(0, 0, 1)
	if c.current.ReminderTime != nil {
		until = c.current.ReminderTime.AddDate(0, 0, 1)
	}
	c.mu.Unlock()

	if _, err := c.mut.Snooze(c.userID, goalID, until); err != nil {
		return err
	}

	c.dismissCurrent(goalID)
	return c.Refresh()
}

// Dismiss hides the showing notification without mutating the goal.
// The current reminder value is recorded so the unchanged reminder will
// not re-fire; any future change to the reminder time fires again.
func (c *Controller) Dismiss(goalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.ID != goalID {
		return ErrNotShowing
	}
	if c.current.ReminderTime != nil {
		c.scanner.MarkShown(goalID, *c.current.ReminderTime)
	}
	c.current = nil
	return nil
}

// Forget drops all state for a goal, retracting its notification if it
// is the one showing. Called when the goal is deleted so the
// notification does not outlive the goal until the next poll.
func (c *Controller) Forget(goalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanner.Forget(goalID)
	if c.current != nil && c.current.ID == goalID {
		c.current = nil
	}
}

// dismissCurrent clears the showing notification if it is still the
// given goal.
func (c *Controller) dismissCurrent(goalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.ID == goalID {
		c.current = nil
	}
}
