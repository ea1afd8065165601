// Package reminder contains the due-reminder detection core: a pure
// scan over the user's goals that surfaces each reminder value at most
// once, and a per-user controller that owns the single visible
// notification and its dismissal transitions.
package reminder

import (
	"sort"
	"time"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

const (
	// Window bounds how long after its scheduled time a reminder can
	// still fire. Covers short offline gaps without resurrecting
	// arbitrarily stale alerts.
	Window = 10 * time.Minute

	// dedupMaxAge is how long a dismissed reminder value is remembered
	// past its scheduled time.
	dedupMaxAge = 24 * time.Hour
)

// Scanner computes the set of due, not-yet-shown reminders from a goal
// snapshot. It keeps two pieces of state between scans:
//
//   - dedup: goalID -> reminder time already shown or dismissed at that
//     exact value. Suppresses re-firing the identical reminder.
//   - snapshot: goalID -> reminder time seen on the previous scan. When
//     a goal's reminder time changes, the dedup entry is evicted
//     immediately so the new value can fire even if the old one was
//     dismissed.
//
// Times are compared as epoch milliseconds, never as formatted strings,
// so serialization drift cannot break change detection.
//
// Scanner is not safe for concurrent use; the owning Controller
// serializes access.
type Scanner struct {
	dedup    map[string]int64
	snapshot map[string]int64
}

func NewScanner() *Scanner {
	return &Scanner{
		dedup:    make(map[string]int64),
		snapshot: make(map[string]int64),
	}
}

// Scan returns the due reminders among goals, earliest first. A goal is
// due when it is not completed, its reminder time has arrived, the
// reminder is no older than Window, and the same reminder value has not
// already been shown.
//
// Scan is idempotent: repeated calls with unchanged input return the
// same result, with only snapshot bookkeeping updated.
func (s *Scanner) Scan(goals []*model.Goal, now time.Time) []*model.Goal {
	// Change detection pass: a moved reminder invalidates any prior
	// suppression before candidacy is evaluated.
	present := make(map[string]bool, len(goals))
	for _, g := range goals {
		present[g.ID] = true
		if g.ReminderTime == nil {
			continue
		}
		cur := g.ReminderTime.UnixMilli()
		prev, seen := s.snapshot[g.ID]
		if seen && prev != cur {
			delete(s.dedup, g.ID)
		}
		s.snapshot[g.ID] = cur
	}

	// Goals gone from the snapshot (deleted) take their state with
	// them; a re-created goal with the same reminder starts clean.
	for id := range s.snapshot {
		if !present[id] {
			delete(s.snapshot, id)
			delete(s.dedup, id)
		}
	}

	cutoff := now.Add(-Window)
	var due []*model.Goal
	for _, g := range goals {
		if g.Completed || g.ReminderTime == nil {
			continue
		}
		rt := *g.ReminderTime
		if rt.After(now) || rt.Before(cutoff) {
			continue
		}
		if shown, ok := s.dedup[g.ID]; ok && shown == rt.UnixMilli() {
			continue
		}
		due = append(due, g)
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].ReminderTime, due[j].ReminderTime
		if a.Equal(*b) {
			return due[i].ID < due[j].ID
		}
		return a.Before(*b)
	})
	return due
}

// MarkShown records that the given reminder value has been presented,
// suppressing it until the goal's reminder time changes.
func (s *Scanner) MarkShown(goalID string, reminderTime time.Time) {
	s.dedup[goalID] = reminderTime.UnixMilli()
}

// Forget drops all state for a goal, e.g. after deletion.
func (s *Scanner) Forget(goalID string) {
	delete(s.dedup, goalID)
	delete(s.snapshot, goalID)
}

// Evict purges dedup entries whose tagged reminder time is more than
// dedupMaxAge in the past. Called periodically by the controller.
func (s *Scanner) Evict(now time.Time) {
	cutoff := now.Add(-dedupMaxAge).UnixMilli()
	for id, shown := range s.dedup {
		if shown < cutoff {
			delete(s.dedup, id)
		}
	}
}
