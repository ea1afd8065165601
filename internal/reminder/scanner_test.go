package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

var testNow = time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)

func testGoal(id string, reminder *time.Time) *model.Goal {
	return &model.Goal{
		ID:           id,
		UserID:       "user-1",
		Title:        "goal " + id,
		Priority:     model.PriorityMedium,
		ReminderTime: reminder,
	}
}

func at(offset time.Duration) *time.Time {
	t := testNow.Add(offset)
	return &t
}

func TestScanDueWithinWindow(t *testing.T) {
	s := NewScanner()
	goals := []*model.Goal{
		testGoal("a", at(-2*time.Minute)),
		testGoal("b", at(-9*time.Minute)),
	}

	due := s.Scan(goals, testNow)
	require.Len(t, due, 2)
}

func TestScanExcludesFutureReminder(t *testing.T) {
	s := NewScanner()
	due := s.Scan([]*model.Goal{testGoal("a", at(5*time.Minute))}, testNow)
	assert.Empty(t, due)
}

func TestScanExcludesOlderThanWindow(t *testing.T) {
	s := NewScanner()
	due := s.Scan([]*model.Goal{testGoal("c", at(-15*time.Minute))}, testNow)
	assert.Empty(t, due)
}

func TestScanBoundaryTimes(t *testing.T) {
	s := NewScanner()
	goals := []*model.Goal{
		testGoal("exact", at(0)),                  // exactly now: due
		testGoal("edge", at(-Window)),             // exactly window edge: due
		testGoal("past", at(-Window-time.Second)), // just outside: not due
	}

	due := s.Scan(goals, testNow)
	require.Len(t, due, 2)
	assert.Equal(t, "edge", due[0].ID)
	assert.Equal(t, "exact", due[1].ID)
}

func TestScanExcludesCompleted(t *testing.T) {
	s := NewScanner()
	g := testGoal("a", at(-2*time.Minute))
	g.Completed = true

	due := s.Scan([]*model.Goal{g}, testNow)
	assert.Empty(t, due)
}

func TestScanExcludesNilReminder(t *testing.T) {
	s := NewScanner()
	due := s.Scan([]*model.Goal{testGoal("a", nil)}, testNow)
	assert.Empty(t, due)
}

func TestScanSortsAscendingByReminderTime(t *testing.T) {
	s := NewScanner()
	goals := []*model.Goal{
		testGoal("late", at(-1*time.Minute)),
		testGoal("early", at(-8*time.Minute)),
		testGoal("mid", at(-4*time.Minute)),
	}

	due := s.Scan(goals, testNow)
	require.Len(t, due, 3)
	assert.Equal(t, "early", due[0].ID)
	assert.Equal(t, "mid", due[1].ID)
	assert.Equal(t, "late", due[2].ID)
}

func TestScanIdempotent(t *testing.T) {
	s := NewScanner()
	goals := []*model.Goal{
		testGoal("a", at(-2*time.Minute)),
		testGoal("b", at(-5*time.Minute)),
	}

	first := s.Scan(goals, testNow)
	second := s.Scan(goals, testNow)
	assert.Equal(t, first, second)
}

func TestScanDedupSuppressesShownValue(t *testing.T) {
	s := NewScanner()
	g := testGoal("a", at(-2*time.Minute))

	due := s.Scan([]*model.Goal{g}, testNow)
	require.Len(t, due, 1)

	s.MarkShown("a", *g.ReminderTime)
	due = s.Scan([]*model.Goal{g}, testNow)
	assert.Empty(t, due)
}

func TestScanChangedReminderEvictsDedup(t *testing.T) {
	s := NewScanner()
	g := testGoal("a", at(-5*time.Minute))

	s.Scan([]*model.Goal{g}, testNow)
	s.MarkShown("a", *g.ReminderTime)

	// Reminder moved; the old dismissal must not suppress the new value.
	g.ReminderTime = at(-1 * time.Minute)
	due := s.Scan([]*model.Goal{g}, testNow)
	require.Len(t, due, 1)
	assert.Equal(t, "a", due[0].ID)
}

func TestScanUnchangedReminderStaysSuppressed(t *testing.T) {
	s := NewScanner()
	g := testGoal("a", at(-5*time.Minute))

	s.Scan([]*model.Goal{g}, testNow)
	s.MarkShown("a", *g.ReminderTime)

	// Several scans later the same value still does not re-fire.
	for i := 0; i < 3; i++ {
		due := s.Scan([]*model.Goal{g}, testNow.Add(time.Duration(i)*time.Minute))
		assert.Empty(t, due)
	}
}

func TestScanCompletedStaysExcludedAfterComplete(t *testing.T) {
	s := NewScanner()
	g := testGoal("a", at(-2*time.Minute))

	due := s.Scan([]*model.Goal{g}, testNow)
	require.Len(t, due, 1)

	g.Completed = true
	due = s.Scan([]*model.Goal{g}, testNow.Add(time.Minute))
	assert.Empty(t, due)
}

func TestScanSnoozedGoalRefiresWhenDue(t *testing.T) {
	s := NewScanner()
	g := testGoal("b", at(-2*time.Minute))

	due := s.Scan([]*model.Goal{g}, testNow)
	require.Len(t, due, 1)

	// Snoozed 10 minutes from the scheduled time: now +8m.
	g.ReminderTime = at(8 * time.Minute)
	due = s.Scan([]*model.Goal{g}, testNow)
	assert.Empty(t, due)

	// Once the snoozed time arrives it fires again.
	due = s.Scan([]*model.Goal{g}, testNow.Add(10*time.Minute))
	require.Len(t, due, 1)
}

func TestForgetDropsGoalState(t *testing.T) {
	s := NewScanner()
	g := testGoal("a", at(-2*time.Minute))

	s.Scan([]*model.Goal{g}, testNow)
	s.MarkShown("a", *g.ReminderTime)
	s.Forget("a")

	due := s.Scan([]*model.Goal{g}, testNow)
	require.Len(t, due, 1)
}

func TestScanPrunesVanishedGoals(t *testing.T) {
	s := NewScanner()
	a := testGoal("a", at(-2*time.Minute))
	b := testGoal("b", at(-3*time.Minute))

	s.Scan([]*model.Goal{a, b}, testNow)
	s.MarkShown("a", *a.ReminderTime)
	require.Contains(t, s.snapshot, "a")
	require.Contains(t, s.dedup, "a")

	// "a" was deleted; its bookkeeping must not accumulate.
	s.Scan([]*model.Goal{b}, testNow)
	assert.NotContains(t, s.snapshot, "a")
	assert.NotContains(t, s.dedup, "a")
	assert.Contains(t, s.snapshot, "b")

	// A goal re-created under the same id fires fresh.
	due := s.Scan([]*model.Goal{a, b}, testNow)
	require.Len(t, due, 2)
	assert.Equal(t, "b", due[0].ID)
	assert.Equal(t, "a", due[1].ID)
}

func TestEvictPurgesOldEntries(t *testing.T) {
	s := NewScanner()
	old := testNow.Add(-25 * time.Hour)
	recent := testNow.Add(-1 * time.Hour)
	s.MarkShown("old", old)
	s.MarkShown("recent", recent)

	s.Evict(testNow)

	assert.NotContains(t, s.dedup, "old")
	assert.Contains(t, s.dedup, "recent")
}
