package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

type fakeGoalRepo struct {
	goals map[string]*model.Goal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[string]*model.Goal{}}
}

func (f *fakeGoalRepo) Create(goal *model.Goal) error {
	f.goals[goal.ID] = goal
	return nil
}

func (f *fakeGoalRepo) ByID(userID, goalID string) (*model.Goal, error) {
	g, ok := f.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, repository.ErrGoalNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGoalRepo) Goals(userID string) ([]*model.Goal, error) {
	var out []*model.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) Update(goal *model.Goal) error {
	g, ok := f.goals[goal.ID]
	if !ok || g.UserID != goal.UserID {
		return repository.ErrGoalNotFound
	}
	cp := *goal
	f.goals[goal.ID] = &cp
	return nil
}

func (f *fakeGoalRepo) Delete(userID, goalID string) error {
	g, ok := f.goals[goalID]
	if !ok || g.UserID != userID {
		return repository.ErrGoalNotFound
	}
	delete(f.goals, goalID)
	return nil
}

func TestGoalCreateValidation(t *testing.T) {
	svc := NewGoalService(newFakeGoalRepo())

	tests := []struct {
		name    string
		in      GoalInput
		wantErr error
	}{
		{
			name:    "missing title",
			in:      GoalInput{},
			wantErr: ErrTitleRequired,
		},
		{
			name:    "bad priority",
			in:      GoalInput{Title: "run", Priority: "urgent"},
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "recurring without type",
			in:      GoalInput{Title: "run", IsRecurring: true},
			wantErr: ErrInvalidRecurrence,
		},
		{
			name: "valid",
			in:   GoalInput{Title: "run"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create("user-1", tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGoalCreateDefaultsPriority(t *testing.T) {
	svc := NewGoalService(newFakeGoalRepo())

	goal, err := svc.Create("user-1", GoalInput{Title: "run"})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, goal.Priority)
}

func TestGoalCompleteOneShot(t *testing.T) {
	repo := newFakeGoalRepo()
	svc := NewGoalService(repo)

	goal, err := svc.Create("user-1", GoalInput{Title: "run"})
	require.NoError(t, err)

	done, err := svc.Complete("user-1", goal.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
}

func TestGoalCompleteRecurringAdvancesReminder(t *testing.T) {
	repo := newFakeGoalRepo()
	svc := NewGoalService(repo)

	reminder := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	goal, err := svc.Create("user-1", GoalInput{
		Title:         "water plants",
		ReminderTime:  &reminder,
		IsRecurring:   true,
		RecurringType: model.RecurringDaily,
	})
	require.NoError(t, err)

	done, err := svc.Complete("user-1", goal.ID)
	require.NoError(t, err)

	assert.False(t, done.Completed)
	require.NotNil(t, done.ReminderTime)
	assert.Equal(t, reminder.AddDate(0, 0, 1), *done.ReminderTime)
}

func TestGoalCompleteRecurringStopsAtEndDate(t *testing.T) {
	repo := newFakeGoalRepo()
	svc := NewGoalService(repo)

	reminder := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := reminder.Add(12 * time.Hour) // next occurrence falls past this
	goal, err := svc.Create("user-1", GoalInput{
		Title:            "water plants",
		ReminderTime:     &reminder,
		IsRecurring:      true,
		RecurringType:    model.RecurringDaily,
		RecurringEndDate: &end,
	})
	require.NoError(t, err)

	done, err := svc.Complete("user-1", goal.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
}

func TestGoalSnoozeRewritesReminder(t *testing.T) {
	repo := newFakeGoalRepo()
	svc := NewGoalService(repo)

	goal, err := svc.Create("user-1", GoalInput{Title: "run"})
	require.NoError(t, err)

	until := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	snoozed, err := svc.Snooze("user-1", goal.ID, until)
	require.NoError(t, err)
	require.NotNil(t, snoozed.ReminderTime)
	assert.Equal(t, until, *snoozed.ReminderTime)
}

func TestGoalOwnershipEnforced(t *testing.T) {
	repo := newFakeGoalRepo()
	svc := NewGoalService(repo)

	goal, err := svc.Create("user-1", GoalInput{Title: "run"})
	require.NoError(t, err)

	_, err = svc.ByID("user-2", goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	err = svc.Delete("user-2", goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}
