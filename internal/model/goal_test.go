package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goalTestNow = time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)

func TestIsOverdue(t *testing.T) {
	past := goalTestNow.Add(-time.Hour)
	future := goalTestNow.Add(time.Hour)

	tests := []struct {
		name string
		goal Goal
		want bool
	}{
		{"past due date", Goal{DueDate: &past}, true},
		{"future due date", Goal{DueDate: &future}, false},
		{"no due date", Goal{}, false},
		{"completed", Goal{DueDate: &past, Completed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.goal.IsOverdue(goalTestNow))
		})
	}
}

func TestIsDueSoon(t *testing.T) {
	inWindow := goalTestNow.Add(24 * time.Hour)
	atEdge := goalTestNow.Add(DueSoonWindow)
	pastWindow := goalTestNow.Add(DueSoonWindow + time.Minute)
	overdue := goalTestNow.Add(-time.Minute)

	tests := []struct {
		name string
		goal Goal
		want bool
	}{
		{"inside window", Goal{DueDate: &inWindow}, true},
		{"window edge", Goal{DueDate: &atEdge}, true},
		{"beyond window", Goal{DueDate: &pastWindow}, false},
		{"already overdue", Goal{DueDate: &overdue}, false},
		{"completed", Goal{DueDate: &inWindow, Completed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.goal.IsDueSoon(goalTestNow))
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	reminder := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		goal Goal
		want *time.Time
	}{
		{
			name: "not recurring",
			goal: Goal{ReminderTime: &reminder},
		},
		{
			name: "recurring without reminder",
			goal: Goal{IsRecurring: true, RecurringType: RecurringDaily},
		},
		{
			name: "daily",
			goal: Goal{ReminderTime: &reminder, IsRecurring: true, RecurringType: RecurringDaily},
			want: timePtr(reminder.AddDate(0, 0, 1)),
		},
		{
			name: "every third day",
			goal: Goal{ReminderTime: &reminder, IsRecurring: true, RecurringType: RecurringDaily, RecurringInterval: 3},
			want: timePtr(reminder.AddDate(0, 0, 3)),
		},
		{
			name: "weekly",
			goal: Goal{ReminderTime: &reminder, IsRecurring: true, RecurringType: RecurringWeekly},
			want: timePtr(reminder.AddDate(0, 0, 7)),
		},
		{
			name: "monthly normalizes overflow",
			goal: Goal{ReminderTime: &reminder, IsRecurring: true, RecurringType: RecurringMonthly},
			// Jan 31 + 1 month normalizes to Mar 3 in a non-leap year;
			// 2026 is not a leap year.
			want: timePtr(time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)),
		},
		{
			name: "unknown type",
			goal: Goal{ReminderTime: &reminder, IsRecurring: true, RecurringType: "yearly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.goal.NextOccurrence()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNextOccurrenceHonorsEndDate(t *testing.T) {
	reminder := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := reminder.Add(12 * time.Hour)

	goal := Goal{
		ReminderTime:     &reminder,
		IsRecurring:      true,
		RecurringType:    RecurringDaily,
		RecurringEndDate: &end,
	}
	assert.Nil(t, goal.NextOccurrence())

	laterEnd := reminder.AddDate(0, 0, 2)
	goal.RecurringEndDate = &laterEnd
	assert.NotNil(t, goal.NextOccurrence())
}

func TestTagsRoundTrip(t *testing.T) {
	v, err := Tags{"health", "morning"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["health","morning"]`, v)

	var got Tags
	require.NoError(t, got.Scan(`["health","morning"]`))
	assert.Equal(t, Tags{"health", "morning"}, got)

	var empty Tags
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)

	nilVal, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilVal)
}

func timePtr(t time.Time) *time.Time { return &t }
