package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	RecurringDaily   = "daily"
	RecurringWeekly  = "weekly"
	RecurringMonthly = "monthly"
)

// DueSoonWindow is how far ahead a due date counts as "due soon".
const DueSoonWindow = 3 * 24 * time.Hour

// Tags is a string list stored as a JSON text column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}
}

type Goal struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"userId"`
	Title             string     `db:"title" json:"title"`
	Description       string     `db:"description" json:"description"`
	Completed         bool       `db:"completed" json:"completed"`
	DueDate           *time.Time `db:"due_date" json:"dueDate,omitempty"`
	Priority          string     `db:"priority" json:"priority"`
	Category          string     `db:"category" json:"category,omitempty"`
	Tags              Tags       `db:"tags" json:"tags"`
	ReminderTime      *time.Time `db:"reminder_time" json:"reminderTime,omitempty"`
	IsRecurring       bool       `db:"is_recurring" json:"isRecurring"`
	RecurringType     string     `db:"recurring_type" json:"recurringType,omitempty"`
	RecurringInterval int        `db:"recurring_interval" json:"recurringInterval,omitempty"`
	RecurringEndDate  *time.Time `db:"recurring_end_date" json:"recurringEndDate,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

func (g *Goal) IsOverdue(now time.Time) bool {
	return g.DueDate != nil && g.DueDate.Before(now) && !g.Completed
}

func (g *Goal) IsDueSoon(now time.Time) bool {
	if g.DueDate == nil || g.Completed {
		return false
	}
	return !g.DueDate.Before(now) && g.DueDate.Sub(now) <= DueSoonWindow
}

// NextOccurrence returns the reminder time advanced by one recurrence
// step, or nil if the goal does not recur or the next step falls past
// the recurrence end date.
func (g *Goal) NextOccurrence() *time.Time {
	if !g.IsRecurring || g.ReminderTime == nil {
		return nil
	}
	interval := g.RecurringInterval
	if interval < 1 {
		interval = 1
	}
	var next time.Time
	switch g.RecurringType {
	case RecurringDaily:
		next = g.ReminderTime.AddDate(0, 0, interval)
	case RecurringWeekly:
		next = g.ReminderTime.AddDate(0, 0, 7*interval)
	case RecurringMonthly:
		next = g.ReminderTime.AddDate(0, interval, 0)
	default:
		return nil
	}
	if g.RecurringEndDate != nil && next.After(*g.RecurringEndDate) {
		return nil
	}
	return &next
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ValidRecurringType(t string) bool {
	return t == RecurringDaily || t == RecurringWeekly || t == RecurringMonthly
}
