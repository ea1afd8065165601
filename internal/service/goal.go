package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

var (
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidPriority   = errors.New("priority must be low, medium, or high")
	ErrInvalidRecurrence = errors.New("recurring type must be daily, weekly, or monthly")
)

// GoalInput carries the mutable goal fields from a create/update request.
type GoalInput struct {
	Title             string
	Description       string
	DueDate           *time.Time
	Priority          string
	Category          string
	Tags              []string
	ReminderTime      *time.Time
	IsRecurring       bool
	RecurringType     string
	RecurringInterval int
	RecurringEndDate  *time.Time
}

func (in *GoalInput) validate() error {
	if in.Title == "" {
		return ErrTitleRequired
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(in.Priority) {
		return ErrInvalidPriority
	}
	if in.IsRecurring && !model.ValidRecurringType(in.RecurringType) {
		return ErrInvalidRecurrence
	}
	return nil
}

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) Create(userID string, in GoalInput) (*model.Goal, error) {
	err := in.validate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	goal := &model.Goal{
		ID:                uuid.New().String(),
		UserID:            userID,
		Title:             in.Title,
		Description:       in.Description,
		DueDate:           in.DueDate,
		Priority:          in.Priority,
		Category:          in.Category,
		Tags:              in.Tags,
		ReminderTime:      in.ReminderTime,
		IsRecurring:       in.IsRecurring,
		RecurringType:     in.RecurringType,
		RecurringInterval: in.RecurringInterval,
		RecurringEndDate:  in.RecurringEndDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

// Goals returns the user's full goal list, newest first. The reminder
// controller polls this.
func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	return s.repo.Goals(userID)
}

func (s *GoalService) Update(userID, goalID string, in GoalInput) (*model.Goal, error) {
	err := in.validate()
	if err != nil {
		return nil, err
	}

	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Title = in.Title
	goal.Description = in.Description
	goal.DueDate = in.DueDate
	goal.Priority = in.Priority
	goal.Category = in.Category
	goal.Tags = in.Tags
	goal.ReminderTime = in.ReminderTime
	goal.IsRecurring = in.IsRecurring
	goal.RecurringType = in.RecurringType
	goal.RecurringInterval = in.RecurringInterval
	goal.RecurringEndDate = in.RecurringEndDate
	goal.UpdatedAt = time.Now()

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Complete marks a goal done. A recurring goal instead advances its
// reminder to the next occurrence and stays active, until the
// recurrence end date is reached.
func (s *GoalService) Complete(userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if next := goal.NextOccurrence(); next != nil {
		goal.ReminderTime = next
	} else {
		goal.Completed = true
	}
	goal.UpdatedAt = time.Now()

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Toggle flips the completed flag without recurrence handling.
func (s *GoalService) Toggle(userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Completed = !goal.Completed
	goal.UpdatedAt = time.Now()

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Snooze rewrites the goal's reminder time, leaving everything else
// untouched.
func (s *GoalService) Snooze(userID, goalID string, until time.Time) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.ReminderTime = &until
	goal.UpdatedAt = time.Now()

	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Delete(userID, goalID string) error {
	_, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return err
	}

	return s.repo.Delete(userID, goalID)
}
