package app

import (
	"context"
	"fmt"
	"time"

	"github.com/roomledger/roomledger/internal/domain"
)

// HousekeepingService orchestrates the housekeeping task lifecycle.
// Completing a cleaning task is the only path that returns a room from
// cleaning to available.
type HousekeepingService struct {
	store     domain.Store
	publisher domain.EventPublisher
	validator domain.TransitionValidator[domain.TaskStatus, domain.TaskEvent]
	sync      *RoomStatusSynchronizer
	locks     *RoomLocks
}

// NewHousekeepingService creates a service with the given adapters.
func NewHousekeepingService(
	store domain.Store,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator[domain.TaskStatus, domain.TaskEvent],
	sync *RoomStatusSynchronizer,
	locks *RoomLocks,
) *HousekeepingService {
	return &HousekeepingService{
		store:     store,
		publisher: publisher,
		validator: validator,
		sync:      sync,
		locks:     locks,
	}
}

// CreateTaskParams carries the caller input for a new housekeeping task.
type CreateTaskParams struct {
	RoomID       string
	AssignedTo   string
	Type         domain.TaskType
	ScheduledFor time.Time
}

// Create schedules a housekeeping task for a room. Staff only.
func (s *HousekeepingService) Create(ctx context.Context, p CreateTaskParams, actor domain.Actor) (domain.HousekeepingTask, error) {
	if !actor.Privileged() {
		return domain.HousekeepingTask{}, &domain.UnauthorizedError{ActorID: actor.ID, Action: "create a housekeeping task"}
	}

	// The room must exist; creating a task does not change its status.
	if _, err := s.store.GetRoom(ctx, p.RoomID); err != nil {
		return domain.HousekeepingTask{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("generating task id: %w", err)
	}

	task := domain.NewHousekeepingTask(id, p.RoomID, p.AssignedTo, p.Type, p.ScheduledFor)
	if err := s.store.CreateTask(ctx, task); err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

// Start moves a pending task to in-progress.
func (s *HousekeepingService) Start(ctx context.Context, id string, actor domain.Actor) (domain.HousekeepingTask, error) {
	return s.transition(ctx, id, actor, domain.TaskEventStart)
}

// Complete finishes a task, stamping its completion time. When a cleaning
// task completes, the room returns to available unless its status has
// moved on since (a stale completion is a no-op on the room).
func (s *HousekeepingService) Complete(ctx context.Context, id string, actor domain.Actor, notes *string) (domain.HousekeepingTask, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return domain.HousekeepingTask{}, err
	}
	if err := actor.CanCompleteTask(task); err != nil {
		return domain.HousekeepingTask{}, err
	}

	unlock := s.locks.Lock(task.RoomID)
	defer unlock()

	var out domain.HousekeepingTask
	err = runUnit(ctx, s.store, func(tx domain.Store) error {
		cur, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}

		next, err := s.validator.Apply(ctx, cur.Status, domain.TaskEventComplete)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		cur.Status = next
		if cur.CompletedAt == nil {
			cur.CompletedAt = &now
		}
		if notes != nil {
			cur.Notes = *notes
		}
		cur.UpdatedAt = now

		if err := tx.UpdateTask(ctx, cur); err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		if cur.Type == domain.TaskCleaning {
			if err := s.sync.Apply(ctx, tx, cur.RoomID, domain.RoomEventCleaningDone); err != nil {
				return err
			}
		}
		out = cur
		return nil
	})
	if err != nil {
		return domain.HousekeepingTask{}, err
	}
	return out, nil
}

// Cancel aborts a pending or in-progress task.
func (s *HousekeepingService) Cancel(ctx context.Context, id string, actor domain.Actor) (domain.HousekeepingTask, error) {
	return s.transition(ctx, id, actor, domain.TaskEventCancel)
}

// Update applies whitelisted field changes: staff may edit notes on their
// own task, managers may also reassign and reschedule.
func (s *HousekeepingService) Update(ctx context.Context, id string, actor domain.Actor, update domain.TaskUpdate) (domain.HousekeepingTask, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return domain.HousekeepingTask{}, err
	}
	if err := actor.AuthorizeTaskUpdate(task, update); err != nil {
		return domain.HousekeepingTask{}, err
	}

	if update.Notes != nil {
		task.Notes = *update.Notes
	}
	if update.AssignedTo != nil {
		task.AssignedTo = *update.AssignedTo
	}
	if update.ScheduledFor != nil {
		task.ScheduledFor = *update.ScheduledFor
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("updating task: %w", err)
	}
	return task, nil
}

// GetByID returns a task by its unique identifier.
func (s *HousekeepingService) GetByID(ctx context.Context, id string) (domain.HousekeepingTask, error) {
	return s.store.GetTask(ctx, id)
}

// transition applies a start or cancel event; neither touches room state.
func (s *HousekeepingService) transition(ctx context.Context, id string, actor domain.Actor, event domain.TaskEvent) (domain.HousekeepingTask, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return domain.HousekeepingTask{}, err
	}
	if err := actor.CanCompleteTask(task); err != nil {
		return domain.HousekeepingTask{}, err
	}

	next, err := s.validator.Apply(ctx, task.Status, event)
	if err != nil {
		return domain.HousekeepingTask{}, err
	}

	task.Status = next
	task.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("updating task: %w", err)
	}
	return task, nil
}
