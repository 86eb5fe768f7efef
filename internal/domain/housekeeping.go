package domain

import "time"

// TaskType categorizes housekeeping work.
type TaskType string

const (
	TaskCleaning     TaskType = "cleaning"
	TaskMaintenance  TaskType = "maintenance"
	TaskInspection   TaskType = "inspection"
	TaskDeepCleaning TaskType = "deep_cleaning"
)

// TaskStatus represents the lifecycle state of a housekeeping task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskEvent represents an action that triggers a task state transition.
type TaskEvent string

const (
	TaskEventStart    TaskEvent = "start"
	TaskEventComplete TaskEvent = "complete"
	TaskEventCancel   TaskEvent = "cancel"
)

// TaskTransitions defines all valid housekeeping task state changes.
// Complete is accepted straight from pending: workers often finish a task
// without ever marking it started.
var TaskTransitions = []Transition[TaskStatus, TaskEvent]{
	{Event: TaskEventStart, Src: TaskPending, Dst: TaskInProgress},
	{Event: TaskEventComplete, Src: TaskPending, Dst: TaskCompleted},
	{Event: TaskEventComplete, Src: TaskInProgress, Dst: TaskCompleted},
	{Event: TaskEventCancel, Src: TaskPending, Dst: TaskCancelled},
	{Event: TaskEventCancel, Src: TaskInProgress, Dst: TaskCancelled},
}

// HousekeepingTask is a unit of cleaning or upkeep work tied to a room.
type HousekeepingTask struct {
	ID           string
	RoomID       string
	AssignedTo   string
	Type         TaskType
	Status       TaskStatus
	Notes        string
	ScheduledFor time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewHousekeepingTask creates a task in the initial "pending" state.
func NewHousekeepingTask(id, roomID, assignedTo string, taskType TaskType, scheduledFor time.Time) HousekeepingTask {
	now := time.Now().UTC()
	return HousekeepingTask{
		ID:           id,
		RoomID:       roomID,
		AssignedTo:   assignedTo,
		Type:         taskType,
		Status:       TaskPending,
		ScheduledFor: scheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
