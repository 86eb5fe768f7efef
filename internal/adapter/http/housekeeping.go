package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roomledger/roomledger/internal/app"
	"github.com/roomledger/roomledger/internal/domain"
)

// TaskResponse is the API representation of a housekeeping task.
type TaskResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	RoomID       string `json:"room_id" doc:"Target room"`
	AssignedTo   string `json:"assigned_to,omitempty" doc:"Assigned staff member"`
	Type         string `json:"type" doc:"Task type"`
	Status       string `json:"status" doc:"Lifecycle state"`
	Notes        string `json:"notes,omitempty" doc:"Free-form notes"`
	ScheduledFor string `json:"scheduled_for" doc:"Scheduled time (ISO 8601)"`
	CompletedAt  string `json:"completed_at,omitempty" doc:"Completion time (ISO 8601)"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toTaskResponse(t domain.HousekeepingTask) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		RoomID:       t.RoomID,
		AssignedTo:   t.AssignedTo,
		Type:         string(t.Type),
		Status:       string(t.Status),
		Notes:        t.Notes,
		ScheduledFor: formatTime(t.ScheduledFor),
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
	}
	if t.CompletedAt != nil {
		resp.CompletedAt = formatTime(*t.CompletedAt)
	}
	return resp
}

type CreateTaskInput struct {
	ActorParams
	Body struct {
		RoomID       string    `json:"room_id" minLength:"1" doc:"Target room"`
		AssignedTo   string    `json:"assigned_to,omitempty" doc:"Assigned staff member"`
		Type         string    `json:"type" enum:"cleaning,maintenance,inspection,deep_cleaning" doc:"Task type"`
		ScheduledFor time.Time `json:"scheduled_for" doc:"Scheduled time"`
	}
}

type CreateTaskOutput struct {
	Body TaskResponse
}

type GetTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body TaskResponse
}

type TaskActionInput struct {
	ActorParams
	ID string `path:"id" doc:"Task ID"`
}

type TaskActionOutput struct {
	Body TaskResponse
}

type CompleteTaskInput struct {
	ActorParams
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Notes *string `json:"notes,omitempty" maxLength:"1000" doc:"Completion notes"`
	}
}

type CompleteTaskOutput struct {
	Body TaskResponse
}

type UpdateTaskInput struct {
	ActorParams
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Notes        *string    `json:"notes,omitempty" maxLength:"1000" doc:"Free-form notes"`
		AssignedTo   *string    `json:"assigned_to,omitempty" doc:"Assigned staff member"`
		ScheduledFor *time.Time `json:"scheduled_for,omitempty" doc:"Scheduled time"`
	}
}

type UpdateTaskOutput struct {
	Body TaskResponse
}

func registerHousekeeping(api huma.API, svc *app.HousekeepingService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-housekeeping-task",
		Method:      http.MethodPost,
		Path:        "/api/v1/housekeeping-tasks",
		Summary:     "Schedule a housekeeping task",
		Tags:        []string{"Housekeeping"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		task, err := svc.Create(ctx, app.CreateTaskParams{
			RoomID:       input.Body.RoomID,
			AssignedTo:   input.Body.AssignedTo,
			Type:         domain.TaskType(input.Body.Type),
			ScheduledFor: input.Body.ScheduledFor,
		}, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateTaskOutput{Body: toTaskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-housekeeping-task",
		Method:      http.MethodGet,
		Path:        "/api/v1/housekeeping-tasks/{id}",
		Summary:     "Get a housekeeping task by ID",
		Tags:        []string{"Housekeeping"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		task, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetTaskOutput{Body: toTaskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start-housekeeping-task",
		Method:      http.MethodPost,
		Path:        "/api/v1/housekeeping-tasks/{id}/start",
		Summary:     "Start a pending task",
		Tags:        []string{"Housekeeping"},
	}, func(ctx context.Context, input *TaskActionInput) (*TaskActionOutput, error) {
		task, err := svc.Start(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TaskActionOutput{Body: toTaskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-housekeeping-task",
		Method:      http.MethodPost,
		Path:        "/api/v1/housekeeping-tasks/{id}/complete",
		Summary:     "Complete a task",
		Tags:        []string{"Housekeeping"},
	}, func(ctx context.Context, input *CompleteTaskInput) (*CompleteTaskOutput, error) {
		task, err := svc.Complete(ctx, input.ID, input.actor(), input.Body.Notes)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CompleteTaskOutput{Body: toTaskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-housekeeping-task",
		Method:      http.MethodPost,
		Path:        "/api/v1/housekeeping-tasks/{id}/cancel",
		Summary:     "Cancel a task",
		Tags:        []string{"Housekeeping"},
	}, func(ctx context.Context, input *TaskActionInput) (*TaskActionOutput, error) {
		task, err := svc.Cancel(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TaskActionOutput{Body: toTaskResponse(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-housekeeping-task",
		Method:      http.MethodPatch,
		Path:        "/api/v1/housekeeping-tasks/{id}",
		Summary:     "Update task details",
		Tags:        []string{"Housekeeping"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		task, err := svc.Update(ctx, input.ID, input.actor(), domain.TaskUpdate{
			Notes:        input.Body.Notes,
			AssignedTo:   input.Body.AssignedTo,
			ScheduledFor: input.Body.ScheduledFor,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdateTaskOutput{Body: toTaskResponse(task)}, nil
	})
}
