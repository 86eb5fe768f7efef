package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roomledger/roomledger/internal/app"
	"github.com/roomledger/roomledger/internal/domain"
)

// RequestResponse is the API representation of a maintenance request.
type RequestResponse struct {
	ID                 string `json:"id" doc:"Unique identifier"`
	RoomID             string `json:"room_id" doc:"Affected room"`
	ReportedBy         string `json:"reported_by" doc:"Reporting user"`
	AssignedTo         string `json:"assigned_to,omitempty" doc:"Assigned technician"`
	IssueType          string `json:"issue_type" doc:"Issue category"`
	Description        string `json:"description,omitempty" doc:"Issue description"`
	Status             string `json:"status" doc:"Lifecycle state"`
	Priority           string `json:"priority" doc:"Issue priority"`
	EstimatedCostCents int64  `json:"estimated_cost_cents" doc:"Estimated repair cost in cents"`
	ActualCostCents    int64  `json:"actual_cost_cents" doc:"Actual repair cost in cents"`
	ResolvedAt         string `json:"resolved_at,omitempty" doc:"Resolution time (ISO 8601)"`
	CreatedAt          string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt          string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toRequestResponse(m domain.MaintenanceRequest) RequestResponse {
	resp := RequestResponse{
		ID:                 m.ID,
		RoomID:             m.RoomID,
		ReportedBy:         m.ReportedBy,
		AssignedTo:         m.AssignedTo,
		IssueType:          m.IssueType,
		Description:        m.Description,
		Status:             string(m.Status),
		Priority:           string(m.Priority),
		EstimatedCostCents: m.EstimatedCostCents,
		ActualCostCents:    m.ActualCostCents,
		CreatedAt:          formatTime(m.CreatedAt),
		UpdatedAt:          formatTime(m.UpdatedAt),
	}
	if m.ResolvedAt != nil {
		resp.ResolvedAt = formatTime(*m.ResolvedAt)
	}
	return resp
}

type CreateRequestInput struct {
	ActorParams
	Body struct {
		RoomID             string `json:"room_id" minLength:"1" doc:"Affected room"`
		IssueType          string `json:"issue_type" minLength:"1" doc:"Issue category"`
		Description        string `json:"description,omitempty" maxLength:"2000" doc:"Issue description"`
		Priority           string `json:"priority,omitempty" enum:"low,medium,high,urgent" default:"medium" doc:"Issue priority"`
		EstimatedCostCents int64  `json:"estimated_cost_cents,omitempty" minimum:"0" doc:"Estimated repair cost in cents"`
	}
}

type CreateRequestOutput struct {
	Body RequestResponse
}

type GetRequestInput struct {
	ID string `path:"id" doc:"Request ID"`
}

type GetRequestOutput struct {
	Body RequestResponse
}

type UpdateRequestStatusInput struct {
	ActorParams
	ID   string `path:"id" doc:"Request ID"`
	Body struct {
		Status          string  `json:"status" enum:"assigned,in_progress,resolved,cancelled" doc:"Target lifecycle state"`
		AssignedTo      *string `json:"assigned_to,omitempty" doc:"Technician, when assigning"`
		ActualCostCents *int64  `json:"actual_cost_cents,omitempty" minimum:"0" doc:"Actual cost, when resolving"`
	}
}

type UpdateRequestStatusOutput struct {
	Body RequestResponse
}

func registerMaintenance(api huma.API, svc *app.MaintenanceService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-maintenance-request",
		Method:      http.MethodPost,
		Path:        "/api/v1/maintenance-requests",
		Summary:     "Report a maintenance issue",
		Tags:        []string{"Maintenance"},
	}, func(ctx context.Context, input *CreateRequestInput) (*CreateRequestOutput, error) {
		req, err := svc.Create(ctx, app.CreateRequestParams{
			RoomID:             input.Body.RoomID,
			ReportedBy:         input.ActorID,
			IssueType:          input.Body.IssueType,
			Description:        input.Body.Description,
			Priority:           domain.Priority(input.Body.Priority),
			EstimatedCostCents: input.Body.EstimatedCostCents,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateRequestOutput{Body: toRequestResponse(req)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-maintenance-request",
		Method:      http.MethodGet,
		Path:        "/api/v1/maintenance-requests/{id}",
		Summary:     "Get a maintenance request by ID",
		Tags:        []string{"Maintenance"},
	}, func(ctx context.Context, input *GetRequestInput) (*GetRequestOutput, error) {
		req, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetRequestOutput{Body: toRequestResponse(req)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-maintenance-request-status",
		Method:      http.MethodPost,
		Path:        "/api/v1/maintenance-requests/{id}/status",
		Summary:     "Move a request through its lifecycle",
		Tags:        []string{"Maintenance"},
	}, func(ctx context.Context, input *UpdateRequestStatusInput) (*UpdateRequestStatusOutput, error) {
		req, err := svc.UpdateStatus(ctx, input.ID, input.actor(), app.UpdateStatusParams{
			Target:          domain.RequestStatus(input.Body.Status),
			AssignedTo:      input.Body.AssignedTo,
			ActualCostCents: input.Body.ActualCostCents,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdateRequestStatusOutput{Body: toRequestResponse(req)}, nil
	})
}
