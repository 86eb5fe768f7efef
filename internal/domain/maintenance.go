package domain

import "time"

// RequestStatus represents the lifecycle state of a maintenance request.
type RequestStatus string

const (
	RequestReported   RequestStatus = "reported"
	RequestAssigned   RequestStatus = "assigned"
	RequestInProgress RequestStatus = "in_progress"
	RequestResolved   RequestStatus = "resolved"
	RequestCancelled  RequestStatus = "cancelled"
)

// RequestEvent represents an action that triggers a maintenance request
// state transition.
type RequestEvent string

const (
	RequestEventAssign  RequestEvent = "assign"
	RequestEventStart   RequestEvent = "start"
	RequestEventResolve RequestEvent = "resolve"
	RequestEventCancel  RequestEvent = "cancel"
)

// Priority ranks how quickly a reported issue needs attention. Urgent
// issues take the room out of service immediately.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// RequestTransitions defines all valid maintenance request state changes.
// Resolve is accepted from assigned as well as in_progress: a technician
// may fix an issue without flipping through the intermediate state.
// Cancel is allowed from every non-terminal state.
var RequestTransitions = []Transition[RequestStatus, RequestEvent]{
	{Event: RequestEventAssign, Src: RequestReported, Dst: RequestAssigned},
	{Event: RequestEventStart, Src: RequestAssigned, Dst: RequestInProgress},
	{Event: RequestEventResolve, Src: RequestAssigned, Dst: RequestResolved},
	{Event: RequestEventResolve, Src: RequestInProgress, Dst: RequestResolved},
	{Event: RequestEventCancel, Src: RequestReported, Dst: RequestCancelled},
	{Event: RequestEventCancel, Src: RequestAssigned, Dst: RequestCancelled},
	{Event: RequestEventCancel, Src: RequestInProgress, Dst: RequestCancelled},
}

// EventForRequestStatus maps a requested target status to the lifecycle
// event that reaches it. The initial "reported" status is not a valid
// target.
func EventForRequestStatus(target RequestStatus) (RequestEvent, bool) {
	switch target {
	case RequestAssigned:
		return RequestEventAssign, true
	case RequestInProgress:
		return RequestEventStart, true
	case RequestResolved:
		return RequestEventResolve, true
	case RequestCancelled:
		return RequestEventCancel, true
	}
	return "", false
}

// MaintenanceRequest is a reported room issue tracked to resolution.
type MaintenanceRequest struct {
	ID                 string
	RoomID             string
	ReportedBy         string
	AssignedTo         string
	IssueType          string
	Description        string
	Status             RequestStatus
	Priority           Priority
	EstimatedCostCents int64
	ActualCostCents    int64
	ResolvedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewMaintenanceRequest creates a request in the initial "reported" state.
func NewMaintenanceRequest(id, roomID, reportedBy, issueType, description string, priority Priority, estimatedCostCents int64) MaintenanceRequest {
	now := time.Now().UTC()
	return MaintenanceRequest{
		ID:                 id,
		RoomID:             roomID,
		ReportedBy:         reportedBy,
		IssueType:          issueType,
		Description:        description,
		Status:             RequestReported,
		Priority:           priority,
		EstimatedCostCents: estimatedCostCents,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
