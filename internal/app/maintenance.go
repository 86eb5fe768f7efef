package app

import (
	"context"
	"fmt"
	"time"

	"github.com/roomledger/roomledger/internal/domain"
)

// MaintenanceService orchestrates the maintenance request lifecycle.
// Urgent reports take the room out of service at creation; resolving
// returns it to available unless the status moved on meanwhile.
type MaintenanceService struct {
	store     domain.Store
	publisher domain.EventPublisher
	validator domain.TransitionValidator[domain.RequestStatus, domain.RequestEvent]
	sync      *RoomStatusSynchronizer
	locks     *RoomLocks
}

// NewMaintenanceService creates a service with the given adapters.
func NewMaintenanceService(
	store domain.Store,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator[domain.RequestStatus, domain.RequestEvent],
	sync *RoomStatusSynchronizer,
	locks *RoomLocks,
) *MaintenanceService {
	return &MaintenanceService{
		store:     store,
		publisher: publisher,
		validator: validator,
		sync:      sync,
		locks:     locks,
	}
}

// CreateRequestParams carries the caller input for a new maintenance
// request. ReportedBy is the acting user; anyone may report an issue.
type CreateRequestParams struct {
	RoomID             string
	ReportedBy         string
	IssueType          string
	Description        string
	Priority           domain.Priority
	EstimatedCostCents int64
}

// Create records a reported issue. An urgent priority marks the room as
// under maintenance immediately, before any assignment.
func (s *MaintenanceService) Create(ctx context.Context, p CreateRequestParams) (domain.MaintenanceRequest, error) {
	if p.IssueType == "" {
		return domain.MaintenanceRequest{}, &domain.ValidationError{Field: "issue_type", Reason: "must not be empty"}
	}

	id, err := generateID()
	if err != nil {
		return domain.MaintenanceRequest{}, fmt.Errorf("generating request id: %w", err)
	}
	req := domain.NewMaintenanceRequest(id, p.RoomID, p.ReportedBy, p.IssueType, p.Description, p.Priority, p.EstimatedCostCents)

	unlock := s.locks.Lock(p.RoomID)
	defer unlock()

	err = runUnit(ctx, s.store, func(tx domain.Store) error {
		if _, err := tx.GetRoom(ctx, p.RoomID); err != nil {
			return err
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if req.Priority == domain.PriorityUrgent {
			return s.sync.Apply(ctx, tx, p.RoomID, domain.RoomEventUrgentIssue)
		}
		return nil
	})
	if err != nil {
		return domain.MaintenanceRequest{}, err
	}

	if req.Priority == domain.PriorityUrgent {
		emit(ctx, s.publisher, domain.Effect{
			Kind:      domain.EffectUrgentIssueOpened,
			RoomID:    req.RoomID,
			RequestID: req.ID,
			Priority:  req.Priority,
		})
	}
	return req, nil
}

// UpdateStatusParams carries a status change for a maintenance request.
// AssignedTo and ActualCostCents apply when moving to assigned and
// resolved respectively.
type UpdateStatusParams struct {
	Target          domain.RequestStatus
	AssignedTo      *string
	ActualCostCents *int64
}

// UpdateStatus transitions a request. Only managers and admins may
// mutate; the reporter and other unprivileged actors are read-only.
// Resolving stamps the resolution time and, when the room is still under
// maintenance, returns it to available.
func (s *MaintenanceService) UpdateStatus(ctx context.Context, id string, actor domain.Actor, p UpdateStatusParams) (domain.MaintenanceRequest, error) {
	if err := actor.CanChangeRequestStatus(); err != nil {
		return domain.MaintenanceRequest{}, err
	}

	event, ok := domain.EventForRequestStatus(p.Target)
	if !ok {
		return domain.MaintenanceRequest{}, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not a valid target", p.Target)}
	}

	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return domain.MaintenanceRequest{}, err
	}

	unlock := s.locks.Lock(req.RoomID)
	defer unlock()

	var out domain.MaintenanceRequest
	err = runUnit(ctx, s.store, func(tx domain.Store) error {
		cur, err := tx.GetRequest(ctx, id)
		if err != nil {
			return err
		}

		next, err := s.validator.Apply(ctx, cur.Status, event)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		cur.Status = next
		if p.AssignedTo != nil {
			cur.AssignedTo = *p.AssignedTo
		}
		if p.ActualCostCents != nil {
			cur.ActualCostCents = *p.ActualCostCents
		}
		if next == domain.RequestResolved && cur.ResolvedAt == nil {
			cur.ResolvedAt = &now
		}
		cur.UpdatedAt = now

		if err := tx.UpdateRequest(ctx, cur); err != nil {
			return fmt.Errorf("updating request: %w", err)
		}

		if next == domain.RequestResolved {
			if err := s.sync.Apply(ctx, tx, cur.RoomID, domain.RoomEventResolved); err != nil {
				return err
			}
		}
		out = cur
		return nil
	})
	if err != nil {
		return domain.MaintenanceRequest{}, err
	}

	if out.Status == domain.RequestResolved {
		emit(ctx, s.publisher, domain.Effect{
			Kind:      domain.EffectIssueResolved,
			RoomID:    out.RoomID,
			RequestID: out.ID,
			Priority:  out.Priority,
		})
	}
	return out, nil
}

// GetByID returns a request by its unique identifier.
func (s *MaintenanceService) GetByID(ctx context.Context, id string) (domain.MaintenanceRequest, error) {
	return s.store.GetRequest(ctx, id)
}
