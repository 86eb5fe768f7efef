package http

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roomledger/roomledger/internal/domain"
)

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return huma.Error404NotFound("room not found")
	case errors.Is(err, domain.ErrReservationNotFound):
		return huma.Error404NotFound("reservation not found")
	case errors.Is(err, domain.ErrTaskNotFound):
		return huma.Error404NotFound("housekeeping task not found")
	case errors.Is(err, domain.ErrRequestNotFound):
		return huma.Error404NotFound("maintenance request not found")
	case errors.Is(err, domain.ErrVersionConflict):
		return huma.Error409Conflict("concurrent update, retry the request")
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return huma.Error422UnprocessableEntity(vErr.Error())
	}

	var ovErr *domain.OverlapError
	if errors.As(err, &ovErr) {
		return huma.Error409Conflict(ovErr.Error())
	}

	var occErr *domain.OccupancyError
	if errors.As(err, &occErr) {
		return huma.Error409Conflict(occErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	var authErr *domain.UnauthorizedError
	if errors.As(err, &authErr) {
		return huma.Error403Forbidden(authErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
