package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roomledger/roomledger/internal/app"
	"github.com/roomledger/roomledger/internal/domain"
)

// ReservationResponse is the API representation of a reservation.
type ReservationResponse struct {
	ID              string `json:"id" doc:"Unique identifier"`
	Confirmation    string `json:"confirmation" doc:"Guest-facing confirmation number"`
	RoomID          string `json:"room_id" doc:"Reserved room"`
	GuestID         string `json:"guest_id" doc:"Booking guest"`
	GuestEmail      string `json:"guest_email" doc:"Guest contact email"`
	CheckIn         string `json:"check_in" doc:"Stay start (inclusive, ISO 8601)"`
	CheckOut        string `json:"check_out" doc:"Stay end (exclusive, ISO 8601)"`
	Guests          int    `json:"guests" doc:"Party size"`
	Status          string `json:"status" doc:"Lifecycle state"`
	AmountCents     int64  `json:"amount_cents" doc:"Total stay price in cents"`
	SpecialRequests string `json:"special_requests,omitempty" doc:"Free-form guest notes"`
	CreatedAt       string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt       string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toReservationResponse(r domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		Confirmation:    r.Confirmation,
		RoomID:          r.RoomID,
		GuestID:         r.GuestID,
		GuestEmail:      r.GuestEmail,
		CheckIn:         formatTime(r.CheckIn),
		CheckOut:        formatTime(r.CheckOut),
		Guests:          r.Guests,
		Status:          string(r.Status),
		AmountCents:     r.AmountCents,
		SpecialRequests: r.SpecialRequests,
		CreatedAt:       formatTime(r.CreatedAt),
		UpdatedAt:       formatTime(r.UpdatedAt),
	}
}

type CreateReservationInput struct {
	Body struct {
		RoomID          string    `json:"room_id" minLength:"1" doc:"Room to reserve"`
		GuestID         string    `json:"guest_id" minLength:"1" doc:"Booking guest"`
		GuestEmail      string    `json:"guest_email" format:"email" doc:"Guest contact email"`
		CheckIn         time.Time `json:"check_in" doc:"Stay start (inclusive)"`
		CheckOut        time.Time `json:"check_out" doc:"Stay end (exclusive)"`
		Guests          int       `json:"guests" minimum:"1" doc:"Party size"`
		SpecialRequests string    `json:"special_requests,omitempty" maxLength:"1000" doc:"Free-form guest notes"`
	}
}

type CreateReservationOutput struct {
	Body ReservationResponse
}

type GetReservationInput struct {
	ID string `path:"id" doc:"Reservation ID"`
}

type GetReservationOutput struct {
	Body ReservationResponse
}

type ListReservationsInput struct {
	RoomID  string `query:"room_id" required:"false" doc:"Filter by room"`
	GuestID string `query:"guest_id" required:"false" doc:"Filter by guest"`
	Status  string `query:"status" required:"false" doc:"Filter by status"`
	Limit   int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset  int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListReservationsOutput struct {
	Body []ReservationResponse
}

type ReservationActionInput struct {
	ActorParams
	ID string `path:"id" doc:"Reservation ID"`
}

type ReservationActionOutput struct {
	Body ReservationResponse
}

type UpdateReservationInput struct {
	ActorParams
	ID   string `path:"id" doc:"Reservation ID"`
	Body struct {
		SpecialRequests *string `json:"special_requests,omitempty" maxLength:"1000" doc:"Free-form guest notes"`
	}
}

type UpdateReservationOutput struct {
	Body ReservationResponse
}

func registerReservations(api huma.API, svc *app.ReservationService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-reservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations",
		Summary:     "Book a room",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *CreateReservationInput) (*CreateReservationOutput, error) {
		res, err := svc.Create(ctx, app.CreateReservationParams{
			RoomID:          input.Body.RoomID,
			GuestID:         input.Body.GuestID,
			GuestEmail:      input.Body.GuestEmail,
			CheckIn:         input.Body.CheckIn,
			CheckOut:        input.Body.CheckOut,
			Guests:          input.Body.Guests,
			SpecialRequests: input.Body.SpecialRequests,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateReservationOutput{Body: toReservationResponse(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-reservation",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations/{id}",
		Summary:     "Get a reservation by ID",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *GetReservationInput) (*GetReservationOutput, error) {
		res, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetReservationOutput{Body: toReservationResponse(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reservations",
		Method:      http.MethodGet,
		Path:        "/api/v1/reservations",
		Summary:     "List reservations",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *ListReservationsInput) (*ListReservationsOutput, error) {
		filter := domain.ReservationFilter{
			RoomID:  input.RoomID,
			GuestID: input.GuestID,
			Limit:   input.Limit,
			Offset:  input.Offset,
		}
		if input.Status != "" {
			s := domain.ReservationStatus(input.Status)
			filter.Status = &s
		}

		list, err := svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ReservationResponse, len(list))
		for i, r := range list {
			resp[i] = toReservationResponse(r)
		}
		return &ListReservationsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-in-reservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/{id}/check-in",
		Summary:     "Check a guest in",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *ReservationActionInput) (*ReservationActionOutput, error) {
		res, err := svc.CheckIn(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ReservationActionOutput{Body: toReservationResponse(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-out-reservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/{id}/check-out",
		Summary:     "Check a guest out",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *ReservationActionInput) (*ReservationActionOutput, error) {
		res, err := svc.CheckOut(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ReservationActionOutput{Body: toReservationResponse(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-reservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/{id}/cancel",
		Summary:     "Cancel a reservation",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *ReservationActionInput) (*ReservationActionOutput, error) {
		res, err := svc.Cancel(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ReservationActionOutput{Body: toReservationResponse(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-reservation",
		Method:      http.MethodPatch,
		Path:        "/api/v1/reservations/{id}",
		Summary:     "Update reservation details",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *UpdateReservationInput) (*UpdateReservationOutput, error) {
		res, err := svc.Update(ctx, input.ID, input.actor(), domain.ReservationUpdate{
			SpecialRequests: input.Body.SpecialRequests,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdateReservationOutput{Body: toReservationResponse(res)}, nil
	})
}
