package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/roomledger/roomledger/internal/app"
	"github.com/roomledger/roomledger/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// formatTime converts to UTC first; the layout's Z is a literal, and
// entity times may carry the offset the client booked in.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// RoomResponse is the API representation of a room.
type RoomResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	Number       string `json:"number" doc:"Room number"`
	Status       string `json:"status" doc:"Derived room status"`
	MaxOccupancy int    `json:"max_occupancy" doc:"Maximum party size"`
	PriceCents   int64  `json:"price_cents" doc:"Nightly rate in cents"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toRoomResponse(r domain.Room) RoomResponse {
	return RoomResponse{
		ID:           r.ID,
		Number:       r.Number,
		Status:       string(r.Status),
		MaxOccupancy: r.MaxOccupancy,
		PriceCents:   r.PriceCents,
		CreatedAt:    formatTime(r.CreatedAt),
		UpdatedAt:    formatTime(r.UpdatedAt),
	}
}

type CreateRoomInput struct {
	Body struct {
		Number       string `json:"number" minLength:"1" maxLength:"20" doc:"Room number"`
		MaxOccupancy int    `json:"max_occupancy" minimum:"1" doc:"Maximum party size"`
		PriceCents   int64  `json:"price_cents" minimum:"0" doc:"Nightly rate in cents"`
	}
}

type CreateRoomOutput struct {
	Body RoomResponse
}

type GetRoomInput struct {
	ID string `path:"id" doc:"Room ID"`
}

type GetRoomOutput struct {
	Body RoomResponse
}

type ListRoomsInput struct {
	Status string `query:"status" required:"false" doc:"Filter by status"`
	Limit  int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListRoomsOutput struct {
	Body []RoomResponse
}

func registerRooms(api huma.API, svc *app.RoomService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-room",
		Method:      http.MethodPost,
		Path:        "/api/v1/rooms",
		Summary:     "Add a room to the inventory",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
		room, err := svc.Create(ctx, input.Body.Number, input.Body.MaxOccupancy, input.Body.PriceCents)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateRoomOutput{Body: toRoomResponse(room)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-room",
		Method:      http.MethodGet,
		Path:        "/api/v1/rooms/{id}",
		Summary:     "Get a room by ID",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
		room, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetRoomOutput{Body: toRoomResponse(room)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-rooms",
		Method:      http.MethodGet,
		Path:        "/api/v1/rooms",
		Summary:     "List rooms",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error) {
		filter := domain.RoomFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if input.Status != "" {
			s := domain.RoomStatus(input.Status)
			filter.Status = &s
		}

		rooms, err := svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]RoomResponse, len(rooms))
		for i, r := range rooms {
			resp[i] = toRoomResponse(r)
		}
		return &ListRoomsOutput{Body: resp}, nil
	})
}
