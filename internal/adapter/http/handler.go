package http

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/roomledger/roomledger/internal/app"
)

// Services bundles the application services exposed over HTTP.
type Services struct {
	Rooms        *app.RoomService
	Reservations *app.ReservationService
	Housekeeping *app.HousekeepingService
	Maintenance  *app.MaintenanceService
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc Services) {
	registerRooms(api, svc.Rooms)
	registerReservations(api, svc.Reservations)
	registerHousekeeping(api, svc.Housekeeping)
	registerMaintenance(api, svc.Maintenance)
}
