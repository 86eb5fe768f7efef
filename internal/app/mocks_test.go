package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roomledger/roomledger/internal/app"
	"github.com/roomledger/roomledger/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	rooms        map[string]domain.Room
	reservations map[string]domain.Reservation
	tasks        map[string]domain.HousekeepingTask
	requests     map[string]domain.MaintenanceRequest

	// saveRoomErrs is a queue of errors returned by successive SaveRoom
	// calls before the real write happens; used to script version races.
	saveRoomErrs []error

	// createReservationErrs works the same way for CreateReservation;
	// used to script confirmation-number collisions.
	createReservationErrs []error
}

func newMockStore() *mockStore {
	return &mockStore{
		rooms:        make(map[string]domain.Room),
		reservations: make(map[string]domain.Reservation),
		tasks:        make(map[string]domain.HousekeepingTask),
		requests:     make(map[string]domain.MaintenanceRequest),
	}
}

func (m *mockStore) CreateRoom(_ context.Context, r domain.Room) error {
	m.rooms[r.ID] = r
	return nil
}

func (m *mockStore) GetRoom(_ context.Context, id string) (domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return r, nil
}

func (m *mockStore) ListRooms(_ context.Context, _ domain.RoomFilter) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockStore) SaveRoom(_ context.Context, r domain.Room, expectedVersion int64) error {
	if len(m.saveRoomErrs) > 0 {
		err := m.saveRoomErrs[0]
		m.saveRoomErrs = m.saveRoomErrs[1:]
		if err != nil {
			return err
		}
	}
	stored, ok := m.rooms[r.ID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	r.Version = expectedVersion + 1
	m.rooms[r.ID] = r
	return nil
}

func (m *mockStore) CreateReservation(_ context.Context, r domain.Reservation) error {
	if len(m.createReservationErrs) > 0 {
		err := m.createReservationErrs[0]
		m.createReservationErrs = m.createReservationErrs[1:]
		if err != nil {
			return err
		}
	}
	m.reservations[r.ID] = r
	return nil
}

func (m *mockStore) GetReservation(_ context.Context, id string) (domain.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

func (m *mockStore) ListReservations(_ context.Context, _ domain.ReservationFilter) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockStore) BlockingReservations(_ context.Context, roomID string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.RoomID == roomID && r.Blocks() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateReservation(_ context.Context, r domain.Reservation) error {
	if _, ok := m.reservations[r.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	m.reservations[r.ID] = r
	return nil
}

func (m *mockStore) CreateTask(_ context.Context, t domain.HousekeepingTask) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (domain.HousekeepingTask, error) {
	t, ok := m.tasks[id]
	if !ok {
		return domain.HousekeepingTask{}, domain.ErrTaskNotFound
	}
	return t, nil
}

func (m *mockStore) UpdateTask(_ context.Context, t domain.HousekeepingTask) error {
	if _, ok := m.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockStore) CreateRequest(_ context.Context, r domain.MaintenanceRequest) error {
	m.requests[r.ID] = r
	return nil
}

func (m *mockStore) GetRequest(_ context.Context, id string) (domain.MaintenanceRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return domain.MaintenanceRequest{}, domain.ErrRequestNotFound
	}
	return r, nil
}

func (m *mockStore) UpdateRequest(_ context.Context, r domain.MaintenanceRequest) error {
	if _, ok := m.requests[r.ID]; !ok {
		return domain.ErrRequestNotFound
	}
	m.requests[r.ID] = r
	return nil
}

// Atomic mirrors the port contract: writes made by fn are discarded when
// it fails, so a retried unit starts from clean state.
func (m *mockStore) Atomic(_ context.Context, fn func(domain.Store) error) error {
	rooms := copyMap(m.rooms)
	reservations := copyMap(m.reservations)
	tasks := copyMap(m.tasks)
	requests := copyMap(m.requests)

	if err := fn(m); err != nil {
		m.rooms = rooms
		m.reservations = reservations
		m.tasks = tasks
		m.requests = requests
		return err
	}
	return nil
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type mockPublisher struct {
	effects []domain.Effect
	err     error
}

func (m *mockPublisher) Publish(_ context.Context, e domain.Effect) error {
	if m.err != nil {
		return m.err
	}
	m.effects = append(m.effects, e)
	return nil
}

// tableValidator applies a domain transition table directly; the fsm
// adapter gets its own tests.
type tableValidator[S ~string, E ~string] struct {
	table []domain.Transition[S, E]
}

func (v tableValidator[S, E]) Apply(_ context.Context, current S, event E) (S, error) {
	for _, tr := range v.table {
		if tr.Event == event && tr.Src == current {
			return tr.Dst, nil
		}
	}
	return "", &domain.TransitionError{Event: string(event), Current: string(current)}
}

// --- Test environment ---

type testEnv struct {
	store        *mockStore
	publisher    *mockPublisher
	rooms        *app.RoomService
	reservations *app.ReservationService
	housekeeping *app.HousekeepingService
	maintenance  *app.MaintenanceService
}

func newTestEnv() *testEnv {
	store := newMockStore()
	pub := &mockPublisher{}
	sync := app.NewRoomStatusSynchronizer()
	locks := app.NewRoomLocks()

	return &testEnv{
		store:     store,
		publisher: pub,
		rooms:     app.NewRoomService(store),
		reservations: app.NewReservationService(store, pub,
			tableValidator[domain.ReservationStatus, domain.ReservationEvent]{table: domain.ReservationTransitions}, sync, locks),
		housekeeping: app.NewHousekeepingService(store, pub,
			tableValidator[domain.TaskStatus, domain.TaskEvent]{table: domain.TaskTransitions}, sync, locks),
		maintenance: app.NewMaintenanceService(store, pub,
			tableValidator[domain.RequestStatus, domain.RequestEvent]{table: domain.RequestTransitions}, sync, locks),
	}
}

func (e *testEnv) mustRoom(t *testing.T, number string, maxOccupancy int, priceCents int64) domain.Room {
	t.Helper()
	room, err := e.rooms.Create(context.Background(), number, maxOccupancy, priceCents)
	if err != nil {
		t.Fatalf("creating room: %v", err)
	}
	return room
}

func (e *testEnv) roomStatus(t *testing.T, id string) domain.RoomStatus {
	t.Helper()
	room, err := e.store.GetRoom(context.Background(), id)
	if err != nil {
		t.Fatalf("loading room: %v", err)
	}
	return room.Status
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var staff = domain.Actor{ID: "s-1", Role: domain.RoleStaff}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var authErr *domain.UnauthorizedError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
}
