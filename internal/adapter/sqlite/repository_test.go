package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roomledger/roomledger/internal/adapter/sqlite"
	"github.com/roomledger/roomledger/internal/domain"
)

// newTestRepo creates an in-memory SQLite repository for testing.
func newTestRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateRoom(t *testing.T, repo *sqlite.Repository, id, number string) domain.Room {
	t.Helper()
	room := domain.NewRoom(id, number, 2, 12000)
	if err := repo.CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("creating room %s: %v", number, err)
	}
	return room
}

func stay(y int, m time.Month, d, nights int) (time.Time, time.Time) {
	in := time.Date(y, m, d, 15, 0, 0, 0, time.UTC)
	return in, in.AddDate(0, 0, nights)
}

func TestCreateRoom_And_GetRoom(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")

	got, err := repo.GetRoom(ctx, "r-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.Number != "101" {
		t.Errorf("Number = %q, want %q", got.Number, "101")
	}
	if got.Status != domain.RoomAvailable {
		t.Errorf("Status = %q, want %q", got.Status, domain.RoomAvailable)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
}

func TestGetRoom_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRoom(context.Background(), "missing")
	if !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestCreateRoom_DuplicateNumber(t *testing.T) {
	repo := newTestRepo(t)

	mustCreateRoom(t, repo, "r-1", "101")
	err := repo.CreateRoom(context.Background(), domain.NewRoom("r-2", "101", 2, 12000))
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSaveRoom_BumpsVersion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	room := mustCreateRoom(t, repo, "r-1", "101")

	room.Status = domain.RoomReserved
	if err := repo.SaveRoom(ctx, room, 1); err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}

	got, err := repo.GetRoom(ctx, "r-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.Status != domain.RoomReserved {
		t.Errorf("Status = %q, want %q", got.Status, domain.RoomReserved)
	}
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
}

func TestSaveRoom_VersionConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	room := mustCreateRoom(t, repo, "r-1", "101")

	room.Status = domain.RoomReserved
	if err := repo.SaveRoom(ctx, room, 1); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// A writer still holding version 1 must be rejected.
	err := repo.SaveRoom(ctx, room, 1)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}
}

func TestSaveRoom_MissingRoom(t *testing.T) {
	repo := newTestRepo(t)

	ghost := domain.NewRoom("r-ghost", "999", 2, 12000)
	err := repo.SaveRoom(context.Background(), ghost, 1)
	if !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestListRooms_FilterByStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")
	r2 := mustCreateRoom(t, repo, "r-2", "102")

	r2.Status = domain.RoomCleaning
	if err := repo.SaveRoom(ctx, r2, 1); err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}

	cleaning := domain.RoomCleaning
	rooms, err := repo.ListRooms(ctx, domain.RoomFilter{Status: &cleaning})
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "r-2" {
		t.Errorf("rooms = %v, want only r-2", rooms)
	}
}

func TestReservation_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")
	in, out := stay(2024, 6, 10, 3)
	res := domain.NewReservation("res-1", "RL-ABCD1234", "r-1", "g-1", "guest@example.com",
		in, out, 2, 36000, "late arrival")

	if err := repo.CreateReservation(ctx, res); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	got, err := repo.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetReservation failed: %v", err)
	}
	if got.Confirmation != "RL-ABCD1234" {
		t.Errorf("Confirmation = %q, want %q", got.Confirmation, "RL-ABCD1234")
	}
	if !got.CheckIn.Equal(in.Truncate(time.Second)) {
		t.Errorf("CheckIn = %v, want %v", got.CheckIn, in)
	}
	if got.AmountCents != 36000 {
		t.Errorf("AmountCents = %d, want 36000", got.AmountCents)
	}
	if got.SpecialRequests != "late arrival" {
		t.Errorf("SpecialRequests = %q, want %q", got.SpecialRequests, "late arrival")
	}
}

func TestReservation_NonUTCOffsetStoredAsInstant(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")

	// Midnight at +05:00 is 19:00 UTC the previous day; the stored row
	// must keep the instant, not the wall clock.
	zone := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2024, 3, 10, 0, 0, 0, 0, zone)
	out := in.AddDate(0, 0, 3)
	res := domain.NewReservation("res-1", "RL-OFFSET01", "r-1", "g-1", "guest@example.com",
		in, out, 2, 36000, "")

	if err := repo.CreateReservation(ctx, res); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	got, err := repo.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetReservation failed: %v", err)
	}
	if !got.CheckIn.Equal(in) {
		t.Errorf("CheckIn = %v, want the instant %v", got.CheckIn, in.UTC())
	}
	if !got.CheckOut.Equal(out) {
		t.Errorf("CheckOut = %v, want the instant %v", got.CheckOut, out.UTC())
	}

	// A UTC interval inside the real stay must conflict with the stored row.
	blocking, err := repo.BlockingReservations(ctx, "r-1")
	if err != nil {
		t.Fatalf("BlockingReservations failed: %v", err)
	}
	candIn := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
	candOut := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !domain.HasConflict(candIn, candOut, blocking, "") {
		t.Errorf("interval [%v, %v) inside the stay must conflict", candIn, candOut)
	}
}

func TestCreateReservation_DuplicateConfirmation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")
	in1, out1 := stay(2024, 6, 10, 3)
	in2, out2 := stay(2024, 7, 1, 2)

	first := domain.NewReservation("res-1", "RL-SAME0001", "r-1", "g-1", "a@example.com", in1, out1, 1, 36000, "")
	second := domain.NewReservation("res-2", "RL-SAME0001", "r-1", "g-2", "b@example.com", in2, out2, 1, 24000, "")

	if err := repo.CreateReservation(ctx, first); err != nil {
		t.Fatalf("first CreateReservation failed: %v", err)
	}
	if err := repo.CreateReservation(ctx, second); !errors.Is(err, domain.ErrConfirmationTaken) {
		t.Errorf("expected ErrConfirmationTaken, got %v", err)
	}
}

func TestGetReservation_CorruptTimeSurfaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")
	in, out := stay(2024, 6, 10, 3)
	res := domain.NewReservation("res-1", "RL-1", "r-1", "g-1", "a@example.com", in, out, 1, 36000, "")
	if err := repo.CreateReservation(ctx, res); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	if _, err := repo.DB().Exec(`UPDATE reservations SET check_in = 'garbage' WHERE id = 'res-1'`); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	if _, err := repo.GetReservation(ctx, "res-1"); err == nil {
		t.Fatal("expected an error for a corrupt stored time, got nil")
	}
}

func TestBlockingReservations_ExcludesSettled(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")

	in1, out1 := stay(2024, 6, 1, 2)
	in2, out2 := stay(2024, 6, 10, 2)
	in3, out3 := stay(2024, 6, 20, 2)

	confirmed := domain.NewReservation("res-1", "RL-1", "r-1", "g-1", "a@example.com", in1, out1, 1, 24000, "")
	cancelled := domain.NewReservation("res-2", "RL-2", "r-1", "g-2", "b@example.com", in2, out2, 1, 24000, "")
	cancelled.Status = domain.ReservationCancelled
	checkedOut := domain.NewReservation("res-3", "RL-3", "r-1", "g-3", "c@example.com", in3, out3, 1, 24000, "")
	checkedOut.Status = domain.ReservationCheckedOut

	for _, res := range []domain.Reservation{confirmed, cancelled, checkedOut} {
		if err := repo.CreateReservation(ctx, res); err != nil {
			t.Fatalf("CreateReservation(%s) failed: %v", res.ID, err)
		}
	}

	blocking, err := repo.BlockingReservations(ctx, "r-1")
	if err != nil {
		t.Fatalf("BlockingReservations failed: %v", err)
	}
	if len(blocking) != 1 || blocking[0].ID != "res-1" {
		t.Errorf("blocking = %v, want only res-1", blocking)
	}
}

func TestListReservations_ByGuest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")
	mustCreateRoom(t, repo, "r-2", "102")

	in1, out1 := stay(2024, 6, 1, 2)
	in2, out2 := stay(2024, 6, 10, 2)
	a := domain.NewReservation("res-1", "RL-1", "r-1", "g-1", "a@example.com", in1, out1, 1, 24000, "")
	b := domain.NewReservation("res-2", "RL-2", "r-2", "g-2", "b@example.com", in2, out2, 1, 24000, "")
	for _, res := range []domain.Reservation{a, b} {
		if err := repo.CreateReservation(ctx, res); err != nil {
			t.Fatalf("CreateReservation failed: %v", err)
		}
	}

	got, err := repo.ListReservations(ctx, domain.ReservationFilter{GuestID: "g-1"})
	if err != nil {
		t.Fatalf("ListReservations failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "res-1" {
		t.Errorf("reservations = %v, want only res-1", got)
	}
}

func TestUpdateReservation_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	in, out := stay(2024, 6, 1, 2)
	ghost := domain.NewReservation("res-x", "RL-X", "r-1", "g-1", "a@example.com", in, out, 1, 24000, "")
	err := repo.UpdateReservation(context.Background(), ghost)
	if !errors.Is(err, domain.ErrReservationNotFound) {
		t.Errorf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestTask_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")
	task := domain.NewHousekeepingTask("task-1", "r-1", "w-1", domain.TaskCleaning,
		time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC))

	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Status != domain.TaskPending {
		t.Errorf("Status = %q, want %q", got.Status, domain.TaskPending)
	}
	if got.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", got.CompletedAt)
	}

	done := time.Date(2024, 6, 12, 11, 0, 0, 0, time.UTC)
	got.Status = domain.TaskCompleted
	got.CompletedAt = &done
	got.Notes = "fresh linens"
	if err := repo.UpdateTask(ctx, got); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	got, err = repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Status != domain.TaskCompleted {
		t.Errorf("Status = %q, want %q", got.Status, domain.TaskCompleted)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, done)
	}
	if got.Notes != "fresh linens" {
		t.Errorf("Notes = %q, want %q", got.Notes, "fresh linens")
	}
}

func TestRequest_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")
	req := domain.NewMaintenanceRequest("req-1", "r-1", "g-1", "hvac", "ac not cooling",
		domain.PriorityHigh, 15000)

	if err := repo.CreateRequest(ctx, req); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	got, err := repo.GetRequest(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if got.Status != domain.RequestReported {
		t.Errorf("Status = %q, want %q", got.Status, domain.RequestReported)
	}
	if got.Priority != domain.PriorityHigh {
		t.Errorf("Priority = %q, want %q", got.Priority, domain.PriorityHigh)
	}
	if got.ResolvedAt != nil {
		t.Errorf("ResolvedAt = %v, want nil", got.ResolvedAt)
	}

	resolved := time.Date(2024, 6, 15, 16, 0, 0, 0, time.UTC)
	got.Status = domain.RequestResolved
	got.AssignedTo = "t-1"
	got.ActualCostCents = 13500
	got.ResolvedAt = &resolved
	if err := repo.UpdateRequest(ctx, got); err != nil {
		t.Fatalf("UpdateRequest failed: %v", err)
	}

	got, err = repo.GetRequest(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if got.AssignedTo != "t-1" {
		t.Errorf("AssignedTo = %q, want %q", got.AssignedTo, "t-1")
	}
	if got.ActualCostCents != 13500 {
		t.Errorf("ActualCostCents = %d, want 13500", got.ActualCostCents)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(resolved) {
		t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, resolved)
	}
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")

	boom := errors.New("boom")
	err := repo.Atomic(ctx, func(tx domain.Store) error {
		room, err := tx.GetRoom(ctx, "r-1")
		if err != nil {
			return err
		}
		room.Status = domain.RoomMaintenance
		if err := tx.SaveRoom(ctx, room, room.Version); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Atomic = %v, want boom", err)
	}

	got, err := repo.GetRoom(ctx, "r-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.Status != domain.RoomAvailable {
		t.Errorf("Status = %q, want %q (write must roll back)", got.Status, domain.RoomAvailable)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
}

func TestAtomic_CommitsOnSuccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateRoom(t, repo, "r-1", "101")

	err := repo.Atomic(ctx, func(tx domain.Store) error {
		room, err := tx.GetRoom(ctx, "r-1")
		if err != nil {
			return err
		}
		room.Status = domain.RoomReserved
		return tx.SaveRoom(ctx, room, room.Version)
	})
	if err != nil {
		t.Fatalf("Atomic failed: %v", err)
	}

	got, err := repo.GetRoom(ctx, "r-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.Status != domain.RoomReserved {
		t.Errorf("Status = %q, want %q", got.Status, domain.RoomReserved)
	}
}
