package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/roomledger/roomledger/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time check: Repository implements domain.Store.
var _ domain.Store = (*Repository)(nil)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting one query implementation serve both the root repository and
// its transactional view.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements domain.Store using SQLite.
type Repository struct {
	db *sql.DB // nil when this repository wraps a transaction
	q  dbtx
}

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*Repository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps transactions and an in-memory database
	// coherent and avoids SQLITE_BUSY under write contention.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Writers wait out short lock windows instead of failing fast.
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready repository.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*Repository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &Repository{db: db, q: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Atomic runs fn against a transactional view of the repository,
// committing on nil and rolling back on error. A nested call runs fn
// directly inside the enclosing transaction.
func (r *Repository) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&Repository{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = "2006-01-02T15:04:05Z"

// formatTime converts to UTC before formatting. The layout's trailing Z
// is a literal, so formatting a non-UTC wall clock directly would store
// a shifted instant labeled as UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}

// --- rooms ---

func (r *Repository) CreateRoom(ctx context.Context, room domain.Room) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO rooms (id, number, status, max_occupancy, price_cents, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID, room.Number, string(room.Status), room.MaxOccupancy, room.PriceCents, room.Version,
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ValidationError{Field: "number", Reason: "already exists"}
		}
		return fmt.Errorf("inserting room: %w", err)
	}
	return nil
}

func (r *Repository) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	return scanRoom(r.q.QueryRowContext(ctx,
		`SELECT id, number, status, max_occupancy, price_cents, version, created_at, updated_at
		 FROM rooms WHERE id = ?`, id,
	))
}

func (r *Repository) ListRooms(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	query := `SELECT id, number, status, max_occupancy, price_cents, version, created_at, updated_at FROM rooms`
	var args []any

	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY number ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		room, err := scanRoomFromRows(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// SaveRoom writes the room's status if the stored version still matches
// expectedVersion, bumping the version on success. A mismatch returns
// domain.ErrVersionConflict.
func (r *Repository) SaveRoom(ctx context.Context, room domain.Room, expectedVersion int64) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE rooms SET status = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		string(room.Status), formatTime(time.Now()),
		room.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("saving room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetRoom(ctx, room.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}
	return nil
}

// --- reservations ---

func (r *Repository) CreateReservation(ctx context.Context, res domain.Reservation) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO reservations (id, confirmation, room_id, guest_id, guest_email, check_in, check_out,
		                           guests, status, amount_cents, special_requests, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Confirmation, res.RoomID, res.GuestID, res.GuestEmail,
		formatTime(res.CheckIn), formatTime(res.CheckOut),
		res.Guests, string(res.Status), res.AmountCents, res.SpecialRequests,
		formatTime(res.CreatedAt), formatTime(res.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) && strings.Contains(err.Error(), "reservations.confirmation") {
			return domain.ErrConfirmationTaken
		}
		return fmt.Errorf("inserting reservation: %w", err)
	}
	return nil
}

func (r *Repository) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	return scanReservation(r.q.QueryRowContext(ctx,
		reservationColumns+` FROM reservations WHERE id = ?`, id,
	))
}

func (r *Repository) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	query := reservationColumns + ` FROM reservations`
	var where []string
	var args []any

	if filter.RoomID != "" {
		where = append(where, `room_id = ?`)
		args = append(args, filter.RoomID)
	}
	if filter.GuestID != "" {
		where = append(where, `guest_id = ?`)
		args = append(args, filter.GuestID)
	}
	if filter.Status != nil {
		where = append(where, `status = ?`)
		args = append(args, string(*filter.Status))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}

	query += ` ORDER BY check_in ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// BlockingReservations returns the reservations that occupy a room's
// calendar, i.e. those confirmed or checked in.
func (r *Repository) BlockingReservations(ctx context.Context, roomID string) ([]domain.Reservation, error) {
	rows, err := r.q.QueryContext(ctx,
		reservationColumns+` FROM reservations
		 WHERE room_id = ? AND status IN (?, ?)
		 ORDER BY check_in ASC`,
		roomID, string(domain.ReservationConfirmed), string(domain.ReservationCheckedIn),
	)
	if err != nil {
		return nil, fmt.Errorf("listing blocking reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *Repository) UpdateReservation(ctx context.Context, res domain.Reservation) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE reservations SET status = ?, special_requests = ?, updated_at = ?
		 WHERE id = ?`,
		string(res.Status), res.SpecialRequests,
		formatTime(time.Now()), res.ID,
	)
	if err != nil {
		return fmt.Errorf("updating reservation: %w", err)
	}
	return requireRow(result, domain.ErrReservationNotFound)
}

// --- housekeeping tasks ---

func (r *Repository) CreateTask(ctx context.Context, t domain.HousekeepingTask) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO housekeeping_tasks (id, room_id, assigned_to, type, status, notes,
		                                 scheduled_for, completed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.RoomID, t.AssignedTo, string(t.Type), string(t.Status), t.Notes,
		formatTime(t.ScheduledFor), nullableTime(t.CompletedAt),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, id string) (domain.HousekeepingTask, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, room_id, assigned_to, type, status, notes, scheduled_for, completed_at, created_at, updated_at
		 FROM housekeeping_tasks WHERE id = ?`, id,
	)

	var t domain.HousekeepingTask
	var taskType, status, scheduledFor, createdAt, updatedAt string
	var completedAt sql.NullString

	err := row.Scan(&t.ID, &t.RoomID, &t.AssignedTo, &taskType, &status, &t.Notes,
		&scheduledFor, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.HousekeepingTask{}, domain.ErrTaskNotFound
		}
		return domain.HousekeepingTask{}, fmt.Errorf("scanning task: %w", err)
	}

	t.Type = domain.TaskType(taskType)
	t.Status = domain.TaskStatus(status)
	if t.ScheduledFor, err = parseTime(scheduledFor); err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("scanning task: %w", err)
	}
	if t.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("scanning task: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("scanning task: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.HousekeepingTask{}, fmt.Errorf("scanning task: %w", err)
	}

	return t, nil
}

func (r *Repository) UpdateTask(ctx context.Context, t domain.HousekeepingTask) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE housekeeping_tasks SET assigned_to = ?, status = ?, notes = ?, scheduled_for = ?,
		        completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		t.AssignedTo, string(t.Status), t.Notes, formatTime(t.ScheduledFor),
		nullableTime(t.CompletedAt), formatTime(time.Now()), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRow(result, domain.ErrTaskNotFound)
}

// --- maintenance requests ---

func (r *Repository) CreateRequest(ctx context.Context, m domain.MaintenanceRequest) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO maintenance_requests (id, room_id, reported_by, assigned_to, issue_type, description,
		                                   status, priority, estimated_cost_cents, actual_cost_cents,
		                                   resolved_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.RoomID, m.ReportedBy, m.AssignedTo, m.IssueType, m.Description,
		string(m.Status), string(m.Priority), m.EstimatedCostCents, m.ActualCostCents,
		nullableTime(m.ResolvedAt),
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting request: %w", err)
	}
	return nil
}

func (r *Repository) GetRequest(ctx context.Context, id string) (domain.MaintenanceRequest, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, room_id, reported_by, assigned_to, issue_type, description, status, priority,
		        estimated_cost_cents, actual_cost_cents, resolved_at, created_at, updated_at
		 FROM maintenance_requests WHERE id = ?`, id,
	)

	var m domain.MaintenanceRequest
	var status, priority, createdAt, updatedAt string
	var resolvedAt sql.NullString

	err := row.Scan(&m.ID, &m.RoomID, &m.ReportedBy, &m.AssignedTo, &m.IssueType, &m.Description,
		&status, &priority, &m.EstimatedCostCents, &m.ActualCostCents,
		&resolvedAt, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.MaintenanceRequest{}, domain.ErrRequestNotFound
		}
		return domain.MaintenanceRequest{}, fmt.Errorf("scanning request: %w", err)
	}

	m.Status = domain.RequestStatus(status)
	m.Priority = domain.Priority(priority)
	if m.ResolvedAt, err = parseNullableTime(resolvedAt); err != nil {
		return domain.MaintenanceRequest{}, fmt.Errorf("scanning request: %w", err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.MaintenanceRequest{}, fmt.Errorf("scanning request: %w", err)
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.MaintenanceRequest{}, fmt.Errorf("scanning request: %w", err)
	}

	return m, nil
}

func (r *Repository) UpdateRequest(ctx context.Context, m domain.MaintenanceRequest) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE maintenance_requests SET assigned_to = ?, status = ?, actual_cost_cents = ?,
		        resolved_at = ?, updated_at = ?
		 WHERE id = ?`,
		m.AssignedTo, string(m.Status), m.ActualCostCents,
		nullableTime(m.ResolvedAt), formatTime(time.Now()), m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating request: %w", err)
	}
	return requireRow(result, domain.ErrRequestNotFound)
}

// --- scanning helpers ---

const reservationColumns = `SELECT id, confirmation, room_id, guest_id, guest_email, check_in, check_out,
       guests, status, amount_cents, special_requests, created_at, updated_at`

func scanRoom(row *sql.Row) (domain.Room, error) {
	var room domain.Room
	var status, createdAt, updatedAt string

	err := row.Scan(&room.ID, &room.Number, &status, &room.MaxOccupancy, &room.PriceCents,
		&room.Version, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, fmt.Errorf("scanning room: %w", err)
	}

	room.Status = domain.RoomStatus(status)
	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Room{}, fmt.Errorf("scanning room: %w", err)
	}
	if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Room{}, fmt.Errorf("scanning room: %w", err)
	}

	return room, nil
}

func scanRoomFromRows(rows *sql.Rows) (domain.Room, error) {
	var room domain.Room
	var status, createdAt, updatedAt string

	err := rows.Scan(&room.ID, &room.Number, &status, &room.MaxOccupancy, &room.PriceCents,
		&room.Version, &createdAt, &updatedAt)
	if err != nil {
		return domain.Room{}, fmt.Errorf("scanning room row: %w", err)
	}

	room.Status = domain.RoomStatus(status)
	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Room{}, fmt.Errorf("scanning room row: %w", err)
	}
	if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Room{}, fmt.Errorf("scanning room row: %w", err)
	}

	return room, nil
}

func scanReservation(row *sql.Row) (domain.Reservation, error) {
	var res domain.Reservation
	var checkIn, checkOut, status, createdAt, updatedAt string

	err := row.Scan(&res.ID, &res.Confirmation, &res.RoomID, &res.GuestID, &res.GuestEmail,
		&checkIn, &checkOut, &res.Guests, &status, &res.AmountCents, &res.SpecialRequests,
		&createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("scanning reservation: %w", err)
	}

	res.Status = domain.ReservationStatus(status)
	if err := fillReservationTimes(&res, checkIn, checkOut, createdAt, updatedAt); err != nil {
		return domain.Reservation{}, fmt.Errorf("scanning reservation: %w", err)
	}

	return res, nil
}

func collectReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		var checkIn, checkOut, status, createdAt, updatedAt string

		err := rows.Scan(&res.ID, &res.Confirmation, &res.RoomID, &res.GuestID, &res.GuestEmail,
			&checkIn, &checkOut, &res.Guests, &status, &res.AmountCents, &res.SpecialRequests,
			&createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}

		res.Status = domain.ReservationStatus(status)
		if err := fillReservationTimes(&res, checkIn, checkOut, createdAt, updatedAt); err != nil {
			return nil, fmt.Errorf("scanning reservation row: %w", err)
		}

		out = append(out, res)
	}
	return out, rows.Err()
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func fillReservationTimes(res *domain.Reservation, checkIn, checkOut, createdAt, updatedAt string) error {
	var err error
	if res.CheckIn, err = parseTime(checkIn); err != nil {
		return err
	}
	if res.CheckOut, err = parseTime(checkOut); err != nil {
		return err
	}
	if res.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	res.UpdatedAt, err = parseTime(updatedAt)
	return err
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
