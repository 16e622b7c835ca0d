package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/conference-room-backend/internal/room"
)

// Repository defines methods for accessing booking data.
type Repository interface {
	// Create inserts the booking after checking for conflicts, as one atomic
	// unit: the target room row is locked for the duration of the
	// transaction, so concurrent creates against the same room serialize.
	// When an active booking overlaps the candidate interval, the first
	// conflict (by creation order) is returned and nothing is inserted.
	// Returns room.ErrNotFound when the room does not exist.
	Create(ctx context.Context, b *Booking) (conflict *Booking, err error)

	GetByID(ctx context.Context, id string) (*Booking, error)

	// FindConflicts returns active bookings for the room strictly
	// overlapping [start, end), ordered by created_at then id.
	FindConflicts(ctx context.Context, roomID string, start, end time.Time) ([]*Booking, error)

	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// The status flips below are guarded on the booking's prior status and
	// report whether a row was actually updated. False means the booking
	// already left the expected status, typically due to a concurrent
	// transition, and the caller must treat the flip as not having happened.
	Approve(ctx context.Context, id, approverID string, at time.Time) (bool, error)
	Reject(ctx context.Context, id string, reason *string) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
	ExpirePending(ctx context.Context, id string, reason string) (bool, error)

	// Update persists the descriptive fields (purpose, notes, attendee
	// count). Times and status are never written through this path.
	Update(ctx context.Context, b *Booking) error
}

const bookingColumns = `b.id, b.room_id, b.user_id, b.start_time, b.end_time, b.status,
	b.is_active, b.purpose, b.notes, b.attendee_count, b.is_recurring,
	b.approved_by, b.approved_at, b.rejection_reason, b.created_at, b.updated_at,
	r.name, r.organization_id, o.name,
	u.first_name || ' ' || u.last_name, u.email`

const bookingFrom = `
	FROM public.bookings b
	JOIN public.rooms r ON b.room_id = r.id
	JOIN public.organizations o ON r.organization_id = o.id
	JOIN public.users u ON b.user_id = u.id`

var bookingSelectColumns = []string{
	"b.id", "b.room_id", "b.user_id", "b.start_time", "b.end_time", "b.status",
	"b.is_active", "b.purpose", "b.notes", "b.attendee_count", "b.is_recurring",
	"b.approved_by", "b.approved_at", "b.rejection_reason", "b.created_at", "b.updated_at",
	"r.name", "r.organization_id", "o.name",
	"u.first_name || ' ' || u.last_name", "u.email",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.RoomID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status,
		&b.IsActive, &b.Purpose, &b.Notes, &b.AttendeeCount, &b.IsRecurring,
		&b.ApprovedBy, &b.ApprovedAt, &b.RejectionReason, &b.CreatedAt, &b.UpdatedAt,
		&b.RoomName, &b.RoomOrganizationID, &b.RoomOrganizationName,
		&b.UserName, &b.UserEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the room row so concurrent creates for the same room serialize
	// on the conflict check. Missing row means the room does not exist.
	var roomID string
	err = tx.QueryRow(ctx, `SELECT id FROM public.rooms WHERE id = $1 FOR UPDATE`, b.RoomID).
		Scan(&roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, room.ErrNotFound
		}
		return nil, fmt.Errorf("lock room failed: %w", err)
	}

	conflicts, err := findConflicts(ctx, tx, b.RoomID, b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return conflicts[0], nil
	}

	query := `INSERT INTO public.bookings
		(room_id, user_id, start_time, end_time, status, is_active,
		 purpose, notes, attendee_count, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		b.RoomID, b.UserID, b.StartTime, b.EndTime, b.Status, b.IsActive,
		b.Purpose, b.Notes, b.AttendeeCount, b.IsRecurring,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create booking tx failed: %w", err)
	}
	return nil, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findConflicts(ctx context.Context, q queryer, roomID string, start, end time.Time) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + `
		WHERE b.room_id = $1
		  AND b.status IN ('PENDING', 'APPROVED')
		  AND b.start_time < $3
		  AND b.end_time > $2
		ORDER BY b.created_at, b.id`

	rows, err := q.Query(ctx, query, roomID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query conflicts failed: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*Booking, error) {
	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) FindConflicts(ctx context.Context, roomID string, start, end time.Time) ([]*Booking, error) {
	return findConflicts(ctx, r.pool, roomID, start, end)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingSelectColumns...).
		From("public.bookings b").
		Join("public.rooms r ON b.room_id = r.id").
		Join("public.organizations o ON r.organization_id = o.id").
		Join("public.users u ON b.user_id = u.id").
		OrderBy("b.start_time", "b.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"b.room_id": filter.RoomID})
	}
	if filter.RoomOrganizationID != "" {
		query = query.Where(squirrel.Eq{"r.organization_id": filter.RoomOrganizationID})
	}
	if len(filter.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"b.status": filter.Statuses})
	}
	if filter.StartBefore != nil {
		query = query.Where(squirrel.Lt{"b.start_time": *filter.StartBefore})
	}
	if filter.StartAfter != nil {
		query = query.Where(squirrel.Gt{"b.start_time": *filter.StartAfter})
	}
	if filter.OngoingAt != nil {
		query = query.
			Where(squirrel.LtOrEq{"b.start_time": *filter.OngoingAt}).
			Where(squirrel.Gt{"b.end_time": *filter.OngoingAt})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"b.is_active": true})
	}
	if filter.HistoryOnly {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"b.is_active": false},
			squirrel.Eq{"b.status": StatusCompleted},
		})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// flip runs a guarded status update and reports whether a row changed.
func (r *pgxRepository) flip(ctx context.Context, query string, args ...any) (bool, error) {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgxRepository) Approve(ctx context.Context, id, approverID string, at time.Time) (bool, error) {
	query := `UPDATE public.bookings
		SET status = 'APPROVED', approved_by = $2, approved_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'PENDING'`
	return r.flip(ctx, query, id, approverID, at)
}

func (r *pgxRepository) Reject(ctx context.Context, id string, reason *string) (bool, error) {
	query := `UPDATE public.bookings
		SET status = 'REJECTED', rejection_reason = $2, updated_at = now()
		WHERE id = $1 AND status = 'PENDING'`
	return r.flip(ctx, query, id, reason)
}

func (r *pgxRepository) Cancel(ctx context.Context, id string) (bool, error) {
	query := `UPDATE public.bookings
		SET status = 'CANCELLED', updated_at = now()
		WHERE id = $1 AND status IN ('PENDING', 'APPROVED')`
	return r.flip(ctx, query, id)
}

func (r *pgxRepository) ExpirePending(ctx context.Context, id string, reason string) (bool, error) {
	query := `UPDATE public.bookings
		SET status = 'REJECTED', rejection_reason = $2, updated_at = now()
		WHERE id = $1 AND status = 'PENDING'`
	return r.flip(ctx, query, id, reason)
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	query := `UPDATE public.bookings
		SET purpose = $2, notes = $3, attendee_count = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, b.ID, b.Purpose, b.Notes, b.AttendeeCount)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
