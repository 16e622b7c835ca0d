package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing room data.
type Repository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, room *Room) error

	// Delete removes the room. Bookings referencing the room are removed by
	// the schema's ON DELETE CASCADE; this is the only path on which
	// bookings are physically deleted.
	Delete(ctx context.Context, id string) error
}

const roomColumns = `r.id, r.organization_id, o.name, r.name, r.description, r.capacity,
	r.location, r.floor, r.access_level, r.allowed_organization_ids, r.image_urls,
	r.is_active, r.created_at, r.updated_at`

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, room *Room) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.rooms").
		Columns("organization_id", "name", "description", "capacity", "location", "floor",
			"access_level", "allowed_organization_ids", "image_urls", "is_active").
		Values(room.OrganizationID, room.Name, room.Description, room.Capacity,
			room.Location, room.Floor, room.AccessLevel, room.AllowedOrganizationIDs,
			room.ImageURLs, room.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create room query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("create room failed: %w", err)
	}
	return nil
}

func scanRoom(row pgx.Row) (*Room, error) {
	var rm Room
	err := row.Scan(
		&rm.ID, &rm.OrganizationID, &rm.OrganizationName, &rm.Name, &rm.Description,
		&rm.Capacity, &rm.Location, &rm.Floor, &rm.AccessLevel,
		&rm.AllowedOrganizationIDs, &rm.ImageURLs,
		&rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan room failed: %w", err)
	}
	return &rm, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	query := `SELECT ` + roomColumns + `
		FROM public.rooms r
		JOIN public.organizations o ON r.organization_id = o.id
		WHERE r.id = $1`
	return scanRoom(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.organization_id", "o.name", "r.name", "r.description", "r.capacity",
		"r.location", "r.floor", "r.access_level", "r.allowed_organization_ids", "r.image_urls",
		"r.is_active", "r.created_at", "r.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.rooms r").
		Join("public.organizations o ON r.organization_id = o.id")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"r.organization_id": filter.OrganizationID})
	}
	if filter.MinCapacity > 0 {
		query = query.Where(squirrel.GtOrEq{"r.capacity": filter.MinCapacity})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"r.is_active": true})
	}

	query = query.OrderBy("o.name ASC", "r.name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	var total int
	for rows.Next() {
		var rm Room
		if err := rows.Scan(
			&rm.ID, &rm.OrganizationID, &rm.OrganizationName, &rm.Name, &rm.Description,
			&rm.Capacity, &rm.Location, &rm.Floor, &rm.AccessLevel,
			&rm.AllowedOrganizationIDs, &rm.ImageURLs,
			&rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, &rm)
	}

	return rooms, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, room *Room) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.rooms").
		Set("name", room.Name).
		Set("description", room.Description).
		Set("capacity", room.Capacity).
		Set("location", room.Location).
		Set("floor", room.Floor).
		Set("access_level", room.AccessLevel).
		Set("allowed_organization_ids", room.AllowedOrganizationIDs).
		Set("image_urls", room.ImageURLs).
		Set("is_active", room.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": room.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("update room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete room query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
