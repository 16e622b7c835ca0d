package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)

	// ListByOrganizationAndRole returns active users of the given role inside
	// the organization. Used for admin notification fan-out.
	ListByOrganizationAndRole(ctx context.Context, orgID string, role Role) ([]*User, error)

	// ListByRole returns all active users with the given role, unscoped.
	ListByRole(ctx context.Context, role Role) ([]*User, error)
}

const userColumns = `
	u.id,
	u.email,
	u.password_hash,
	u.first_name,
	u.last_name,
	u.role,
	u.organization_id,
	o.name,
	u.account_status,
	u.is_active,
	u.created_at,
	u.last_login_at`

const userFrom = `
	FROM public.users u
	LEFT JOIN public.organizations o ON u.organization_id = o.id`

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.OrganizationID, &u.OrganizationName,
		&u.AccountStatus, &u.IsActive, &u.CreatedAt, &u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user failed: %w", err)
	}
	return &u, nil
}

func (r *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT` + userColumns + userFrom + ` WHERE u.email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + userFrom + ` WHERE u.id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxUserRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.users
			(email, password_hash, first_name, last_name, role, organization_id, account_status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Role, u.OrganizationID, u.AccountStatus, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) Update(ctx context.Context, u *User) error {
	const query = `
		UPDATE public.users
		SET first_name = $2,
			last_name = $3,
			role = $4,
			organization_id = $5,
			account_status = $6,
			is_active = $7
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Role, u.OrganizationID, u.AccountStatus, u.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update user failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxUserRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `UPDATE public.users SET last_login_at = $2 WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id, t); err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"u.id", "u.email", "u.password_hash", "u.first_name", "u.last_name",
		"u.role", "u.organization_id", "o.name",
		"u.account_status", "u.is_active", "u.created_at", "u.last_login_at",
		"count(*) OVER() as total_count",
	).
		From("public.users u").
		LeftJoin("public.organizations o ON u.organization_id = o.id")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"u.organization_id": filter.OrganizationID})
	}
	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"u.role": filter.Role})
	}
	if filter.AccountStatus != "" {
		query = query.Where(squirrel.Eq{"u.account_status": filter.AccountStatus})
	}

	query = query.OrderBy("u.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int

	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Role, &u.OrganizationID, &u.OrganizationName,
			&u.AccountStatus, &u.IsActive, &u.CreatedAt, &u.LastLoginAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, &u)
	}

	return users, total, nil
}

func (r *pgxUserRepository) ListByOrganizationAndRole(ctx context.Context, orgID string, role Role) ([]*User, error) {
	query := `SELECT` + userColumns + userFrom + `
		WHERE u.organization_id = $1 AND u.role = $2 AND u.is_active = true
		ORDER BY u.created_at`

	return r.queryUsers(ctx, query, orgID, role)
}

func (r *pgxUserRepository) ListByRole(ctx context.Context, role Role) ([]*User, error) {
	query := `SELECT` + userColumns + userFrom + `
		WHERE u.role = $1 AND u.is_active = true
		ORDER BY u.created_at`

	return r.queryUsers(ctx, query, role)
}

func (r *pgxUserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Role, &u.OrganizationID, &u.OrganizationName,
			&u.AccountStatus, &u.IsActive, &u.CreatedAt, &u.LastLoginAt,
		); err != nil {
			return nil, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, &u)
	}
	return users, nil
}
