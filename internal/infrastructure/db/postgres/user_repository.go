package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const userColumns = "username, first_name, last_name, email"

// UserRepository implements ports.UserRepository on Postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, password_hash, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Email)
	out, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return out, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE username = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, username).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, userErr(err, "find user")
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Detail loads the user with owned listing summaries and held bookings.
func (r *UserRepository) Detail(ctx context.Context, username string) (*domain.UserDetail, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, userErr(err, "find user")
	}

	rows, err := r.pool.Query(ctx, `SELECT id, title, type FROM listings WHERE owner_username = $1 ORDER BY id`, username)
	if err != nil {
		return nil, fmt.Errorf("user listings: %w", err)
	}
	listings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ListingSummary, error) {
		var s domain.ListingSummary
		err := row.Scan(&s.ID, &s.Title, &s.Type)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan user listings: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT username, listing_id FROM bookings WHERE username = $1 ORDER BY listing_id`, username)
	if err != nil {
		return nil, fmt.Errorf("user bookings: %w", err)
	}
	bookings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Booking, error) {
		var b domain.Booking
		err := row.Scan(&b.Username, &b.ListingID)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan user bookings: %w", err)
	}

	if listings == nil {
		listings = []domain.ListingSummary{}
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return &domain.UserDetail{User: *u, Listings: listings, Bookings: bookings}, nil
}

func (r *UserRepository) Update(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	set := userAssignments(patch)
	if len(set) == 0 {
		return r.FindByUsername(ctx, username)
	}

	query, args := buildUpdate("users", set, "username", username, userColumns)
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, userErr(err, "update user")
	}
	return u, nil
}

// Delete removes the user. Listings and bookings go with it through the
// ON DELETE CASCADE foreign keys.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

func userErr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
