package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// ListingRepository implements ports.ListingRepository on Postgres.
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	query := `
		INSERT INTO listings (title, type, photo_url, price, description, location, owner_username)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + listingColumns

	row := r.pool.QueryRow(ctx, query,
		l.Title, l.Type, l.PhotoURL, l.Price, l.Description, l.Location, l.OwnerUsername)
	out, err := scanListing(row)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert listing: %w", err)
	}
	return out, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*domain.Listing, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		return nil, listingErr(err, "find listing")
	}
	return l, nil
}

func (r *ListingRepository) FindAll(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query, args := buildFindAll(filter)
	return r.list(ctx, query, args...)
}

func (r *ListingRepository) FindByOwner(ctx context.Context, username string) ([]domain.Listing, error) {
	return r.list(ctx, `SELECT `+listingColumns+` FROM listings WHERE owner_username = $1 ORDER BY id`, username)
}

func (r *ListingRepository) CountByPhotoURL(ctx context.Context, url string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE photo_url = $1`, url).Scan(&n); err != nil {
		return 0, fmt.Errorf("count photo references: %w", err)
	}
	return n, nil
}

// Update writes only the fields present in patch.
func (r *ListingRepository) Update(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	set := listingAssignments(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	query, args := buildUpdate("listings", set, "id", id, listingColumns)
	l, err := scanListing(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, listingErr(err, "update listing")
	}
	return l, nil
}

// Delete removes the listing; its bookings cascade.
func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func scanListing(row scanner) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(&l.ID, &l.Title, &l.Type, &l.PhotoURL, &l.Price, &l.Description, &l.Location, &l.OwnerUsername)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func listingErr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrListingNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
