package repository

import (
	"context"
	"fmt"

	"car-rental/internal/data/entity"
	"car-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ListingRepository reads the catalog snapshot. Listings are owned by the
// catalog collaborator; the engine only reads them (and seeds them via SQL).
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	FindAllBookable(ctx context.Context, limit, offset int) ([]*entity.Listing, error)
	CountBookable(ctx context.Context) (int64, error)
}

type listingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewListingRepository(db database.Querier, log *zap.Logger) ListingRepository {
	return &listingRepository{
		db:  db,
		log: log.With(zap.String("repository", "listing")),
	}
}

const listingColumns = `id, owner_id, title, daily_rate, chauffeur_rate, currency, is_active, is_approved, created_at, updated_at`

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var listing entity.Listing
	err := row.Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.Title,
		&listing.DailyRate,
		&listing.ChauffeurRate,
		&listing.Currency,
		&listing.IsActive,
		&listing.IsApproved,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find listing by ID",
			zap.Error(err),
			zap.String("listing_id", id.String()),
		)
		return nil, fmt.Errorf("find listing by ID %s: %w", id.String(), err)
	}

	return listing, nil
}

func (r *listingRepository) FindAllBookable(ctx context.Context, limit, offset int) ([]*entity.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE is_active = TRUE AND is_approved = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookable listings", zap.Error(err))
		return nil, fmt.Errorf("list bookable listings: %w", err)
	}
	defer rows.Close()

	var listings []*entity.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			r.log.Error("Failed to scan listing row", zap.Error(err))
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

func (r *listingRepository) CountBookable(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM listings WHERE is_active = TRUE AND is_approved = TRUE`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count bookable listings", zap.Error(err))
		return 0, fmt.Errorf("count bookable listings: %w", err)
	}

	return count, nil
}
