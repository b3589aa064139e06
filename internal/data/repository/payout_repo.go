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

type PayoutRepository interface {
	Create(ctx context.Context, payout *entity.Payout) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payout, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Payout, error)
	CountAll(ctx context.Context) (int64, error)

	// UpdateStatusFrom commits only when the payout is still in the expected
	// prior status. Returns false when another transition won.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entity.PayoutStatus) (bool, error)
}

type payoutRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPayoutRepository(db database.Querier, log *zap.Logger) PayoutRepository {
	return &payoutRepository{
		db:  db,
		log: log.With(zap.String("repository", "payout")),
	}
}

const payoutColumns = `id, owner_id, amount, currency, status, period_start, period_end, created_at, updated_at`

func scanPayout(row pgx.Row) (*entity.Payout, error) {
	var payout entity.Payout
	err := row.Scan(
		&payout.ID,
		&payout.OwnerID,
		&payout.Amount,
		&payout.Currency,
		&payout.Status,
		&payout.PeriodStart,
		&payout.PeriodEnd,
		&payout.CreatedAt,
		&payout.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) Create(ctx context.Context, payout *entity.Payout) error {
	query := `
		INSERT INTO payouts (id, owner_id, amount, currency, status, period_start, period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		payout.ID,
		payout.OwnerID,
		payout.Amount,
		payout.Currency,
		payout.Status,
		payout.PeriodStart,
		payout.PeriodEnd,
		payout.CreatedAt,
		payout.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payout",
			zap.Error(err),
			zap.String("owner_id", payout.OwnerID.String()),
		)
		return fmt.Errorf("create payout for owner %s: %w", payout.OwnerID.String(), err)
	}

	return nil
}

func (r *payoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	payout, err := scanPayout(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payout by ID",
			zap.Error(err),
			zap.String("payout_id", id.String()),
		)
		return nil, fmt.Errorf("find payout by ID %s: %w", id.String(), err)
	}

	return payout, nil
}

func (r *payoutRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Payout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payouts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list payouts", zap.Error(err))
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*entity.Payout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			r.log.Error("Failed to scan payout row", zap.Error(err))
			return nil, fmt.Errorf("scan payout row: %w", err)
		}
		payouts = append(payouts, payout)
	}

	return payouts, nil
}

func (r *payoutRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM payouts`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count payouts", zap.Error(err))
		return 0, fmt.Errorf("count payouts: %w", err)
	}

	return count, nil
}

func (r *payoutRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entity.PayoutStatus) (bool, error) {
	query := `UPDATE payouts SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update payout status",
			zap.Error(err),
			zap.String("payout_id", id.String()),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update payout %s status to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}
