package usecase

import (
	"context"
	"fmt"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/internal/dto/request"
	"car-rental/internal/dto/response"
	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayoutService is the operator-only ledger of money owed to listing owners.
// Amounts are operator-entered; nothing here is derived from bookings, so fee
// deduction and aggregation stay a human decision.
type PayoutService interface {
	CreatePayout(ctx context.Context, req *request.CreatePayoutRequest) (*response.PayoutResponse, error)
	ListPayouts(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PayoutResponse], error)
	GetPayoutByID(ctx context.Context, payoutID string) (*response.PayoutResponse, error)
	UpdateStatus(ctx context.Context, payoutID string, req *request.UpdatePayoutStatusRequest) (*response.PayoutResponse, error)
}

type payoutService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPayoutService(repo *repository.Repository, log *zap.Logger) PayoutService {
	return &payoutService{
		repo: repo,
		log:  log.With(zap.String("service", "payout")),
	}
}

func (s *payoutService) CreatePayout(ctx context.Context, req *request.CreatePayoutRequest) (*response.PayoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create payout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format %s: %w", req.OwnerID, err)
	}

	var periodStart, periodEnd *time.Time
	if req.PeriodStart != "" {
		start, err := utils.ParseDate(req.PeriodStart)
		if err != nil {
			return nil, fmt.Errorf("invalid period start %s: %w", req.PeriodStart, err)
		}
		periodStart = &start
	}
	if req.PeriodEnd != "" {
		end, err := utils.ParseDate(req.PeriodEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid period end %s: %w", req.PeriodEnd, err)
		}
		periodEnd = &end
	}

	now := time.Now()
	payout := &entity.Payout{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:     ownerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Status:      entity.PayoutStatusPending,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	if err := s.repo.Payout.Create(ctx, payout); err != nil {
		s.log.Error("Failed to create payout",
			zap.Error(err),
			zap.String("owner_id", req.OwnerID),
		)
		return nil, fmt.Errorf("create payout: %w", err)
	}

	s.log.Info("Payout created",
		zap.String("payout_id", payout.ID.String()),
		zap.String("owner_id", req.OwnerID),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)

	resp := response.PayoutToResponse(payout)
	return &resp, nil
}

func (s *payoutService) ListPayouts(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PayoutResponse], error) {
	payouts, err := s.repo.Payout.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list payouts", zap.Error(err))
		return nil, fmt.Errorf("list payouts: %w", err)
	}

	total, err := s.repo.Payout.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count payouts", zap.Error(err))
		return nil, fmt.Errorf("count payouts: %w", err)
	}

	responses := make([]response.PayoutResponse, len(payouts))
	for i, payout := range payouts {
		responses[i] = response.PayoutToResponse(payout)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *payoutService) GetPayoutByID(ctx context.Context, payoutID string) (*response.PayoutResponse, error) {
	payout, err := s.findPayout(ctx, payoutID)
	if err != nil {
		return nil, err
	}

	resp := response.PayoutToResponse(payout)
	return &resp, nil
}

func (s *payoutService) UpdateStatus(ctx context.Context, payoutID string, req *request.UpdatePayoutStatusRequest) (*response.PayoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	payout, err := s.findPayout(ctx, payoutID)
	if err != nil {
		return nil, err
	}

	// Pending -> paid and pending -> failed are the only transitions; paid
	// and failed are terminal. The guarded update resolves races.
	target := entity.PayoutStatus(req.Status)
	ok, err := s.repo.Payout.UpdateStatusFrom(ctx, payout.ID, entity.PayoutStatusPending, target)
	if err != nil {
		return nil, fmt.Errorf("update payout %s status: %w", payoutID, err)
	}
	if !ok {
		return nil, entity.ErrInvalidTransition
	}

	s.log.Info("Payout status updated",
		zap.String("payout_id", payoutID),
		zap.String("status", req.Status),
	)

	payout.Status = target
	resp := response.PayoutToResponse(payout)
	return &resp, nil
}

func (s *payoutService) findPayout(ctx context.Context, payoutID string) (*entity.Payout, error) {
	id, err := uuid.Parse(payoutID)
	if err != nil {
		return nil, fmt.Errorf("invalid payout ID format %s: %w", payoutID, err)
	}

	payout, err := s.repo.Payout.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load payout %s: %w", payoutID, err)
	}
	if payout == nil {
		return nil, fmt.Errorf("payout %s: %w", payoutID, entity.ErrNotFound)
	}

	return payout, nil
}
