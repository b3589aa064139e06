package usecase

import (
	"context"
	"fmt"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/internal/dto/request"
	"car-rental/internal/dto/response"
	"car-rental/internal/pricing"
	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ListingService interface {
	GetListings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ListingResponse], error)
	GetListingByID(ctx context.Context, listingID string) (*response.ListingResponse, error)
	CheckAvailability(ctx context.Context, listingID string, startDate, endDate string) (*response.AvailabilityResponse, error)
}

type listingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewListingService(repo *repository.Repository, log *zap.Logger) ListingService {
	return &listingService{
		repo: repo,
		log:  log.With(zap.String("service", "listing")),
	}
}

func (s *listingService) GetListings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ListingResponse], error) {
	listings, err := s.repo.Listing.FindAllBookable(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get listings", zap.Error(err))
		return nil, fmt.Errorf("get listings: %w", err)
	}

	total, err := s.repo.Listing.CountBookable(ctx)
	if err != nil {
		s.log.Error("Failed to count listings", zap.Error(err))
		return nil, fmt.Errorf("count listings: %w", err)
	}

	responses := make([]response.ListingResponse, len(listings))
	for i, listing := range listings {
		responses[i] = response.ListingToResponse(listing)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *listingService) GetListingByID(ctx context.Context, listingID string) (*response.ListingResponse, error) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format %s: %w", listingID, err)
	}

	listing, err := s.repo.Listing.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load listing %s: %w", listingID, err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %s: %w", listingID, entity.ErrNotFound)
	}

	resp := response.ListingToResponse(listing)
	return &resp, nil
}

func (s *listingService) CheckAvailability(ctx context.Context, listingID string, startDate, endDate string) (*response.AvailabilityResponse, error) {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format %s: %w", listingID, err)
	}

	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %s: %w", startDate, err)
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %s: %w", endDate, err)
	}
	if !end.After(start) {
		return nil, pricing.ErrInvalidRange
	}

	held, err := s.repo.Booking.HasHoldingOverlap(ctx, id, start, end)
	if err != nil {
		s.log.Error("Failed to check availability",
			zap.Error(err),
			zap.String("listing_id", listingID),
		)
		return nil, fmt.Errorf("check availability: %w", err)
	}

	return &response.AvailabilityResponse{
		ListingID: listingID,
		StartDate: startDate,
		EndDate:   endDate,
		Available: !held,
	}, nil
}
