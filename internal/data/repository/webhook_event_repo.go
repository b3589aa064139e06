package repository

import (
	"context"
	"fmt"

	"car-rental/internal/data/entity"
	"car-rental/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// WebhookEventRepository reads the dedup/audit trail of provider deliveries.
// Writes happen inside BookingRepository.ApplyCardSettlement so the event
// record and the booking transition share one transaction.
type WebhookEventRepository interface {
	FindByEventID(ctx context.Context, eventID string) (*entity.WebhookEvent, error)
}

type webhookEventRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewWebhookEventRepository(db database.Querier, log *zap.Logger) WebhookEventRepository {
	return &webhookEventRepository{
		db:  db,
		log: log.With(zap.String("repository", "webhook_event")),
	}
}

func (r *webhookEventRepository) FindByEventID(ctx context.Context, eventID string) (*entity.WebhookEvent, error) {
	query := `SELECT id, event_id, event_type, processed_at FROM webhook_events WHERE event_id = $1`

	var event entity.WebhookEvent
	err := r.db.QueryRow(ctx, query, eventID).Scan(
		&event.ID,
		&event.EventID,
		&event.EventType,
		&event.ProcessedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find webhook event",
			zap.Error(err),
			zap.String("event_id", eventID),
		)
		return nil, fmt.Errorf("find webhook event %s: %w", eventID, err)
	}

	return &event, nil
}
