package repository

import (
	"context"

	"secret-snowman-backend/internal/features/participant/models"
)

// ParticipantRepository is the durable store for participant records.
// All reads must be strongly consistent with prior writes: stale reads
// of the assignment or the purchased flag would produce wrong replies
// or wrong constraint checks.
type ParticipantRepository interface {
	// GetByPhone returns the participant keyed by phone, or an error
	// with code PARTICIPANT_NOT_FOUND.
	GetByPhone(ctx context.Context, phone string) (*models.Participant, error)

	// ListAll returns the full cohort ordered by phone.
	ListAll(ctx context.Context) ([]*models.Participant, error)

	// ListByGiftStatus returns participants whose purchased flag
	// matches, ordered by phone.
	ListByGiftStatus(ctx context.Context, purchased bool) ([]*models.Participant, error)

	// SetAssigned writes the participant's recipient. Idempotent.
	SetAssigned(ctx context.Context, phone, recipientPhone string) error

	// SetGiftPurchased writes the purchased flag. Idempotent and never
	// touches the assignment.
	SetGiftPurchased(ctx context.Context, phone string, purchased bool) error
}
