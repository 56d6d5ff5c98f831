package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	apperrors "secret-snowman-backend/internal/common/errors"
	"secret-snowman-backend/internal/features/participant/models"
	"secret-snowman-backend/internal/features/participant/repository"
)

const keyPrefix = "participant:"

type participantRepository struct {
	client *redis.Client
}

func NewParticipantRepository(client *redis.Client) repository.ParticipantRepository {
	return &participantRepository{
		client: client,
	}
}

func key(phone string) string {
	return keyPrefix + phone
}

func (r *participantRepository) GetByPhone(ctx context.Context, phone string) (*models.Participant, error) {
	data, err := r.client.Get(ctx, key(phone)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NewParticipantNotFoundError(phone)
		}
		return nil, apperrors.NewDatabaseError("get participant", err)
	}

	var p models.Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.NewDatabaseError("decode participant", err)
	}

	return &p, nil
}

func (r *participantRepository) ListAll(ctx context.Context) ([]*models.Participant, error) {
	var participants []*models.Participant
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				// Key expired between SCAN and GET.
				continue
			}
			return nil, apperrors.NewDatabaseError("scan participants", err)
		}

		var p models.Participant
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, apperrors.NewDatabaseError("decode participant", err)
		}

		participants = append(participants, &p)
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("scan participants", err)
	}

	// SCAN order is arbitrary; keep cohort order stable across runs.
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Phone < participants[j].Phone
	})

	return participants, nil
}

func (r *participantRepository) ListByGiftStatus(ctx context.Context, purchased bool) ([]*models.Participant, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Participant, 0, len(all))
	for _, p := range all {
		if p.GiftPurchased == purchased {
			filtered = append(filtered, p)
		}
	}

	return filtered, nil
}

func (r *participantRepository) SetAssigned(ctx context.Context, phone, recipientPhone string) error {
	return r.update(ctx, phone, func(p *models.Participant) {
		p.Assigned = recipientPhone
	})
}

func (r *participantRepository) SetGiftPurchased(ctx context.Context, phone string, purchased bool) error {
	return r.update(ctx, phone, func(p *models.Participant) {
		if purchased {
			p.MarkGifted()
		} else {
			p.ResetGift()
		}
	})
}

// update reads the record, applies mutate and writes it back. Both
// narrow updates rewrite the same value when re-applied, so retrying a
// partially failed bulk run is safe.
func (r *participantRepository) update(ctx context.Context, phone string, mutate func(*models.Participant)) error {
	p, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}

	mutate(p)

	data, err := json.Marshal(p)
	if err != nil {
		return apperrors.NewDatabaseError("encode participant", err)
	}

	if err := r.client.Set(ctx, key(phone), data, 0).Err(); err != nil {
		return apperrors.NewDatabaseError(fmt.Sprintf("update participant %s", phone), err)
	}

	return nil
}
