package service

import (
	"context"
	"fmt"
	"strings"

	"secret-snowman-backend/internal/common/metrics"
	"secret-snowman-backend/internal/features/participant/models"
)

// listByGiftStatus renders the admin status list for one side of the
// purchased flag.
func (s *ExchangeService) listByGiftStatus(ctx context.Context, purchased bool) (string, error) {
	participants, err := s.repo.ListByGiftStatus(ctx, purchased)
	if err != nil {
		return "", err
	}

	prefix := "No Gift:\n"
	if purchased {
		prefix = "Gift:\n"
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range participants {
		fmt.Fprintf(&b, "%s (%s)\n", p.Name, p.Phone)
	}

	return b.String(), nil
}

// assignGifts runs one bulk-assignment pass: scan the cohort once,
// compute the full mapping, then persist and notify one participant at
// a time. The whole mapping exists before the first write, so an
// infeasible cohort leaves the store untouched. The per-record writes
// are not transactional; rerunning after a partial failure rewrites the
// same values.
func (s *ExchangeService) assignGifts(ctx context.Context) (string, error) {
	cohort, err := s.repo.ListAll(ctx)
	if err != nil {
		return "", err
	}

	assignment, err := s.engine.Assign(cohort)
	if err != nil {
		return "", err
	}

	byPhone := indexByPhone(cohort)

	var b strings.Builder
	for _, p := range cohort {
		recipient := byPhone[assignment[p.Phone]]

		if err := s.repo.SetAssigned(ctx, p.Phone, recipient.Phone); err != nil {
			return "", err
		}

		sid, err := s.sender.Send(ctx, p.Phone, fmt.Sprintf(introFormat, p.Name, recipient.Name))
		metrics.RecordOutbound("intro", err)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "%s: %s\n", p.Name, sid)
	}

	s.logger.Info().Int("cohort_size", len(cohort)).Msg("Assignment run complete")

	return b.String(), nil
}

// remindUngifted texts every participant who hasn't purchased yet. The
// assignee is resolved inside the already-fetched cohort snapshot; a
// miss is reported per participant instead of aborting the batch.
func (s *ExchangeService) remindUngifted(ctx context.Context) (string, error) {
	cohort, err := s.repo.ListAll(ctx)
	if err != nil {
		return "", err
	}

	byPhone := indexByPhone(cohort)

	var b strings.Builder
	for _, p := range cohort {
		if p.GiftPurchased {
			continue
		}

		recipient, ok := byPhone[p.Assigned]
		if !ok {
			s.logger.Warn().
				Str("participant", p.Phone).
				Str("assigned", p.Assigned).
				Msg("Assignee not in cohort snapshot, skipping reminder")
			fmt.Fprintf(&b, "%s: failure\n", p.Name)
			continue
		}

		_, err := s.sender.Send(ctx, p.Phone, fmt.Sprintf(reminderFormat, p.Name, recipient.Name))
		metrics.RecordOutbound("reminder", err)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "%s: success\n", p.Name)
	}

	return b.String(), nil
}

func indexByPhone(cohort []*models.Participant) map[string]*models.Participant {
	byPhone := make(map[string]*models.Participant, len(cohort))
	for _, p := range cohort {
		byPhone[p.Phone] = p
	}
	return byPhone
}
