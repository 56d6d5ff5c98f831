package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	apperrors "secret-snowman-backend/internal/common/errors"
	"secret-snowman-backend/internal/common/metrics"
	"secret-snowman-backend/internal/features/participant/models"
	"secret-snowman-backend/internal/features/participant/repository"
)

// ExchangeService interprets inbound (phone, text) pairs against stored
// participant state and produces the reply text.
type ExchangeService struct {
	repo       repository.ParticipantRepository
	sender     MessageSender
	engine     *Engine
	adminPhone string
	logger     zerolog.Logger
}

func NewExchangeService(
	repo repository.ParticipantRepository,
	sender MessageSender,
	engine *Engine,
	adminPhone string,
	logger zerolog.Logger,
) *ExchangeService {
	return &ExchangeService{
		repo:       repo,
		sender:     sender,
		engine:     engine,
		adminPhone: adminPhone,
		logger:     logger,
	}
}

// HandleMessage is the single entry point for one inbound SMS. It
// returns the reply text; a non-nil error means an internal failure the
// delivery layer converts into the generic error reply.
func (s *ExchangeService) HandleMessage(ctx context.Context, from, body string) (string, error) {
	if from == "" {
		return notParticipatingText, nil
	}

	key := normalize(body)
	metrics.RecordCommand(commandLabel(key))

	s.logger.Debug().
		Str("from", from).
		Str("command", key).
		Msg("Dispatching inbound message")

	if from == s.adminPhone {
		switch key {
		case CommandNoGifts:
			return s.listByGiftStatus(ctx, false)
		case CommandGifts:
			return s.listByGiftStatus(ctx, true)
		case CommandAssignGifts:
			reply, err := s.assignGifts(ctx)
			if errors.Is(err, ErrInfeasible) || errors.Is(err, ErrCohortTooSmall) {
				s.logger.Warn().Err(err).Msg("Assignment run failed")
				return infeasibleText, nil
			}
			return reply, err
		case CommandRemind:
			return s.remindUngifted(ctx)
		}
		// Anything else from the admin is handled as an ordinary
		// participant command.
	}

	return s.handleParticipant(ctx, from, key)
}

func (s *ExchangeService) handleParticipant(ctx context.Context, from, key string) (string, error) {
	p, err := s.repo.GetByPhone(ctx, from)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return notParticipatingText, nil
		}
		return "", err
	}

	// "unknown" is a template key, not a trigger phrase; texting it
	// literally gets the same echo as any unmatched text.
	if _, known := participantFormats[key]; !known || key == CommandUnknown {
		return renderReply(CommandUnknown, p.Name, key), nil
	}

	switch key {
	case CommandGifted:
		if err := s.repo.SetGiftPurchased(ctx, from, true); err != nil {
			return "", err
		}
	case CommandReset:
		if err := s.repo.SetGiftPurchased(ctx, from, false); err != nil {
			return "", err
		}
	}

	if key == CommandMenu {
		return renderReply(CommandMenu, p.Name, ""), nil
	}

	// Every remaining reply names the sender's recipient.
	if p.State() == models.StateAwaitingAssignment {
		return notAssignedText, nil
	}

	recipient, err := s.repo.GetByPhone(ctx, p.Assigned)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.logger.Error().
				Str("participant", p.Phone).
				Str("assigned", p.Assigned).
				Msg("Assigned recipient missing from store")
			return notAssignedText, nil
		}
		return "", err
	}

	return renderReply(key, p.Name, recipient.Name), nil
}

// normalize folds inbound text to the vocabulary's form: trimmed,
// lower-cased, exact match.
func normalize(body string) string {
	return strings.ToLower(strings.TrimSpace(body))
}

// commandLabel keeps the metrics label space bounded for unmatched text.
func commandLabel(key string) string {
	switch key {
	case CommandIntro, CommandMenu, CommandAssignment, CommandGifted, CommandReset,
		CommandNoGifts, CommandGifts, CommandAssignGifts, CommandRemind:
		return key
	default:
		return CommandUnknown
	}
}
