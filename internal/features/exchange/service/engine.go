package service

import (
	"math/rand"

	apperrors "secret-snowman-backend/internal/common/errors"
	"secret-snowman-backend/internal/common/metrics"
	"secret-snowman-backend/internal/features/participant/models"
)

var (
	// ErrInfeasible is returned when no valid assignment was found
	// within the attempt cap. Reachable in normal operation: two
	// participants who mutually forbid each other admit no valid
	// pairing at all.
	ErrInfeasible = apperrors.New(apperrors.ErrCodeAssignmentInfeasible, "no valid assignment found within attempt cap")

	// ErrCohortTooSmall is returned for cohorts that cannot contain a
	// derangement.
	ErrCohortTooSmall = apperrors.New(apperrors.ErrCodeBadRequest, "cohort needs at least two participants")
)

// Assignment maps each giver's phone to the recipient's phone. It is a
// bijection over the cohort with no fixed points and no forbidden
// pairings.
type Assignment map[string]string

// Engine computes gift assignments by drawing uniform permutations of
// the cohort and accepting the first one that satisfies every
// participant's constraints. It performs no I/O; persistence and
// notification belong to the caller.
type Engine struct {
	rnd         *rand.Rand
	maxAttempts int
}

// NewEngine creates an engine drawing randomness from rnd. Tests pass a
// seeded source for deterministic runs.
func NewEngine(rnd *rand.Rand, maxAttempts int) *Engine {
	return &Engine{
		rnd:         rnd,
		maxAttempts: maxAttempts,
	}
}

// Assign pairs every participant in the cohort with a recipient, or
// returns ErrInfeasible once the attempt cap is exhausted.
func (e *Engine) Assign(cohort []*models.Participant) (Assignment, error) {
	if len(cohort) < 2 {
		return nil, ErrCohortTooSmall
	}

	candidates := make([]*models.Participant, len(cohort))
	copy(candidates, cohort)

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		e.shuffle(candidates)
		metrics.AssignmentShuffles.Inc()

		if !satisfied(cohort, candidates) {
			continue
		}

		assignment := make(Assignment, len(cohort))
		for i, p := range cohort {
			assignment[p.Phone] = candidates[i].Phone
		}
		return assignment, nil
	}

	return nil, ErrInfeasible
}

// shuffle performs a Fisher-Yates shuffle in place.
func (e *Engine) shuffle(participants []*models.Participant) {
	for i := len(participants) - 1; i > 0; i-- {
		j := e.rnd.Intn(i + 1)
		participants[i], participants[j] = participants[j], participants[i]
	}
}

// satisfied checks the candidate alignment position by position: nobody
// is assigned themselves or someone on their cannot-match list.
func satisfied(cohort, candidates []*models.Participant) bool {
	for i, p := range cohort {
		if !p.MayBeAssigned(candidates[i].Phone) {
			return false
		}
	}
	return true
}
