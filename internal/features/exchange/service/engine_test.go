package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "secret-snowman-backend/internal/common/errors"
	"secret-snowman-backend/internal/features/participant/models"
)

func testCohort(n int) []*models.Participant {
	cohort := make([]*models.Participant, n)
	for i := range cohort {
		cohort[i] = &models.Participant{
			Phone: fmt.Sprintf("+1206555%04d", i),
			Name:  fmt.Sprintf("Person %d", i),
		}
	}
	return cohort
}

func assertValidAssignment(t *testing.T, cohort []*models.Participant, assignment Assignment) {
	t.Helper()

	require.Len(t, assignment, len(cohort))

	seen := make(map[string]bool, len(cohort))
	for _, p := range cohort {
		recipient, ok := assignment[p.Phone]
		require.True(t, ok, "no recipient for %s", p.Phone)

		assert.NotEqual(t, p.Phone, recipient, "self-assignment for %s", p.Phone)
		assert.NotContains(t, p.CannotMatch, recipient, "forbidden pairing for %s", p.Phone)

		assert.False(t, seen[recipient], "recipient %s assigned twice", recipient)
		seen[recipient] = true
	}
}

func TestAssignSatisfiesConstraints(t *testing.T) {
	cohort := testCohort(6)
	cohort[0].CannotMatch = []string{cohort[1].Phone}
	cohort[1].CannotMatch = []string{cohort[0].Phone}
	cohort[2].CannotMatch = []string{cohort[5].Phone}

	engine := NewEngine(rand.New(rand.NewSource(1)), 10000)

	for i := 0; i < 50; i++ {
		assignment, err := engine.Assign(cohort)
		require.NoError(t, err)
		assertValidAssignment(t, cohort, assignment)
	}
}

func TestAssignDeterministicWithSeed(t *testing.T) {
	cohort := testCohort(8)

	first, err := NewEngine(rand.New(rand.NewSource(42)), 10000).Assign(cohort)
	require.NoError(t, err)

	second, err := NewEngine(rand.New(rand.NewSource(42)), 10000).Assign(cohort)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssignProducesDifferentMappings(t *testing.T) {
	cohort := testCohort(5)
	engine := NewEngine(rand.New(rand.NewSource(7)), 10000)

	distinct := make(map[string]bool)
	for i := 0; i < 20; i++ {
		assignment, err := engine.Assign(cohort)
		require.NoError(t, err)
		assertValidAssignment(t, cohort, assignment)
		distinct[fmt.Sprint(assignment)] = true
	}

	assert.Greater(t, len(distinct), 1, "20 runs over 44 derangements should not collapse to one mapping")
}

func TestAssignInfeasibleMutualForbid(t *testing.T) {
	// The only non-self permutation of two people is the swap, and both
	// forbid it.
	cohort := testCohort(2)
	cohort[0].CannotMatch = []string{cohort[1].Phone}
	cohort[1].CannotMatch = []string{cohort[0].Phone}

	engine := NewEngine(rand.New(rand.NewSource(3)), 500)

	assignment, err := engine.Assign(cohort)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.Nil(t, assignment)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeAssignmentInfeasible, appErr.Code)
}

func TestAssignCohortTooSmall(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(3)), 500)

	_, err := engine.Assign(testCohort(1))
	assert.ErrorIs(t, err, ErrCohortTooSmall)

	_, err = engine.Assign(nil)
	assert.ErrorIs(t, err, ErrCohortTooSmall)
}

func TestAssignDoesNotMutateCohortOrder(t *testing.T) {
	cohort := testCohort(6)
	engine := NewEngine(rand.New(rand.NewSource(9)), 10000)

	_, err := engine.Assign(cohort)
	require.NoError(t, err)

	for i, p := range cohort {
		assert.Equal(t, fmt.Sprintf("+1206555%04d", i), p.Phone)
	}
}
