package engine

import (
	"testing"

	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllExpandInFirstSlotGetsOneShip(t *testing.T) {
	order := models.CommandOrder{models.Expand, models.Explore, models.Exterminate}
	m := BuildMatrix([]models.CommandOrder{order, order, order})

	assert.Equal(t, 3, m.Usage(models.Expand, 0))
	assert.Equal(t, 1, m.Budget(models.Expand, 0))
	assert.Equal(t, 0, m.Usage(models.Expand, 1))
	assert.Equal(t, 4, m.Budget(models.Expand, 1))
}

func TestMatrixIsRebuiltFromOrders(t *testing.T) {
	m := BuildMatrix([]models.CommandOrder{
		{models.Expand, models.Explore, models.Exterminate},
		{models.Explore, models.Expand, models.Exterminate},
	})
	assert.Equal(t, UsageMatrix{{1, 1, 0}, {1, 1, 0}, {0, 0, 2}}, m)
	assert.Equal(t, 2, m.Budget(models.Exterminate, 2))
	assert.Contains(t, m.String(), "Exterminate")
}

func TestBudgetIsNonIncreasingAndFloored(t *testing.T) {
	prev := Budget(0)
	for usage := 1; usage <= 8; usage++ {
		b := Budget(usage)
		assert.LessOrEqual(t, b, prev)
		assert.GreaterOrEqual(t, b, 1)
		prev = b
	}
	assert.LessOrEqual(t, Budget(5), Budget(1))
	assert.Equal(t, 1, Budget(5))
}

func TestInvadeConservation(t *testing.T) {
	for a := 1; a <= 6; a++ {
		for d := 0; d <= 6; d++ {
			b := Invade(a, d)
			assert.Equal(t, min(a, d), b.Losses)
			assert.Equal(t, a-b.Losses, b.AttackersLeft)
			assert.Equal(t, d-b.Losses, b.DefendersLeft)

			captured := b.AttackersLeft > 0 && b.DefendersLeft == 0
			repelled := b.DefendersLeft > 0 && b.AttackersLeft == 0
			vacated := b.AttackersLeft == 0 && b.DefendersLeft == 0
			n := 0
			for _, ok := range []bool{captured, repelled, vacated} {
				if ok {
					n++
				}
			}
			assert.Equal(t, 1, n, "a=%d d=%d", a, d)
		}
	}
	assert.Equal(t, OutcomeVacated, Invade(1, 1).Outcome)
	assert.Equal(t, OutcomeRepelled, Invade(2, 3).Outcome)
	assert.Equal(t, OutcomeCaptured, Invade(1, 0).Outcome)
}

func TestTriPrimeIsNeverTransit(t *testing.T) {
	b := testBoard(3)
	l := gamemap.NewLedger()
	start := hex.MustNew(-1, -1, 2)
	tri := hex.MustNew(0, -1, 1)
	beyond := hex.MustNew(0, -2, 2)

	require.NoError(t, ValidateMove(b, l, 1, start, tri, false))
	err := ValidatePath(b, l, 1, []hex.Coord{start, tri, beyond})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTriPrimeTransit)
	assert.Contains(t, err.Error(), "step 2")

	// Leaving Tri-Prime at the start of a sequence is fine.
	assert.NoError(t, ValidatePath(b, l, 1, []hex.Coord{tri, hex.MustNew(0, 0, 0)}))
}

func TestValidateMoveRejections(t *testing.T) {
	b := testBoard(3)
	l := gamemap.NewLedger()
	enemy, _ := models.NewPlayer(2, "Bo")
	held := hex.MustNew(1, 0, -1)
	require.NoError(t, l.AddShip(held, enemy.NewShip(held)))

	origin := hex.MustNew(0, 0, 0)
	assert.ErrorIs(t, ValidateMove(b, l, 1, origin, hex.MustNew(0, 1, -1), false), ErrBoundary)
	assert.ErrorIs(t, ValidateMove(b, l, 1, origin, held, false), ErrOccupied)
	assert.NoError(t, ValidateMove(b, l, 2, origin, held, false))
	assert.ErrorIs(t, ValidateMove(b, l, 1, origin, hex.MustNew(2, -4, 2), false), ErrNotAdjacent)
	assert.ErrorIs(t, ValidateMove(b, l, 1, origin, hex.MustNew(9, -9, 0), false), ErrOffBoard)
	assert.NoError(t, ValidateMove(b, l, 1, origin, hex.MustNew(1, -1, 0), false))
	assert.ErrorIs(t, ValidateMove(b, l, 1, origin, hex.MustNew(1, -1, 0), true), ErrInvalidChoice)
}

func TestValidateAttackTarget(t *testing.T) {
	b := testBoard(3)
	l := gamemap.NewLedger()
	me, _ := models.NewPlayer(1, "Al")
	origin := hex.MustNew(0, 0, 0)
	mine := hex.MustNew(1, -1, 0)
	require.NoError(t, l.AddShip(mine, me.NewShip(mine)))

	assert.ErrorIs(t, ValidateAttackTarget(b, l, 1, origin, mine), ErrOwnHex)
	assert.ErrorIs(t, ValidateAttackTarget(b, l, 1, origin, hex.MustNew(-1, 0, 1)), ErrBoundary)
	assert.ErrorIs(t, ValidateAttackTarget(b, l, 1, origin, hex.MustNew(3, -3, 0)), ErrNotAdjacent)
	assert.NoError(t, ValidateAttackTarget(b, l, 1, origin, hex.MustNew(1, 0, -1)))
}

func TestExcess(t *testing.T) {
	assert.Equal(t, 1, Excess(gamemap.Sector{Level: 2}, 4))
	assert.Equal(t, 0, Excess(gamemap.Sector{Level: 2}, 3))
	assert.Equal(t, 0, Excess(gamemap.Sector{Level: 3}, 0))
}
