package victory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"victorygoals/internal/adapter/world/memory"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

func TestConditionControl(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.Control(area())
	f.activate(t, g, err, 0)

	assert.False(t, g.Satisfied(), "an empty area is not controlled")
	assert.Equal(t, "0 / 1", g.String())

	f.city(t, 0, 61, 31)
	f.city(t, 1, 63, 33)
	assert.False(t, g.Satisfied())

	_, err = f.world.AcquireCity(civ.At(63, 33), 0)
	require.NoError(t, err)
	assert.True(t, g.Satisfied())
	assert.Equal(t, "1 / 1", g.String())
}

func TestConditionControlMultipleAreas(t *testing.T) {
	f := newFixture(t)
	other := civ.Rectangle("other", civ.At(10, 10), civ.At(12, 12))
	g, err := victory.Condition.Control(area(), other)
	f.activate(t, g, err, 0)

	f.city(t, 0, 61, 31)
	assert.Equal(t, "1 / 2", g.String())
	assert.False(t, g.Satisfied())

	f.city(t, 0, 11, 11)
	assert.True(t, g.Satisfied())
}

func TestConditionControlOrVassalize(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.ControlOrVassalize(area())
	f.activate(t, g, err, 0)

	f.city(t, 0, 61, 31)
	f.city(t, 1, 63, 33)
	assert.False(t, g.Satisfied())

	require.NoError(t, f.world.SetVassal(1, 0, true))
	assert.True(t, g.Satisfied())

	f.city(t, 2, 64, 34)
	assert.False(t, g.Satisfied())
}

func TestConditionSettle(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.Settle(area())
	f.activate(t, g, err, 0)

	f.city(t, 1, 61, 31)
	_, err = f.world.AcquireCity(civ.At(61, 31), 0)
	require.NoError(t, err)
	assert.False(t, g.Satisfied(), "a conquered city is not settled")

	f.city(t, 0, 62, 32)
	assert.True(t, g.Satisfied())
}

func TestConditionWonder(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.Wonder(pyramids)
	f.activate(t, g, err, 0)

	f.city(t, 1, 61, 31, pyramids)
	assert.False(t, g.Satisfied())

	_, err = f.world.AcquireCity(civ.At(61, 31), 0)
	require.NoError(t, err)
	assert.True(t, g.Satisfied())
}

func TestConditionWonderBareID(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.Wonder(int(pyramids))
	f.activate(t, g, err, 0)

	f.city(t, 0, 61, 31, pyramids)
	assert.True(t, g.Satisfied())
}

func TestConditionCityBuilding(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.CityBuilding(victory.Locate(f.world).CityAt(61, 31), granary, library)
	f.activate(t, g, err, 0)

	assert.False(t, g.Satisfied(), "no city yet")

	f.city(t, 0, 61, 31, granary)
	assert.False(t, g.Satisfied())
	assert.Equal(t, "1 / 2", g.String())

	require.NoError(t, f.world.UpdateCity(civ.At(61, 31), func(u *memory.CityUpdate) {
		u.SetBuilding(library, true)
	}))
	assert.True(t, g.Satisfied())
}

func TestConditionCityBuildingCapital(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.CityBuilding(victory.Locate(f.world).Capital(), barracks)
	f.activate(t, g, err, 1)

	f.city(t, 0, 61, 31, barracks)
	assert.False(t, g.Satisfied(), "capital of another player")

	f.city(t, 1, 20, 20, barracks)
	assert.True(t, g.Satisfied())
}

func TestConditionCityBuildingRequiresSubject(t *testing.T) {
	_, err := victory.Condition.CityBuilding(granary)
	assert.ErrorIs(t, err, victory.ErrValidation)
}

func TestConditionProject(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.Project(internet, genome)
	f.activate(t, g, err, 0)

	require.NoError(t, f.world.ChangeProjectCount(0, internet, 1))
	assert.False(t, g.Satisfied())
	assert.Equal(t, "1 / 2", g.String())

	require.NoError(t, f.world.ChangeProjectCount(0, genome, 1))
	assert.True(t, g.Satisfied())
}

func TestConditionRoute(t *testing.T) {
	f := newFixture(t)
	line := civ.Rectangle("line", civ.At(1, 1), civ.At(3, 1))
	g, err := victory.Condition.Route(line, road)
	f.activate(t, g, err, 0)

	f.world.SetRoute(civ.At(1, 1), road)
	f.world.SetRoute(civ.At(2, 1), road)
	assert.False(t, g.Satisfied())

	f.world.SetRoute(civ.At(3, 1), road)
	assert.True(t, g.Satisfied())
}

func TestConditionExpression(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.Expression("gold >= 500 && cities >= 2")
	f.activate(t, g, err, 0)

	f.city(t, 0, 61, 31)
	f.city(t, 0, 62, 32)
	assert.False(t, g.Satisfied())

	f.updatePlayer(t, 0, func(u *memory.PlayerUpdate) { u.ChangeGold(500) })
	assert.True(t, g.Satisfied())
}

func TestConditionExpressionRejectsNonBoolean(t *testing.T) {
	_, err := victory.Condition.Expression("gold + 1")
	assert.ErrorIs(t, err, victory.ErrValidation)
}

func TestConditionInactiveIsUnsatisfied(t *testing.T) {
	g, err := victory.Condition.Wonder(pyramids)
	require.NoError(t, err)
	assert.False(t, g.Satisfied())
	assert.Equal(t, "0 / 1", g.String())
}

func TestConditionNeedsObjectives(t *testing.T) {
	_, err := victory.Condition.Control()
	assert.ErrorIs(t, err, victory.ErrValidation)
}

func TestConditionCheckLatchesSuccess(t *testing.T) {
	f := newFixture(t)
	g, err := victory.Condition.Wonder(pyramids)
	f.activate(t, g, err, 0)

	f.city(t, 0, 61, 31, pyramids)
	g.Check()
	require.Equal(t, victory.StateSuccess, g.State())

	_, err = f.world.AcquireCity(civ.At(61, 31), 1)
	require.NoError(t, err)
	g.Check()
	assert.Equal(t, victory.StateSuccess, g.State())
	assert.False(t, g.Satisfied())
}
