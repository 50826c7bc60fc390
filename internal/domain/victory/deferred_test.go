package victory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

func TestDeferredResolvesFreshEachCall(t *testing.T) {
	calls := 0
	d := victory.Defer("counter", func(args ...any) (int, bool) {
		calls++
		return calls, true
	})

	first, ok := d.Resolve()
	require.True(t, ok)
	second, _ := d.Resolve()

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestDeferredAppendsCallArguments(t *testing.T) {
	var seen []any
	d := victory.Defer("echo", func(args ...any) ([]any, bool) {
		seen = args
		return args, true
	}, 1, 2)

	_, _ = d.Resolve(3)

	assert.Equal(t, []any{1, 2, 3}, seen)
	assert.Equal(t, "echo[1 2]", d.String())
}

func TestNilDeferredIsAbsent(t *testing.T) {
	var d *victory.Deferred[civ.City]
	_, ok := d.Resolve()
	assert.False(t, ok)
}

func TestCapitalWithoutCities(t *testing.T) {
	f := newFixture(t)
	_, ok := victory.Locate(f.world).Capital().Resolve(civ.PlayerID(0))
	assert.False(t, ok)
}

func TestCapitalAfterCity(t *testing.T) {
	f := newFixture(t)
	city := f.city(t, 0, 0, 0)

	capital, ok := victory.Locate(f.world).Capital().Resolve(civ.PlayerID(0))

	require.True(t, ok)
	assert.Equal(t, city.ID(), capital.ID())
}

func TestCapitalBeforeCity(t *testing.T) {
	f := newFixture(t)
	deferred := victory.Locate(f.world).Capital()
	city := f.city(t, 0, 0, 0)

	capital, ok := deferred.Resolve(0)

	require.True(t, ok)
	assert.Equal(t, city.ID(), capital.ID())
}

func TestCapitalBoundPlayer(t *testing.T) {
	f := newFixture(t)
	f.city(t, 0, 0, 0)
	city := f.city(t, 1, 5, 5)

	capital, ok := victory.Locate(f.world).Capital(1).Resolve(civ.PlayerID(0))

	require.True(t, ok)
	assert.Equal(t, city.ID(), capital.ID())
}

func TestCityWithoutCities(t *testing.T) {
	f := newFixture(t)
	_, ok := victory.Locate(f.world).CityAt(0, 0).Resolve()
	assert.False(t, ok)
}

func TestCityBeforeAndAfterFounding(t *testing.T) {
	f := newFixture(t)
	deferred := victory.Locate(f.world).CityAt(0, 0)
	_, ok := deferred.Resolve()
	require.False(t, ok)

	city := f.city(t, 0, 0, 0)

	resolved, ok := deferred.Resolve()
	require.True(t, ok)
	assert.Equal(t, city.ID(), resolved.ID())
}

func TestWonderWithoutWonder(t *testing.T) {
	f := newFixture(t)
	f.city(t, 0, 0, 0)

	_, ok := victory.Locate(f.world).Wonder(pyramids).Resolve()

	assert.False(t, ok)
}

func TestWonderWithWonder(t *testing.T) {
	f := newFixture(t)
	deferred := victory.Locate(f.world).Wonder(pyramids)
	city := f.city(t, 1, 0, 0, pyramids)

	resolved, ok := deferred.Resolve()

	require.True(t, ok)
	assert.Equal(t, city.ID(), resolved.ID())
}
