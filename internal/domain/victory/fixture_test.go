package victory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"victorygoals/internal/adapter/eventbus/inprocess"
	"victorygoals/internal/adapter/world/memory"
	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

const (
	granary  civ.BuildingType = 1
	barracks civ.BuildingType = 2
	library  civ.BuildingType = 3
	pyramids civ.BuildingType = 10

	gold   civ.BonusType = 1
	silver civ.BonusType = 2

	road civ.RouteType = 0

	internet civ.ProjectType = 1
	genome   civ.ProjectType = 2

	classical civ.EraType = 1
	medieval  civ.EraType = 2
	law       civ.TechType = 5
	feudalism civ.TechType = 6

	swordsman    civ.UnitType = 1
	galley       civ.UnitType = 2
	warGalley    civ.UnitType = 3
	greatGeneral civ.UnitType = 4
	scientist    civ.UnitType = 5
	archer       civ.UnitType = 6
	legion       civ.UnitType = 7

	cottage civ.ImprovementType = 1

	silkRoute      civ.CorporationType = 1
	tradingCompany civ.CorporationType = 2

	greatScientist civ.SpecialistType = 1
	greatArtist    civ.SpecialistType = 2

	developing  civ.CultureLevelType = 2
	refined     civ.CultureLevelType = 3
	influential civ.CultureLevelType = 4
)

type fixture struct {
	world *memory.World
	bus   *inprocess.Bus
	host  victory.Host
}

// newFixture seeds four players on their own teams; player 3 is minor.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := memory.NewWorld()
	for id := civ.PlayerID(0); id < 4; id++ {
		w.AddPlayer(id, civ.TeamID(id), id != 3)
	}
	w.DefineTech(law, classical)
	w.DefineTech(feudalism, medieval)
	w.DefineUnit(swordsman, civ.DomainLand, false)
	w.DefineUnit(galley, civ.DomainSea, false)
	w.DefineUnit(warGalley, civ.DomainSea, false)
	w.DefineUnit(greatGeneral, civ.DomainLand, true)
	w.DefineUnit(scientist, civ.DomainLand, false)
	w.DefineUnit(archer, civ.DomainLand, false)
	w.DefineUnit(legion, civ.DomainLand, false)
	w.DefineUniqueUnit(legion, swordsman)
	w.DefineCultureLevel(developing, 100)
	w.DefineCultureLevel(refined, 1000)
	w.DefineCultureLevel(influential, 3000)
	bus := inprocess.NewBus()
	return &fixture{
		world: w,
		bus:   bus,
		host:  victory.Host{World: w, Events: bus, Handlers: victory.NewEventHandlers()},
	}
}

func (f *fixture) activate(t *testing.T, g victory.Goal, err error, player civ.PlayerID) victory.Goal {
	t.Helper()
	require.NoError(t, err)
	require.NoError(t, g.Activate(f.host, player, nil))
	t.Cleanup(g.Deactivate)
	return g
}

func (f *fixture) city(t *testing.T, owner civ.PlayerID, x, y int, buildings ...civ.BuildingType) civ.City {
	t.Helper()
	c, err := f.world.FoundCity(owner, civ.At(x, y))
	require.NoError(t, err)
	if len(buildings) > 0 {
		require.NoError(t, f.world.UpdateCity(civ.At(x, y), func(u *memory.CityUpdate) {
			for _, b := range buildings {
				u.SetBuilding(b, true)
			}
		}))
	}
	return c
}

func (f *fixture) updatePlayer(t *testing.T, id civ.PlayerID, fn func(u *memory.PlayerUpdate)) {
	t.Helper()
	require.NoError(t, f.world.UpdatePlayer(id, fn))
}

func (f *fixture) unit(t *testing.T, owner civ.PlayerID, kind civ.UnitType) civ.Unit {
	t.Helper()
	u, err := f.world.SpawnUnit(owner, kind)
	require.NoError(t, err)
	return u
}

func area() civ.Plots {
	return civ.Rectangle("area", civ.At(60, 30), civ.At(65, 35))
}
