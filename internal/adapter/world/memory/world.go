package memory

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"victorygoals/internal/domain/civ"
)

var (
	ErrUnknownPlayer = errors.New("unknown player")
	ErrUnknownTeam   = errors.New("unknown team")
	ErrPlotOccupied  = errors.New("plot already has a city")
	ErrNoCity        = errors.New("no city on plot")
)

type playerState struct {
	team          civ.TeamID
	major         bool
	alive         bool
	gold          int
	goldenAge     int
	anarchy       int
	tradeGold     int
	bonuses       map[civ.BonusType]int
	goldPerTurnBy map[civ.PlayerID]int
	capital       civ.Point
	hasCapital    bool
}

type teamState struct {
	projects map[civ.ProjectType]int
	masters  map[civ.TeamID]bool
	techs    map[civ.TechType]bool
	borders  map[civ.TeamID]bool
}

type cityState struct {
	id            int
	owner         civ.PlayerID
	originalOwner civ.PlayerID
	location      civ.Point
	buildings     map[civ.BuildingType]bool
	culture       int
	population    int
	corporations  map[civ.CorporationType]bool
	specialists   map[civ.SpecialistType]int
}

type plotState struct {
	route       civ.RouteType
	bonus       civ.BonusType
	owner       civ.PlayerID
	improvement civ.ImprovementType
}

type unitState struct {
	id    int
	owner civ.PlayerID
	kind  civ.UnitType
}

// World is an in-process game state. It implements civ.World for goal
// evaluation and exposes the mutations a host game would perform.
type World struct {
	mu sync.RWMutex

	turn    int
	players map[civ.PlayerID]*playerState
	teams   map[civ.TeamID]*teamState
	cities  map[civ.Point]*cityState
	plots   map[civ.Point]*plotState
	units   map[int]*unitState

	techEras      map[civ.TechType]civ.EraType
	firsts        map[civ.TechType]civ.TeamID
	unitDomains   map[civ.UnitType]civ.Domain
	greatGenerals map[civ.UnitType]bool
	unitClasses   map[civ.UnitType]civ.UnitType
	thresholds    map[civ.CultureLevelType]int

	nextCityID int
	nextUnitID int
}

var _ civ.World = (*World)(nil)

func NewWorld() *World {
	return &World{
		players:       make(map[civ.PlayerID]*playerState),
		teams:         make(map[civ.TeamID]*teamState),
		cities:        make(map[civ.Point]*cityState),
		plots:         make(map[civ.Point]*plotState),
		units:         make(map[int]*unitState),
		techEras:      make(map[civ.TechType]civ.EraType),
		firsts:        make(map[civ.TechType]civ.TeamID),
		unitDomains:   make(map[civ.UnitType]civ.Domain),
		greatGenerals: make(map[civ.UnitType]bool),
		unitClasses:   make(map[civ.UnitType]civ.UnitType),
		thresholds:    make(map[civ.CultureLevelType]int),
		nextCityID:    1,
		nextUnitID:    1,
	}
}

func (w *World) Turn() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.turn
}

func (w *World) SetTurn(turn int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turn = turn
}

// AddPlayer registers an alive player and creates its team if needed.
func (w *World) AddPlayer(id civ.PlayerID, team civ.TeamID, major bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players[id] = &playerState{
		team:          team,
		major:         major,
		alive:         true,
		bonuses:       make(map[civ.BonusType]int),
		goldPerTurnBy: make(map[civ.PlayerID]int),
	}
	if _, ok := w.teams[team]; !ok {
		w.teams[team] = &teamState{
			projects: make(map[civ.ProjectType]int),
			masters:  make(map[civ.TeamID]bool),
			techs:    make(map[civ.TechType]bool),
			borders:  make(map[civ.TeamID]bool),
		}
	}
}

func (w *World) Player(id civ.PlayerID) (civ.Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.players[id]; !ok {
		return nil, false
	}
	return playerView{w: w, id: id}, true
}

func (w *World) Team(id civ.TeamID) (civ.Team, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.teams[id]; !ok {
		return nil, false
	}
	return teamView{w: w, id: id}, true
}

func (w *World) PlayerIDs() []civ.PlayerID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]civ.PlayerID, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (w *World) CityAt(p civ.Point) (civ.City, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.cities[p]
	if !ok {
		return nil, false
	}
	return cityView{w: w, id: c.id}, true
}

func (w *World) cityByID(id int) *cityState {
	for _, c := range w.cities {
		if c.id == id {
			return c
		}
	}
	return nil
}

// sortedCities returns the cities matching keep ordered by id.
func (w *World) sortedCities(keep func(c *cityState) bool) []civ.City {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var states []*cityState
	for _, c := range w.cities {
		if keep(c) {
			states = append(states, c)
		}
	}
	slices.SortFunc(states, func(a, b *cityState) int { return a.id - b.id })
	out := make([]civ.City, len(states))
	for i, c := range states {
		out[i] = cityView{w: w, id: c.id}
	}
	return out
}

func (w *World) Cities(owner civ.PlayerID) []civ.City {
	return w.sortedCities(func(c *cityState) bool { return c.owner == owner })
}

func (w *World) AllCities() []civ.City {
	return w.sortedCities(func(*cityState) bool { return true })
}

func (w *World) Capital(owner civ.PlayerID) (civ.City, bool) {
	w.mu.RLock()
	p, ok := w.players[owner]
	if !ok || !p.hasCapital {
		w.mu.RUnlock()
		return nil, false
	}
	loc := p.capital
	w.mu.RUnlock()
	return w.CityAt(loc)
}

// Plot returns the plot at p. Every point of the map exists.
func (w *World) Plot(p civ.Point) (civ.Plot, bool) {
	return plotView{w: w, at: p}, true
}

func (w *World) TechEra(tech civ.TechType) civ.EraType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.techEras[tech]
}

func (w *World) FirstDiscoverer(tech civ.TechType) (civ.TeamID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	team, ok := w.firsts[tech]
	return team, ok
}

func (w *World) UnitDomain(unit civ.UnitType) civ.Domain {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if d, ok := w.unitDomains[unit]; ok {
		return d
	}
	return civ.DomainLand
}

func (w *World) IsGreatGeneral(unit civ.UnitType) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.greatGenerals[unit]
}

func (w *World) UnitClass(unit civ.UnitType) civ.UnitType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if class, ok := w.unitClasses[unit]; ok {
		return class
	}
	return unit
}

func (w *World) CultureThreshold(level civ.CultureLevelType) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.thresholds[level]
}

func (w *World) DefineTech(tech civ.TechType, era civ.EraType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.techEras[tech] = era
}

func (w *World) DefineUnit(unit civ.UnitType, domain civ.Domain, greatGeneral bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.unitDomains[unit] = domain
	w.greatGenerals[unit] = greatGeneral
}

// DefineUniqueUnit makes unit count as the unit it replaces.
func (w *World) DefineUniqueUnit(unit, replaces civ.UnitType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.unitClasses[unit] = replaces
}

func (w *World) DefineCultureLevel(level civ.CultureLevelType, threshold int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.thresholds[level] = threshold
}

func (w *World) player(id civ.PlayerID) (*playerState, error) {
	p, ok := w.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	return p, nil
}

func (w *World) team(id civ.TeamID) (*teamState, error) {
	t, ok := w.teams[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTeam, id)
	}
	return t, nil
}

// UpdatePlayer applies fn to the player's mutable state.
func (w *World) UpdatePlayer(id civ.PlayerID, fn func(p *PlayerUpdate)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, err := w.player(id)
	if err != nil {
		return err
	}
	fn(&PlayerUpdate{state: p})
	return nil
}

// PlayerUpdate exposes the mutable fields of a player inside UpdatePlayer.
type PlayerUpdate struct {
	state *playerState
}

func (u *PlayerUpdate) SetAlive(alive bool)         { u.state.alive = alive }
func (u *PlayerUpdate) ChangeGold(delta int)        { u.state.gold += delta }
func (u *PlayerUpdate) SetGoldenAgeTurns(turns int) { u.state.goldenAge = turns }
func (u *PlayerUpdate) SetAnarchyTurns(turns int)   { u.state.anarchy = turns }
func (u *PlayerUpdate) SetTradeGold(gold int)       { u.state.tradeGold = gold }

func (u *PlayerUpdate) SetAvailableBonuses(bonus civ.BonusType, n int) {
	u.state.bonuses[bonus] = n
}

func (u *PlayerUpdate) SetGoldPerTurnByPlayer(other civ.PlayerID, gold int) {
	u.state.goldPerTurnBy[other] = gold
}

// FoundCity creates a city for owner. The first city of a player becomes
// its capital.
func (w *World) FoundCity(owner civ.PlayerID, at civ.Point) (civ.City, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, err := w.player(owner)
	if err != nil {
		return nil, err
	}
	if _, ok := w.cities[at]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPlotOccupied, at)
	}
	c := &cityState{
		id:            w.nextCityID,
		owner:         owner,
		originalOwner: owner,
		location:      at,
		buildings:     make(map[civ.BuildingType]bool),
		population:    1,
		corporations:  make(map[civ.CorporationType]bool),
		specialists:   make(map[civ.SpecialistType]int),
	}
	w.nextCityID++
	w.cities[at] = c
	if !p.hasCapital {
		p.capital, p.hasCapital = at, true
	}
	return cityView{w: w, id: c.id}, nil
}

// AcquireCity transfers the city to newOwner and returns the previous owner.
func (w *World) AcquireCity(at civ.Point, newOwner civ.PlayerID) (civ.PlayerID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.cities[at]
	if !ok {
		return civ.NoPlayer, fmt.Errorf("%w: %s", ErrNoCity, at)
	}
	p, err := w.player(newOwner)
	if err != nil {
		return civ.NoPlayer, err
	}
	previous := c.owner
	c.owner = newOwner
	w.dropCapital(previous, at)
	if !p.hasCapital {
		p.capital, p.hasCapital = at, true
	}
	return previous, nil
}

func (w *World) RemoveCity(at civ.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.cities[at]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCity, at)
	}
	delete(w.cities, at)
	w.dropCapital(c.owner, at)
	return nil
}

// dropCapital moves the capital of owner to its oldest remaining city when
// the city at lost was the capital.
func (w *World) dropCapital(owner civ.PlayerID, lost civ.Point) {
	p, ok := w.players[owner]
	if !ok || !p.hasCapital || p.capital != lost {
		return
	}
	p.hasCapital = false
	var next *cityState
	for _, c := range w.cities {
		if c.owner == owner && (next == nil || c.id < next.id) {
			next = c
		}
	}
	if next != nil {
		p.capital, p.hasCapital = next.location, true
	}
}

func (w *World) SetCapital(owner civ.PlayerID, at civ.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, err := w.player(owner)
	if err != nil {
		return err
	}
	c, ok := w.cities[at]
	if !ok || c.owner != owner {
		return fmt.Errorf("%w: %s", ErrNoCity, at)
	}
	p.capital, p.hasCapital = at, true
	return nil
}

// UpdateCity applies fn to the city at the point.
func (w *World) UpdateCity(at civ.Point, fn func(c *CityUpdate)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.cities[at]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCity, at)
	}
	fn(&CityUpdate{state: c})
	return nil
}

type CityUpdate struct {
	state *cityState
}

func (u *CityUpdate) SetBuilding(b civ.BuildingType, has bool) { u.state.buildings[b] = has }
func (u *CityUpdate) SetCulture(culture int)                   { u.state.culture = culture }
func (u *CityUpdate) SetPopulation(population int)             { u.state.population = population }

func (u *CityUpdate) SetCorporation(corporation civ.CorporationType, has bool) {
	u.state.corporations[corporation] = has
}

func (u *CityUpdate) SetFreeSpecialists(specialist civ.SpecialistType, n int) {
	u.state.specialists[specialist] = n
}

func (w *World) plot(at civ.Point) *plotState {
	p, ok := w.plots[at]
	if !ok {
		p = &plotState{route: civ.NoRoute, bonus: civ.NoBonus, owner: civ.NoPlayer, improvement: civ.NoImprovement}
		w.plots[at] = p
	}
	return p
}

func (w *World) SetRoute(at civ.Point, route civ.RouteType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plot(at).route = route
}

func (w *World) SetBonus(at civ.Point, bonus civ.BonusType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plot(at).bonus = bonus
}

func (w *World) SetPlotOwner(at civ.Point, owner civ.PlayerID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plot(at).owner = owner
}

func (w *World) SetImprovement(at civ.Point, improvement civ.ImprovementType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plot(at).improvement = improvement
}

// SetOpenBorders opens or closes the borders of team to other. Each
// direction is set on its own.
func (w *World) SetOpenBorders(team, other civ.TeamID, open bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.team(team)
	if err != nil {
		return err
	}
	if _, err := w.team(other); err != nil {
		return err
	}
	t.borders[other] = open
	return nil
}

func (w *World) SetVassal(team, master civ.TeamID, vassal bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.team(team)
	if err != nil {
		return err
	}
	if _, err := w.team(master); err != nil {
		return err
	}
	t.masters[master] = vassal
	return nil
}

func (w *World) ChangeProjectCount(team civ.TeamID, project civ.ProjectType, delta int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.team(team)
	if err != nil {
		return err
	}
	t.projects[project] += delta
	return nil
}

// DiscoverTech gives the team the tech and reports whether it was the first
// team to discover it.
func (w *World) DiscoverTech(team civ.TeamID, tech civ.TechType) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.team(team)
	if err != nil {
		return false, err
	}
	t.techs[tech] = true
	if _, ok := w.firsts[tech]; ok {
		return false, nil
	}
	w.firsts[tech] = team
	return true, nil
}

func (w *World) SpawnUnit(owner civ.PlayerID, kind civ.UnitType) (civ.Unit, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.player(owner); err != nil {
		return nil, err
	}
	u := &unitState{id: w.nextUnitID, owner: owner, kind: kind}
	w.nextUnitID++
	w.units[u.id] = u
	return unitView{w: w, id: u.id}, nil
}

func (w *World) Unit(id int) (civ.Unit, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.units[id]; !ok {
		return nil, false
	}
	return unitView{w: w, id: id}, true
}

// Units returns the units of owner ordered by id.
func (w *World) Units(owner civ.PlayerID) []civ.Unit {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var ids []int
	for id, u := range w.units {
		if u.owner == owner {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]civ.Unit, len(ids))
	for i, id := range ids {
		out[i] = unitView{w: w, id: id}
	}
	return out
}

func (w *World) RemoveUnit(id int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.units, id)
}
