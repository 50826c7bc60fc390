package memory

import "victorygoals/internal/domain/civ"

// Views read through to the world on every call so goals holding them see
// the current state.

type playerView struct {
	w  *World
	id civ.PlayerID
}

func (v playerView) read(fn func(p *playerState)) {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if p, ok := v.w.players[v.id]; ok {
		fn(p)
	}
}

func (v playerView) ID() civ.PlayerID { return v.id }

func (v playerView) TeamID() civ.TeamID {
	team := civ.NoTeam
	v.read(func(p *playerState) { team = p.team })
	return team
}

func (v playerView) Alive() (alive bool) {
	v.read(func(p *playerState) { alive = p.alive })
	return alive
}

func (v playerView) Major() (major bool) {
	v.read(func(p *playerState) { major = p.major })
	return major
}

func (v playerView) Gold() (gold int) {
	v.read(func(p *playerState) { gold = p.gold })
	return gold
}

func (v playerView) GoldenAgeTurns() (turns int) {
	v.read(func(p *playerState) { turns = p.goldenAge })
	return turns
}

func (v playerView) AnarchyTurns() (turns int) {
	v.read(func(p *playerState) { turns = p.anarchy })
	return turns
}

func (v playerView) AvailableBonuses(bonus civ.BonusType) (n int) {
	v.read(func(p *playerState) { n = p.bonuses[bonus] })
	return n
}

func (v playerView) TradeGold() (gold int) {
	v.read(func(p *playerState) { gold = p.tradeGold })
	return gold
}

func (v playerView) GoldPerTurnByPlayer(other civ.PlayerID) (gold int) {
	v.read(func(p *playerState) { gold = p.goldPerTurnBy[other] })
	return gold
}

// ImprovementCount counts the plots the player owns with the improvement.
func (v playerView) ImprovementCount(improvement civ.ImprovementType) int {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	n := 0
	for _, p := range v.w.plots {
		if p.owner == v.id && p.improvement == improvement {
			n++
		}
	}
	return n
}

type teamView struct {
	w  *World
	id civ.TeamID
}

func (v teamView) read(fn func(t *teamState)) {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if t, ok := v.w.teams[v.id]; ok {
		fn(t)
	}
}

func (v teamView) ID() civ.TeamID { return v.id }

func (v teamView) ProjectCount(project civ.ProjectType) (n int) {
	v.read(func(t *teamState) { n = t.projects[project] })
	return n
}

func (v teamView) IsVassalOf(master civ.TeamID) (vassal bool) {
	v.read(func(t *teamState) { vassal = t.masters[master] })
	return vassal
}

func (v teamView) HasTech(tech civ.TechType) (has bool) {
	v.read(func(t *teamState) { has = t.techs[tech] })
	return has
}

func (v teamView) HasOpenBorders(other civ.TeamID) (open bool) {
	v.read(func(t *teamState) { open = t.borders[other] })
	return open
}

type cityView struct {
	w  *World
	id int
}

func (v cityView) read(fn func(c *cityState)) {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if c := v.w.cityByID(v.id); c != nil {
		fn(c)
	}
}

func (v cityView) ID() int { return v.id }

func (v cityView) Owner() civ.PlayerID {
	owner := civ.NoPlayer
	v.read(func(c *cityState) { owner = c.owner })
	return owner
}

func (v cityView) OriginalOwner() civ.PlayerID {
	owner := civ.NoPlayer
	v.read(func(c *cityState) { owner = c.originalOwner })
	return owner
}

func (v cityView) Location() (at civ.Point) {
	v.read(func(c *cityState) { at = c.location })
	return at
}

func (v cityView) HasBuilding(building civ.BuildingType) (has bool) {
	v.read(func(c *cityState) { has = c.buildings[building] })
	return has
}

func (v cityView) Culture() (culture int) {
	v.read(func(c *cityState) { culture = c.culture })
	return culture
}

func (v cityView) Population() (population int) {
	v.read(func(c *cityState) { population = c.population })
	return population
}

func (v cityView) HasCorporation(corporation civ.CorporationType) (has bool) {
	v.read(func(c *cityState) { has = c.corporations[corporation] })
	return has
}

func (v cityView) FreeSpecialists(specialist civ.SpecialistType) (n int) {
	v.read(func(c *cityState) { n = c.specialists[specialist] })
	return n
}

type plotView struct {
	w  *World
	at civ.Point
}

func (v plotView) Location() civ.Point { return v.at }

func (v plotView) Route() civ.RouteType {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if p, ok := v.w.plots[v.at]; ok {
		return p.route
	}
	return civ.NoRoute
}

func (v plotView) Bonus() civ.BonusType {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if p, ok := v.w.plots[v.at]; ok {
		return p.bonus
	}
	return civ.NoBonus
}

func (v plotView) Owner() civ.PlayerID {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if p, ok := v.w.plots[v.at]; ok {
		return p.owner
	}
	return civ.NoPlayer
}

func (v plotView) Improvement() civ.ImprovementType {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if p, ok := v.w.plots[v.at]; ok {
		return p.improvement
	}
	return civ.NoImprovement
}

type unitView struct {
	w  *World
	id int
}

func (v unitView) ID() int { return v.id }

func (v unitView) Owner() civ.PlayerID {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if u, ok := v.w.units[v.id]; ok {
		return u.owner
	}
	return civ.NoPlayer
}

func (v unitView) Type() civ.UnitType {
	v.w.mu.RLock()
	defer v.w.mu.RUnlock()
	if u, ok := v.w.units[v.id]; ok {
		return u.kind
	}
	return 0
}
