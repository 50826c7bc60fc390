package civ

// World is the read side of the host game. Goals only ever observe game state
// through it; the host owns every mutation.
type World interface {
	Turn() int
	Player(id PlayerID) (Player, bool)
	Team(id TeamID) (Team, bool)
	PlayerIDs() []PlayerID

	CityAt(p Point) (City, bool)
	Cities(owner PlayerID) []City
	AllCities() []City
	Capital(owner PlayerID) (City, bool)
	Plot(p Point) (Plot, bool)
	Unit(id int) (Unit, bool)
	Units(owner PlayerID) []Unit

	Catalog
}

// Catalog answers static rules questions about info types.
type Catalog interface {
	TechEra(tech TechType) EraType
	FirstDiscoverer(tech TechType) (TeamID, bool)
	UnitDomain(unit UnitType) Domain
	IsGreatGeneral(unit UnitType) bool
	// UnitClass maps a unique unit to the unit it replaces.
	UnitClass(unit UnitType) UnitType
	CultureThreshold(level CultureLevelType) int
}

type Player interface {
	ID() PlayerID
	TeamID() TeamID
	Alive() bool
	Major() bool
	Gold() int
	GoldenAgeTurns() int
	AnarchyTurns() int
	AvailableBonuses(bonus BonusType) int
	TradeGold() int
	GoldPerTurnByPlayer(other PlayerID) int
	ImprovementCount(improvement ImprovementType) int
}

type Team interface {
	ID() TeamID
	ProjectCount(project ProjectType) int
	IsVassalOf(master TeamID) bool
	HasTech(tech TechType) bool
	HasOpenBorders(other TeamID) bool
}

type City interface {
	ID() int
	Owner() PlayerID
	OriginalOwner() PlayerID
	Location() Point
	HasBuilding(building BuildingType) bool
	Culture() int
	Population() int
	HasCorporation(corporation CorporationType) bool
	FreeSpecialists(specialist SpecialistType) int
}

type Plot interface {
	Location() Point
	Route() RouteType
	Bonus() BonusType
	Owner() PlayerID
	Improvement() ImprovementType
}

type Unit interface {
	ID() int
	Owner() PlayerID
	Type() UnitType
}
