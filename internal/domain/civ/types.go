package civ

import "fmt"

type PlayerID int

type TeamID int

const (
	NoPlayer PlayerID = -1
	NoTeam   TeamID   = -1
)

type (
	BuildingType     int
	UnitType         int
	TechType         int
	EraType          int
	ProjectType      int
	BonusType        int
	RouteType        int
	ImprovementType  int
	CorporationType  int
	SpecialistType   int
	CultureLevelType int
)

const (
	NoRoute       RouteType       = -1
	NoBonus       BonusType       = -1
	NoImprovement ImprovementType = -1
)

type Domain string

const (
	DomainLand Domain = "land"
	DomainSea  Domain = "sea"
	DomainAir  Domain = "air"
)

type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func At(x, y int) Point {
	return Point{X: x, Y: y}
}
