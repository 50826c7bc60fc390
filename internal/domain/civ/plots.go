package civ

import (
	"fmt"
	"slices"
)

// Plots is an ordered, duplicate-free set of map locations. It is a value
// built by script code and resolved against a World on evaluation.
type Plots struct {
	name   string
	points []Point
}

func NewPlots(name string, points ...Point) Plots {
	p := Plots{name: name}
	return p.With(points...)
}

// Rectangle covers every point between two corners, inclusive.
func Rectangle(name string, from, to Point) Plots {
	minX, maxX := min(from.X, to.X), max(from.X, to.X)
	minY, maxY := min(from.Y, to.Y), max(from.Y, to.Y)
	points := make([]Point, 0, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			points = append(points, Point{X: x, Y: y})
		}
	}
	return Plots{name: name, points: points}
}

func (p Plots) Name() string {
	if p.name == "" {
		return fmt.Sprintf("%d plots", len(p.points))
	}
	return p.name
}

func (p Plots) Named(name string) Plots {
	p.name = name
	return p
}

func (p Plots) Points() []Point {
	return slices.Clone(p.points)
}

func (p Plots) Len() int {
	return len(p.points)
}

func (p Plots) Contains(pt Point) bool {
	return slices.Contains(p.points, pt)
}

func (p Plots) With(points ...Point) Plots {
	out := Plots{name: p.name, points: slices.Clone(p.points)}
	for _, pt := range points {
		if !out.Contains(pt) {
			out.points = append(out.points, pt)
		}
	}
	return out
}

func (p Plots) Without(points ...Point) Plots {
	out := Plots{name: p.name}
	for _, pt := range p.points {
		if !slices.Contains(points, pt) {
			out.points = append(out.points, pt)
		}
	}
	return out
}

// Cities returns the cities standing on the plots, in plot order.
func (p Plots) Cities(w World) []City {
	var cities []City
	for _, pt := range p.points {
		if c, ok := w.CityAt(pt); ok {
			cities = append(cities, c)
		}
	}
	return cities
}

// Owned returns the cities on the plots owned by the player.
func (p Plots) Owned(w World, owner PlayerID) []City {
	var cities []City
	for _, c := range p.Cities(w) {
		if c.Owner() == owner {
			cities = append(cities, c)
		}
	}
	return cities
}

func (p Plots) String() string {
	return p.Name()
}
