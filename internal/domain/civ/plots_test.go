package civ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"victorygoals/internal/adapter/world/memory"
	"victorygoals/internal/domain/civ"
)

func TestRectangleIsInclusive(t *testing.T) {
	p := civ.Rectangle("box", civ.At(3, 3), civ.At(1, 2))
	assert.Equal(t, 6, p.Len())
	assert.True(t, p.Contains(civ.At(1, 2)))
	assert.True(t, p.Contains(civ.At(3, 3)))
	assert.False(t, p.Contains(civ.At(0, 2)))
	assert.Equal(t, "box", p.String())
}

func TestPlotsWithWithout(t *testing.T) {
	p := civ.NewPlots("", civ.At(1, 1), civ.At(1, 1), civ.At(2, 2))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "2 plots", p.Name())

	grown := p.With(civ.At(3, 3), civ.At(2, 2))
	assert.Equal(t, 3, grown.Len())
	assert.Equal(t, 2, p.Len(), "With copies")

	shrunk := grown.Without(civ.At(1, 1))
	assert.Equal(t, []civ.Point{civ.At(2, 2), civ.At(3, 3)}, shrunk.Points())
	assert.Equal(t, "east", shrunk.Named("east").Name())
}

func TestPlotsCities(t *testing.T) {
	w := memory.NewWorld()
	w.AddPlayer(0, 0, true)
	w.AddPlayer(1, 1, true)
	_, err := w.FoundCity(0, civ.At(1, 1))
	require.NoError(t, err)
	_, err = w.FoundCity(1, civ.At(2, 1))
	require.NoError(t, err)
	_, err = w.FoundCity(0, civ.At(9, 9))
	require.NoError(t, err)

	p := civ.Rectangle("", civ.At(0, 0), civ.At(3, 3))
	assert.Len(t, p.Cities(w), 2)

	owned := p.Owned(w, 0)
	require.Len(t, owned, 1)
	assert.Equal(t, civ.At(1, 1), owned[0].Location())
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "(4, -2)", civ.At(4, -2).String())
}
