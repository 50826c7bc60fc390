package victory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"victorygoals/internal/domain/civ"
	"victorygoals/internal/domain/victory"
)

func processor(t *testing.T, types ...*victory.ArgType) *victory.ArgumentProcessor {
	t.Helper()
	p, err := victory.NewArgumentProcessor(types, nil, 0)
	require.NoError(t, err)
	return p
}

func cityProcessor(t *testing.T, types ...*victory.ArgType) *victory.ArgumentProcessor {
	t.Helper()
	p, err := victory.NewArgumentProcessor(types, victory.City, 0)
	require.NoError(t, err)
	return p
}

// deferredCity is never resolved by argument processing, so it needs no world.
func deferredCity(x, y int) *victory.Deferred[civ.City] {
	return victory.Locate(nil).CityAt(x, y)
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, victory.ErrValidation)
	var verr *victory.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Expected)
}

func TestProcessReturnsNoSubject(t *testing.T) {
	result, err := processor(t, victory.Int).Process(victory.Tuple{0})
	require.NoError(t, err)
	assert.False(t, result.HasSubject())
	assert.Nil(t, result.Subject())
}

func TestProcessSingleType(t *testing.T) {
	result, err := processor(t, victory.Int).Process(victory.Tuple{0})
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{0}}, result.Tuples())
}

func TestProcessMultipleSingleTypes(t *testing.T) {
	result, err := processor(t, victory.Int).Process(victory.Tuple{0}, victory.Tuple{1}, victory.Tuple{2})
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{0}, {1}, {2}}, result.Tuples())
}

func TestProcessMultipleSingleTypesFlat(t *testing.T) {
	result, err := processor(t, victory.Int).Process(0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{0}, {1}, {2}}, result.Tuples())
}

func TestProcessInvalidType(t *testing.T) {
	_, err := processor(t, victory.String).Process(0)
	requireValidation(t, err)
}

func TestProcessInvalidTypeAfterValid(t *testing.T) {
	_, err := processor(t, victory.String).Process("0", "1", 2)
	requireValidation(t, err)
}

func TestProcessTupleTooLong(t *testing.T) {
	_, err := processor(t, victory.Int).Process(victory.Tuple{0, 1}, victory.Tuple{2, 3})
	requireValidation(t, err)
}

func TestProcessEmptyInputWithoutDefault(t *testing.T) {
	_, err := processor(t, victory.String).Process()
	requireValidation(t, err)
}

func TestProcessDoubleType(t *testing.T) {
	result, err := processor(t, victory.Int, victory.String).Process(victory.Tuple{1, "1"}, victory.Tuple{2, "2"})
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{1, "1"}, {2, "2"}}, result.Tuples())
}

func TestProcessTupleTooShortWithoutDefault(t *testing.T) {
	_, err := processor(t, victory.Int, victory.String).Process(victory.Tuple{0}, victory.Tuple{1})
	requireValidation(t, err)
}

func TestProcessFlatTooShort(t *testing.T) {
	_, err := processor(t, victory.String, victory.String).Process("0")
	requireValidation(t, err)
}

func TestProcessFlatTooLong(t *testing.T) {
	_, err := processor(t, victory.String, victory.String).Process("0", "1", "2")
	requireValidation(t, err)
}

func TestProcessDefaultInt(t *testing.T) {
	result, err := processor(t, victory.Int).Process()
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{1}}, result.Tuples())
}

func TestProcessDefaultIntInMultiple(t *testing.T) {
	result, err := processor(t, victory.Int, victory.Int).Process(victory.Tuple{1}, victory.Tuple{2}, victory.Tuple{3})
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{1, 1}, {2, 1}, {3, 1}}, result.Tuples())
}

func TestProcessDefaultIntWhenLonger(t *testing.T) {
	_, err := processor(t, victory.Int, victory.Int).Process(victory.Tuple{1, 2, 3})
	requireValidation(t, err)
}

func TestProcessIntForInfoType(t *testing.T) {
	result, err := processor(t, victory.Building).Process(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{
		{civ.BuildingType(1)},
		{civ.BuildingType(2)},
		{civ.BuildingType(3)},
	}, result.Tuples())
}

func TestProcessAggregateForInfoType(t *testing.T) {
	agg := victory.Sum(granary, barracks)
	result, err := processor(t, victory.Building).Process(agg)
	require.NoError(t, err)

	objectives := result.Objectives()
	require.Len(t, objectives, 1)
	require.Equal(t, 1, objectives[0].Len())
	assert.Same(t, agg, objectives[0].At(0))
	assert.False(t, agg.Resolved())
}

func TestProcessAggregateForPlots(t *testing.T) {
	agg := victory.Sum(civ.NewPlots("a", civ.At(61, 31)))
	result, err := processor(t, victory.Plots).Process(agg)
	require.NoError(t, err)
	require.Len(t, result.Objectives(), 1)
	assert.IsType(t, &victory.Aggregate[civ.Plots]{}, result.Objectives()[0].At(0))
}

func TestProcessDefaultPlayers(t *testing.T) {
	result, err := processor(t, victory.Players).Process()
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{civ.MajorPlayers().Alive()}}, result.Tuples())
}

func TestProcessCitySubject(t *testing.T) {
	subject := deferredCity(100, 100)
	result, err := cityProcessor(t).Process(subject)
	require.NoError(t, err)
	assert.Same(t, subject, result.Subject())
	assert.Empty(t, result.Objectives())
}

func TestProcessCitySubjectMissing(t *testing.T) {
	_, err := cityProcessor(t).Process()
	requireValidation(t, err)
}

func TestProcessCitySubjectWithDifferentArgument(t *testing.T) {
	_, err := cityProcessor(t).Process(1)
	requireValidation(t, err)
}

func TestProcessCitySubjectFirst(t *testing.T) {
	result, err := cityProcessor(t, victory.String, victory.Int).Process(
		deferredCity(100, 100),
		victory.Tuple{"1", 1}, victory.Tuple{"2", 2}, victory.Tuple{"3", 3},
	)
	require.NoError(t, err)
	assert.True(t, result.HasSubject())
	require.Len(t, result.Objectives(), 3)
	for _, o := range result.Objectives() {
		assert.IsType(t, "", o.At(0))
		assert.IsType(t, 0, o.At(1))
	}
}

func TestProcessCitySubjectTwice(t *testing.T) {
	_, err := cityProcessor(t, victory.String, victory.Int).Process(
		deferredCity(100, 100), deferredCity(50, 50), victory.Tuple{"1", 1},
	)
	requireValidation(t, err)
}

func TestProcessCitySubjectNotLeading(t *testing.T) {
	_, err := cityProcessor(t, victory.String, victory.Int).Process(victory.Tuple{"1", 1}, deferredCity(1, 1))
	requireValidation(t, err)
}

func TestProcessObjectiveSplit(t *testing.T) {
	p, err := victory.NewArgumentProcessor([]*victory.ArgType{victory.Int, victory.Int, victory.Int}, nil, 1)
	require.NoError(t, err)

	result, err := p.Process(victory.Tuple{1, 2, 3}, victory.Tuple{4, 5, 6}, victory.Tuple{7, 8, 9})
	require.NoError(t, err)

	var heads, tails []victory.Tuple
	for _, o := range result.Objectives() {
		require.True(t, o.IsSplit())
		head, tail := o.Split()
		heads = append(heads, head)
		tails = append(tails, tail)
	}
	assert.Equal(t, []victory.Tuple{{1}, {4}, {7}}, heads)
	assert.Equal(t, []victory.Tuple{{2, 3}, {5, 6}, {8, 9}}, tails)
}

func TestProcessObjectiveSplitTwo(t *testing.T) {
	p, err := victory.NewArgumentProcessor([]*victory.ArgType{victory.Int, victory.Int, victory.Int}, nil, 2)
	require.NoError(t, err)

	result, err := p.Process(victory.Tuple{1, 2, 3})
	require.NoError(t, err)

	head, tail := result.Objectives()[0].Split()
	assert.Equal(t, victory.Tuple{1, 2}, head)
	assert.Equal(t, victory.Tuple{3}, tail)
}

func TestProcessPrefersOneWideTuple(t *testing.T) {
	result, err := processor(t, victory.String, victory.Int).Process("string", 10)
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{"string", 10}}, result.Tuples())
}

func TestProcessWideTuplePadsDefaults(t *testing.T) {
	result, err := processor(t, victory.Building, victory.Int).Process(granary)
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{granary, 1}}, result.Tuples())
}

func TestProcessList(t *testing.T) {
	list := []any{1, 2, 3}
	result, err := processor(t, victory.List).Process(list)
	require.NoError(t, err)
	assert.Equal(t, []victory.Tuple{{[]any{1, 2, 3}}}, result.Tuples())

	list[0] = 99
	assert.Equal(t, 1, result.Objectives()[0].At(0).([]any)[0])
}

func TestProcessorConfiguration(t *testing.T) {
	_, err := victory.NewArgumentProcessor(nil, nil, 0)
	assert.ErrorIs(t, err, victory.ErrConfiguration)

	_, err = victory.NewArgumentProcessor([]*victory.ArgType{victory.Int, nil}, nil, 0)
	assert.ErrorIs(t, err, victory.ErrConfiguration)

	for _, split := range []int{-1, 2, 3} {
		_, err = victory.NewArgumentProcessor([]*victory.ArgType{victory.Int, victory.Int}, nil, split)
		assert.ErrorIs(t, err, victory.ErrConfiguration, "split %d", split)
	}
}

func TestBuilderRequiresSetup(t *testing.T) {
	b := victory.NewArgumentProcessorBuilder()
	assert.False(t, b.Initialized())

	_, err := b.Build()
	assert.ErrorIs(t, err, victory.ErrConfiguration)
}

func TestBuilderWithObjectiveTypes(t *testing.T) {
	b := victory.NewArgumentProcessorBuilder().WithObjectiveTypes(victory.Int)
	assert.True(t, b.Initialized())

	p, err := b.WithObjectiveTypes(victory.Int).Build()
	require.NoError(t, err)
	assert.Equal(t, []*victory.ArgType{victory.Int, victory.Int}, p.ObjectiveTypes())
}

func TestBuilderWithSubjectType(t *testing.T) {
	p, err := victory.NewArgumentProcessorBuilder().WithSubjectType(victory.City).Build()
	require.NoError(t, err)
	assert.Same(t, victory.City, p.SubjectType())
}

func TestBuilderWithObjectiveSplit(t *testing.T) {
	p, err := victory.NewArgumentProcessorBuilder().
		WithObjectiveTypes(victory.Int, victory.Int).
		WithObjectiveSplit(1).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 1, p.ObjectiveSplit())
}

func TestProcessorExpected(t *testing.T) {
	assert.Equal(t, "City, (Building, Int)...", cityProcessor(t, victory.Building, victory.Int).Expected())
}
