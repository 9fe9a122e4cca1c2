package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor resolves text inputs from a fixture map and can be forced to
// fail for specific items.
type fakeExtractor struct {
	profiles map[string]models.NutrientProfile
	fail     map[string]bool
}

func (f fakeExtractor) Extract(_ context.Context, input models.ExtractionInput) (models.NutrientProfile, error) {
	if input.Manual != nil {
		return *input.Manual, nil
	}
	if f.fail[input.Text] {
		return models.NutrientProfile{}, errors.New("extractor unavailable")
	}
	p, ok := f.profiles[input.Text]
	if !ok {
		return models.NutrientProfile{}, fmt.Errorf("no fixture for %q", input.Text)
	}
	return p, nil
}

type fakeInsight struct {
	text string
	err  error
}

func (f fakeInsight) CompareInsight(context.Context, []*models.FoodHealthProfile, models.WellnessFocus) (string, error) {
	return f.text, f.err
}

func textInput(s string) models.ExtractionInput { return models.ExtractionInput{Text: s} }

func newTestSession(t *testing.T, extractor Extractor, insights InsightProvider) *ComparisonSession {
	t.Helper()
	s, err := NewComparisonSession(
		extractor, NewGradingService(nil), insights, nil,
		models.FocusBalanced, ComputeTargets(models.PersonUserContext{}),
	)
	require.NoError(t, err)
	return s
}

func fixtures() fakeExtractor {
	return fakeExtractor{
		profiles: map[string]models.NutrientProfile{
			"chicken": chickenProfile(),
			"soda":    sodaProfile(),
			"oatmeal": {
				Name: "Oatmeal",
				Nutrients: map[models.NutrientID]float64{
					models.Calories: 150,
					models.Protein:  5,
					models.Carbs:    27,
					models.Fat:      3,
					models.Fiber:    4,
					models.Sugar:    1,
					models.Sodium:   0,
				},
			},
		},
		fail: map[string]bool{},
	}
}

func TestSessionStartsWithTwoEmptySlots(t *testing.T) {
	s := newTestSession(t, fixtures(), nil)
	slots := s.Slots()
	require.Len(t, slots, MinSlots)
	for _, sl := range slots {
		assert.Equal(t, models.SlotEmpty, sl.State)
	}
}

func TestSlotLimits(t *testing.T) {
	s := newTestSession(t, fixtures(), nil)

	for i := MinSlots; i < MaxSlots; i++ {
		_, err := s.AddSlot()
		require.NoError(t, err)
	}
	_, err := s.AddSlot()
	assert.ErrorIs(t, err, ErrSlotLimit, "a 6th slot must be rejected")

	// Removing below the minimum re-pads with empty slots.
	for i := 0; i < MaxSlots-1; i++ {
		require.NoError(t, s.RemoveSlot(0))
	}
	slots := s.Slots()
	require.Len(t, slots, MinSlots)
	for i, sl := range slots {
		assert.Equal(t, i, sl.Index)
	}
}

func TestSetSlotInputTransitions(t *testing.T) {
	s := newTestSession(t, fixtures(), nil)

	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	assert.Equal(t, models.SlotPending, s.Slots()[0].State)

	assert.ErrorIs(t, s.SetSlotInput(5, textInput("soda")), ErrSlotIndex)
	assert.Error(t, s.SetSlotInput(1, models.ExtractionInput{}), "empty input is rejected")

	// A settled slot requires a reset before accepting a new input.
	require.NoError(t, s.SetSlotInput(1, textInput("soda")))
	require.NoError(t, s.AnalyzeAll(context.Background()))
	assert.ErrorIs(t, s.SetSlotInput(0, textInput("oatmeal")), ErrSlotOccupied)
	require.NoError(t, s.ResetSlot(0))
	require.NoError(t, s.SetSlotInput(0, textInput("oatmeal")))
}

func TestAnalyzeAllGradesAllPendingSlots(t *testing.T) {
	s := newTestSession(t, fixtures(), nil)
	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(1, textInput("soda")))

	require.NoError(t, s.AnalyzeAll(context.Background()))

	slots := s.Slots()
	require.Equal(t, models.SlotReady, slots[0].State)
	require.Equal(t, models.SlotReady, slots[1].State)
	assert.Equal(t, models.GradeF, slots[1].Profile.OverallGrade)
}

func TestAnalyzeAllWithNothingPending(t *testing.T) {
	s := newTestSession(t, fixtures(), nil)
	assert.ErrorIs(t, s.AnalyzeAll(context.Background()), ErrNothingToRun)
}

func TestSlotFailureIsIsolated(t *testing.T) {
	ext := fixtures()
	ext.fail["soda"] = true

	s := newTestSession(t, ext, nil)
	_, err := s.AddSlot()
	require.NoError(t, err)
	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(1, textInput("soda")))
	require.NoError(t, s.SetSlotInput(2, textInput("oatmeal")))

	require.NoError(t, s.AnalyzeAll(context.Background()))

	slots := s.Slots()
	assert.Equal(t, models.SlotReady, slots[0].State)
	assert.Equal(t, models.SlotError, slots[1].State)
	assert.Contains(t, slots[1].Error, "extraction failed")
	assert.Equal(t, models.SlotReady, slots[2].State)

	// The comparison still forms from the surviving slots.
	res := s.Result()
	require.NotNil(t, res)
	assert.Len(t, res.Ranking, 2)
}

func TestResultNilBelowTwoReady(t *testing.T) {
	ext := fixtures()
	ext.fail["soda"] = true

	s := newTestSession(t, ext, nil)
	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(1, textInput("soda")))
	require.NoError(t, s.AnalyzeAll(context.Background()))

	assert.Nil(t, s.Result(), "one ready slot is not a comparison")
}

func TestRankingOrder(t *testing.T) {
	s := newTestSession(t, fixtures(), nil)
	_, err := s.AddSlot()
	require.NoError(t, err)
	require.NoError(t, s.SetSlotInput(0, textInput("soda")))
	require.NoError(t, s.SetSlotInput(1, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(2, textInput("oatmeal")))
	require.NoError(t, s.AnalyzeAll(context.Background()))

	res := s.Result()
	require.NotNil(t, res)
	require.Len(t, res.Ranking, 3)

	// Total order by score descending; ranks are 1-based.
	for i := 0; i < len(res.Ranking)-1; i++ {
		assert.GreaterOrEqual(t,
			res.Ranking[i].Profile.OverallScore,
			res.Ranking[i+1].Profile.OverallScore)
		assert.Equal(t, i+1, res.Ranking[i].Rank)
	}
	assert.Equal(t, 0, res.Ranking[len(res.Ranking)-1].SlotIndex, "soda ranks last")
}

func TestCategoryComparisons(t *testing.T) {
	s := newTestSession(t, fixtures(), nil)
	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(1, textInput("soda")))
	require.NoError(t, s.AnalyzeAll(context.Background()))

	res := s.Result()
	require.NotNil(t, res)

	byNutrient := map[models.NutrientID]models.CategoryComparison{}
	for _, cat := range res.Categories {
		byNutrient[cat.Nutrient] = cat
	}
	assert.Equal(t, 1, byNutrient[models.Calories].BestIndex, "fewest calories wins")
	assert.Equal(t, 0, byNutrient[models.Protein].BestIndex, "most protein wins")
	assert.Equal(t, 0, byNutrient[models.Sugar].BestIndex, "least sugar wins")
}

func TestInsightIsBestEffort(t *testing.T) {
	// A failing insight provider leaves the field absent, never an error.
	s := newTestSession(t, fixtures(), fakeInsight{err: errors.New("insight service down")})
	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(1, textInput("oatmeal")))
	require.NoError(t, s.AnalyzeAll(context.Background()))

	res := s.Result()
	require.NotNil(t, res)
	assert.Empty(t, res.Insight)

	// A working provider attaches the narrative.
	s = newTestSession(t, fixtures(), fakeInsight{text: "Chicken leads on protein."})
	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(1, textInput("oatmeal")))
	require.NoError(t, s.AnalyzeAll(context.Background()))

	res = s.Result()
	require.NotNil(t, res)
	assert.Equal(t, "Chicken leads on protein.", res.Insight)
}

func TestResetAllRestoresBaseline(t *testing.T) {
	s := newTestSession(t, fixtures(), fakeInsight{text: "narrative"})
	_, err := s.AddSlot()
	require.NoError(t, err)
	require.NoError(t, s.SetSlotInput(0, textInput("chicken")))
	require.NoError(t, s.SetSlotInput(1, textInput("soda")))
	require.NoError(t, s.AnalyzeAll(context.Background()))

	require.NoError(t, s.ResetAll())
	slots := s.Slots()
	require.Len(t, slots, MinSlots)
	for _, sl := range slots {
		assert.Equal(t, models.SlotEmpty, sl.State)
	}
	assert.Nil(t, s.Result())
}

func TestManualInputSkipsExtraction(t *testing.T) {
	// A session whose extractor always fails still analyzes manual entries.
	ext := fakeExtractor{fail: map[string]bool{}, profiles: map[string]models.NutrientProfile{}}
	s := newTestSession(t, ext, nil)

	chicken := chickenProfile()
	soda := sodaProfile()
	require.NoError(t, s.SetSlotInput(0, models.ExtractionInput{Manual: &chicken}))
	require.NoError(t, s.SetSlotInput(1, models.ExtractionInput{Manual: &soda}))
	require.NoError(t, s.AnalyzeAll(context.Background()))

	res := s.Result()
	require.NotNil(t, res)
	assert.Equal(t, "Grilled chicken breast", res.Ranking[0].Profile.Food.Name)
}
