package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"backend/models"
)

const (
	MinSlots = 2
	MaxSlots = 5
)

var (
	ErrSlotLimit    = errors.New("comparison holds at most 5 slots")
	ErrSlotIndex    = errors.New("no such slot")
	ErrSlotBusy     = errors.New("slot is being analyzed")
	ErrSlotOccupied = errors.New("slot already has an input; reset it first")
	ErrNothingToRun = errors.New("no pending slots to analyze")
)

// InsightProvider supplies the optional cross-item narrative. Failures are
// swallowed; a comparison never depends on it.
type InsightProvider interface {
	CompareInsight(ctx context.Context, profiles []*models.FoodHealthProfile, focus models.WellnessFocus) (string, error)
}

// ComparisonSession drives one 2–5 slot food comparison. Callers serialize
// session mutation; AnalyzeAll fans the per-slot work out itself, and those
// analyses share no mutable state with each other.
type ComparisonSession struct {
	mu      sync.Mutex
	id      string
	focus   models.WellnessFocus
	targets models.PersonalizedTargets
	slots   []*models.ComparisonSlot
	insight string

	extractor Extractor
	grading   *GradingService
	insights  InsightProvider // may be nil
	hub       *RealtimeHub    // may be nil
}

func NewComparisonSession(
	extractor Extractor,
	grading *GradingService,
	insights InsightProvider,
	hub *RealtimeHub,
	focus models.WellnessFocus,
	targets models.PersonalizedTargets,
) (*ComparisonSession, error) {
	if !models.ValidFocus(focus) {
		return nil, fmt.Errorf("unknown wellness focus %q", focus)
	}
	s := &ComparisonSession{
		id:        uuid.NewString(),
		focus:     focus,
		targets:   targets,
		extractor: extractor,
		grading:   grading,
		insights:  insights,
		hub:       hub,
	}
	for i := 0; i < MinSlots; i++ {
		s.slots = append(s.slots, &models.ComparisonSlot{Index: i, State: models.SlotEmpty})
	}
	return s, nil
}

func (s *ComparisonSession) ID() string { return s.id }

func (s *ComparisonSession) Focus() models.WellnessFocus { return s.focus }

// Slots returns a snapshot copy safe to serialize while analyses run.
func (s *ComparisonSession) Slots() []models.ComparisonSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ComparisonSlot, len(s.slots))
	for i, sl := range s.slots {
		out[i] = *sl
	}
	return out
}

// AddSlot appends an empty slot, up to five.
func (s *ComparisonSession) AddSlot() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.slots) >= MaxSlots {
		return 0, ErrSlotLimit
	}
	idx := len(s.slots)
	s.slots = append(s.slots, &models.ComparisonSlot{Index: idx, State: models.SlotEmpty})
	return idx, nil
}

// RemoveSlot drops a slot and re-pads with empty ones so the session never
// falls below two.
func (s *ComparisonSession) RemoveSlot(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.slots) {
		return ErrSlotIndex
	}
	// Removing any slot renumbers its siblings, so refuse while anything is
	// mid-flight.
	for _, sl := range s.slots {
		if sl.State == models.SlotAnalyzing {
			return ErrSlotBusy
		}
	}
	s.slots = append(s.slots[:idx], s.slots[idx+1:]...)
	for len(s.slots) < MinSlots {
		s.slots = append(s.slots, &models.ComparisonSlot{State: models.SlotEmpty})
	}
	for i, sl := range s.slots {
		sl.Index = i
	}
	return nil
}

// SetSlotInput attaches an input, moving the slot to pending. Terminal slots
// must be reset first; an analyzing slot cannot be touched.
func (s *ComparisonSession) SetSlotInput(idx int, input models.ExtractionInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.slots) {
		return ErrSlotIndex
	}
	sl := s.slots[idx]
	switch sl.State {
	case models.SlotEmpty, models.SlotPending:
	case models.SlotAnalyzing:
		return ErrSlotBusy
	default:
		return ErrSlotOccupied
	}
	if input.Manual == nil && input.PhotoBase64 == "" && input.Text == "" {
		return fmt.Errorf("slot input is empty")
	}
	in := input
	sl.Input = &in
	sl.State = models.SlotPending
	sl.Profile = nil
	sl.Error = ""
	s.broadcast(sl)
	return nil
}

// ResetSlot returns a slot to empty from any state except mid-flight analysis.
func (s *ComparisonSession) ResetSlot(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.slots) {
		return ErrSlotIndex
	}
	sl := s.slots[idx]
	if sl.State == models.SlotAnalyzing {
		return ErrSlotBusy
	}
	*sl = models.ComparisonSlot{Index: idx, State: models.SlotEmpty}
	s.broadcast(sl)
	return nil
}

// ResetAll clears the session back to the two-slot baseline and discards any
// cached insight.
func (s *ComparisonSession) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.slots {
		if sl.State == models.SlotAnalyzing {
			return ErrSlotBusy
		}
	}
	s.slots = nil
	for i := 0; i < MinSlots; i++ {
		s.slots = append(s.slots, &models.ComparisonSlot{Index: i, State: models.SlotEmpty})
	}
	s.insight = ""
	return nil
}

// AnalyzeAll runs extraction and grading for every pending slot concurrently.
// Each slot settles on its own: one failed extraction moves only that slot to
// error, and a grading-service failure falls back to the algorithmic grade
// inside GradingService rather than failing the slot. Once everything has
// settled, the cross-item insight is fetched best-effort.
func (s *ComparisonSession) AnalyzeAll(ctx context.Context) error {
	s.mu.Lock()
	type job struct {
		idx   int
		input models.ExtractionInput
	}
	var jobs []job
	for _, sl := range s.slots {
		if sl.State == models.SlotPending && sl.Input != nil {
			sl.State = models.SlotAnalyzing
			jobs = append(jobs, job{idx: sl.Index, input: *sl.Input})
			s.broadcast(sl)
		}
	}
	s.mu.Unlock()

	if len(jobs) == 0 {
		return ErrNothingToRun
	}

	// Wait for every slot regardless of individual outcome — a failing slot
	// must not cancel its siblings.
	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			profile, err := s.analyzeOne(ctx, j.input)
			s.settle(j.idx, profile, err)
		}(j)
	}
	wg.Wait()

	s.fetchInsight(ctx)
	return nil
}

// analyzeOne is the per-slot pipeline: extract, then grade.
func (s *ComparisonSession) analyzeOne(ctx context.Context, input models.ExtractionInput) (*models.FoodHealthProfile, error) {
	profile, err := s.extractor.Extract(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	graded, err := s.grading.Grade(ctx, profile, s.focus, s.targets)
	if err != nil {
		return nil, fmt.Errorf("grading failed: %w", err)
	}
	return graded, nil
}

// settle applies a slot's outcome. Transitions only ever touch the slot they
// concern.
func (s *ComparisonSession) settle(idx int, profile *models.FoodHealthProfile, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.slots) {
		return // slot layout changed mid-flight; drop the result
	}
	sl := s.slots[idx]
	if sl.State != models.SlotAnalyzing {
		return
	}
	if err != nil {
		sl.State = models.SlotError
		sl.Error = err.Error()
	} else {
		sl.State = models.SlotReady
		sl.Profile = profile
		sl.Error = ""
	}
	s.broadcast(sl)
}

// fetchInsight requests the narrative once at least two slots are ready.
// Failure is swallowed: the insight simply stays absent.
func (s *ComparisonSession) fetchInsight(ctx context.Context) {
	if s.insights == nil {
		return
	}
	ready, _ := s.readyProfiles()
	if len(ready) < MinSlots {
		return
	}
	insight, err := s.insights.CompareInsight(ctx, ready, s.focus)
	if err != nil {
		log.Printf("comparison insight unavailable: %v", err)
		return
	}
	s.mu.Lock()
	s.insight = insight
	s.mu.Unlock()
}

func (s *ComparisonSession) readyProfiles() ([]*models.FoodHealthProfile, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var profiles []*models.FoodHealthProfile
	var indexes []int
	for _, sl := range s.slots {
		if sl.State == models.SlotReady && sl.Profile != nil {
			profiles = append(profiles, sl.Profile)
			indexes = append(indexes, sl.Index)
		}
	}
	return profiles, indexes
}

// categoryFlags is the fixed per-category direction, independent of the
// chosen focus.
var categoryFlags = []struct {
	nutrient      models.NutrientID
	lowerIsBetter bool
}{
	{models.Calories, true},
	{models.Protein, false},
	{models.Fiber, false},
	{models.Sugar, true},
	{models.Sodium, true},
	{models.SaturatedFat, true},
	{models.Fat, true},
}

// Result builds the ranked comparison from the ready slots, or nil when fewer
// than two are ready — never a partial result.
func (s *ComparisonSession) Result() *models.ComparisonResult {
	profiles, indexes := s.readyProfiles()
	if len(profiles) < MinSlots {
		return nil
	}

	ranking := make([]models.RankedProfile, len(profiles))
	for i := range profiles {
		ranking[i] = models.RankedProfile{SlotIndex: indexes[i], Profile: profiles[i]}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i].Profile, ranking[j].Profile
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if a.OverallGrade.Rank() != b.OverallGrade.Rank() {
			return a.OverallGrade.Rank() > b.OverallGrade.Rank()
		}
		return ranking[i].SlotIndex < ranking[j].SlotIndex
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	var categories []models.CategoryComparison
	for _, cat := range categoryFlags {
		best := 0
		bestVal := profiles[0].Food.Amount(cat.nutrient)
		for i := 1; i < len(profiles); i++ {
			v := profiles[i].Food.Amount(cat.nutrient)
			if (cat.lowerIsBetter && v < bestVal) || (!cat.lowerIsBetter && v > bestVal) {
				best, bestVal = i, v
			}
		}
		categories = append(categories, models.CategoryComparison{
			Nutrient:      cat.nutrient,
			LowerIsBetter: cat.lowerIsBetter,
			BestIndex:     indexes[best],
			BestValue:     bestVal,
		})
	}

	s.mu.Lock()
	insight := s.insight
	s.mu.Unlock()

	return &models.ComparisonResult{
		Ranking:    ranking,
		Categories: categories,
		Insight:    insight,
	}
}

// broadcast pushes a slot snapshot to session watchers. Callers hold s.mu.
func (s *ComparisonSession) broadcast(sl *models.ComparisonSlot) {
	if s.hub == nil {
		return
	}
	snapshot := *sl
	s.hub.BroadcastSlot(s.id, map[string]any{
		"kind": "slot.updated",
		"slot": snapshot,
	})
}
