package models

// SlotState is the lifecycle of one comparison slot.
type SlotState string

const (
	SlotEmpty     SlotState = "empty"
	SlotPending   SlotState = "pending"
	SlotAnalyzing SlotState = "analyzing"
	SlotReady     SlotState = "ready"
	SlotError     SlotState = "error"
)

// ComparisonSlot is one of the 2–5 inputs of a comparison session.
type ComparisonSlot struct {
	Index   int                `json:"index"`
	State   SlotState          `json:"state"`
	Input   *ExtractionInput   `json:"input,omitempty"`
	Profile *FoodHealthProfile `json:"profile,omitempty"` // set when ready
	Error   string             `json:"error,omitempty"`   // set when errored
}

// ExtractionInput is what a slot gets analyzed from. Exactly one of the fields
// is set; photo and text inputs go to the extraction collaborator, a manual
// profile skips extraction entirely.
type ExtractionInput struct {
	PhotoBase64 string           `json:"photo_base64,omitempty"`
	Text        string           `json:"text,omitempty"`
	Manual      *NutrientProfile `json:"manual,omitempty"`
}

// CategoryComparison marks which ready profile wins one nutrient category.
type CategoryComparison struct {
	Nutrient      NutrientID `json:"nutrient"`
	LowerIsBetter bool       `json:"lower_is_better"`
	BestIndex     int        `json:"best_index"` // slot index of the winner
	BestValue     float64    `json:"best_value"`
}

// RankedProfile pairs a graded profile with its slot and rank position.
type RankedProfile struct {
	SlotIndex int                `json:"slot_index"`
	Rank      int                `json:"rank"` // 1-based, 1 is best
	Profile   *FoodHealthProfile `json:"profile"`
}

// ComparisonResult is derived from the ready slots; it is recomputed whenever
// the ready set changes and never persisted here.
type ComparisonResult struct {
	Ranking    []RankedProfile      `json:"ranking"`
	Categories []CategoryComparison `json:"categories"`
	Insight    string               `json:"insight,omitempty"` // best-effort, may be absent
}
