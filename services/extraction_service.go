package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"backend/models"
	"backend/utils"
)

// Extractor turns a photo, free text, or manual entry into a nutrient
// profile. Photo and text go to the remote extraction service; manual entries
// pass through untouched.
type Extractor interface {
	Extract(ctx context.Context, input models.ExtractionInput) (models.NutrientProfile, error)
}

type ExtractionClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewExtractionClient initializes the client with credentials from the
// environment, matching how the rest of the collaborators are configured.
func NewExtractionClient() *ExtractionClient {
	return &ExtractionClient{
		baseURL: strings.TrimRight(os.Getenv("FOOD_EXTRACTOR_URL"), "/"),
		apiKey:  os.Getenv("FOOD_EXTRACTOR_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// wireKeys maps the extraction service's USDA/Edamam-style nutrient codes to
// stable internal ids. Unknown codes are dropped; internal ids pass through.
var wireKeys = map[string]models.NutrientID{
	"ENERC_KCAL":  models.Calories,
	"PROCNT":      models.Protein,
	"CHOCDF":      models.Carbs,
	"FAT":         models.Fat,
	"FASAT":       models.SaturatedFat,
	"FATRN":       models.TransFat,
	"FIBTG":       models.Fiber,
	"SUGAR":       models.Sugar,
	"SUGAR.added": models.AddedSugar,
	"CHOLE":       models.Cholesterol,
	"NA":          models.Sodium,
	"K":           models.Potassium,
	"CA":          models.Calcium,
	"FE":          models.Iron,
	"MG":          models.Magnesium,
	"ZN":          models.Zinc,
	"VITA_RAE":    models.VitaminA,
	"VITC":        models.VitaminC,
	"VITD":        models.VitaminD,
	"TOCPHA":      models.VitaminE,
	"VITK1":       models.VitaminK,
	"VITB6A":      models.VitaminB6,
	"FOLDFE":      models.Folate,
	"VITB12":      models.B12,
	"FAPU":        models.Omega3,
	"CAFFN":       models.Caffeine,
	"WATER":       models.Water,
}

type extractionResponse struct {
	Name      string             `json:"name"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// Extract resolves the input into a complete nutrient profile. The remote
// service must report at least the four core macros; anything less is treated
// as a failed extraction.
func (c *ExtractionClient) Extract(ctx context.Context, input models.ExtractionInput) (models.NutrientProfile, error) {
	if input.Manual != nil {
		return *input.Manual, nil
	}
	if input.PhotoBase64 == "" && input.Text == "" {
		return models.NutrientProfile{}, fmt.Errorf("extraction input is empty")
	}
	if c.baseURL == "" {
		return models.NutrientProfile{}, fmt.Errorf("FOOD_EXTRACTOR_URL not set")
	}

	payload := map[string]string{}
	if input.PhotoBase64 != "" {
		payload["photo_base64"] = input.PhotoBase64
	} else {
		payload["text"] = input.Text
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return models.NutrientProfile{}, fmt.Errorf("marshal extraction payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/extract", bytes.NewReader(b))
	if err != nil {
		return models.NutrientProfile{}, fmt.Errorf("create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.NutrientProfile{}, fmt.Errorf("failed to call extraction service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NutrientProfile{}, fmt.Errorf("read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.NutrientProfile{}, fmt.Errorf("extraction API error %d: %s", resp.StatusCode, string(body))
	}

	var er extractionResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return models.NutrientProfile{}, fmt.Errorf("parse extraction JSON: %w", err)
	}

	profile := models.NutrientProfile{
		Name:      er.Name,
		Nutrients: make(map[models.NutrientID]float64, len(er.Nutrients)),
	}
	if profile.Name == "" {
		profile.Name = "Analyzed food"
	}
	for k, v := range er.Nutrients {
		if id, ok := wireKeys[k]; ok {
			profile.Nutrients[id] += v
			continue
		}
		// Tolerate responses already keyed by internal id; drop anything else.
		id := models.NutrientID(strings.ToLower(k))
		if _, ok := utils.GetDRI(id); ok {
			profile.Nutrients[id] += v
		}
	}

	for _, core := range []models.NutrientID{models.Calories, models.Protein, models.Carbs, models.Fat} {
		if _, ok := profile.Nutrients[core]; !ok {
			return models.NutrientProfile{}, fmt.Errorf("extraction response missing %s", core)
		}
	}
	return profile, nil
}
