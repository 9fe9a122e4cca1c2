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
)

// GraderClient talks to the remote AI grading service. It implements both
// RemoteGrader and InsightProvider; every failure is recoverable by the
// caller (algorithmic fallback or an absent insight).
type GraderClient struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewGraderClient() *GraderClient {
	return &GraderClient{
		client:  &http.Client{Timeout: 15 * time.Second}, // AI calls can be slow
		baseURL: strings.TrimRight(os.Getenv("NUTRITION_AI_URL"), "/"),
		token:   os.Getenv("NUTRITION_AI_TOKEN"),
	}
}

type remoteGradeRequest struct {
	Food      string                        `json:"food"`
	Nutrients map[models.NutrientID]float64 `json:"nutrients"`
	Targets   models.PersonalizedTargets    `json:"targets,omitempty"`
	Focuses   []models.WellnessFocus        `json:"focuses"`
}

// GradeRemote asks the AI service for an overall grade plus per-focus
// verdicts. The response letters are validated here so a malformed reply
// falls back cleanly instead of poisoning the profile.
func (c *GraderClient) GradeRemote(
	ctx context.Context,
	profile models.NutrientProfile,
	targets models.PersonalizedTargets,
) (*RemoteGradeResult, error) {
	body, err := c.post(ctx, "/v1/grade", remoteGradeRequest{
		Food:      profile.Name,
		Nutrients: profile.Nutrients,
		Targets:   targets,
		Focuses:   models.AllFocuses,
	})
	if err != nil {
		return nil, err
	}

	var res RemoteGradeResult
	if err := json.Unmarshal(body, &res); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return nil, fmt.Errorf("decode grade response: %v | body: %s", err, preview)
	}
	if !res.OverallGrade.Valid() {
		return nil, fmt.Errorf("remote grader returned invalid grade %q", res.OverallGrade)
	}
	return &res, nil
}

type insightRequest struct {
	Foods []insightFood        `json:"foods"`
	Focus models.WellnessFocus `json:"focus"`
}

type insightFood struct {
	Name      string                        `json:"name"`
	Grade     models.HealthGrade            `json:"grade"`
	Score     float64                       `json:"score"`
	Nutrients map[models.NutrientID]float64 `json:"nutrients"`
}

// CompareInsight asks for a cross-item narrative over graded foods. Strictly
// best-effort; callers swallow any error.
func (c *GraderClient) CompareInsight(
	ctx context.Context,
	profiles []*models.FoodHealthProfile,
	focus models.WellnessFocus,
) (string, error) {
	req := insightRequest{Focus: focus}
	for _, p := range profiles {
		req.Foods = append(req.Foods, insightFood{
			Name:      p.Food.Name,
			Grade:     p.OverallGrade,
			Score:     p.OverallScore,
			Nutrients: p.Food.Nutrients,
		})
	}

	body, err := c.post(ctx, "/v1/compare-insight", req)
	if err != nil {
		return "", err
	}

	var res struct {
		Insight string `json:"insight"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode insight response: %w", err)
	}
	if strings.TrimSpace(res.Insight) == "" {
		return "", fmt.Errorf("empty insight from grading service")
	}
	return res.Insight, nil
}

func (c *GraderClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.token == "" {
		return nil, fmt.Errorf("NUTRITION_AI_TOKEN not set")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("NUTRITION_AI_URL not set")
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grading service request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read grading service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		// Surface the exact error body; services often return {"error": "..."}.
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("grading service error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("grading service error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
