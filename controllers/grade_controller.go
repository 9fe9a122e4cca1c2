package controllers

import (
	"net/http"

	"backend/models"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type gradeRequest struct {
	UserID uint                 `json:"user_id"` // 0 = population defaults
	Focus  models.WellnessFocus `json:"focus"`

	// Exactly one input kind.
	Manual      *models.NutrientProfile `json:"manual,omitempty"`
	Text        string                  `json:"text,omitempty"`
	PhotoBase64 string                  `json:"photo_base64,omitempty"`

	// Additional items summed into the main one before grading
	// (e.g. a plate photographed as separate foods).
	CombineWith []models.NutrientProfile `json:"combine_with,omitempty"`
}

// POST /food/grade
func GradeFood(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Focus == "" {
		req.Focus = models.FocusBalanced
	}
	if !models.ValidFocus(req.Focus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown wellness focus"})
		return
	}

	targets, ok := targetsFor(c, req.UserID)
	if !ok {
		return
	}

	profile, err := deps.Extractor.Extract(c.Request.Context(), models.ExtractionInput{
		Manual:      req.Manual,
		Text:        req.Text,
		PhotoBase64: req.PhotoBase64,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if len(req.CombineWith) > 0 {
		profile = profile.Combine(req.CombineWith...)
	}

	graded, err := deps.Grading.Grade(c.Request.Context(), profile, req.Focus, targets)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, graded)
}

type classifyRequest struct {
	UserID   uint              `json:"user_id"`
	Nutrient models.NutrientID `json:"nutrient" binding:"required"`
	Amount   float64           `json:"amount"`
}

// POST /food/classify — label one nutrient amount against the caller's
// personalized targets.
func ClassifyNutrient(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	targets, ok := targetsFor(c, req.UserID)
	if !ok {
		return
	}
	cls, err := utils.Classify(req.Amount, req.Nutrient, targets)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"classification": cls,
		"severity":       utils.SeverityRank(cls),
		"nature":         utils.GetNature(req.Nutrient),
	})
}

// GET /food/nutrients — the defined reference set, for pickers.
func ListNutrients(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, id := range utils.DefinedNutrients() {
		dri, _ := utils.GetDRI(id)
		out = append(out, gin.H{
			"id":     id,
			"nature": utils.GetNature(id),
			"rda":    dri.RDAorAI,
			"limit":  dri.UpperLimit,
			"unit":   dri.Unit,
		})
	}
	c.JSON(http.StatusOK, out)
}

// targetsFor resolves personalized targets, falling back to population
// defaults when no user is given.
func targetsFor(c *gin.Context, userID uint) (models.PersonalizedTargets, bool) {
	if userID == 0 {
		return services.ComputeTargets(models.PersonUserContext{}), true
	}
	user, err := services.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return services.ComputeTargets(services.BuildUserContext(user, nil)), true
}
