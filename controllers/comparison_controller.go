package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type createComparisonRequest struct {
	UserID uint                 `json:"user_id"`
	Focus  models.WellnessFocus `json:"focus"`
}

// POST /compare
func CreateComparison(c *gin.Context) {
	var req createComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Focus == "" {
		req.Focus = models.FocusBalanced
	}
	targets, ok := targetsFor(c, req.UserID)
	if !ok {
		return
	}
	session, err := services.NewComparisonSession(
		deps.Extractor, deps.Grading, deps.Insights, deps.Hub, req.Focus, targets,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	putSession(session)
	c.JSON(http.StatusCreated, gin.H{"session_id": session.ID(), "slots": session.Slots()})
}

// GET /compare/:id
func GetComparison(c *gin.Context) {
	session, ok := comparisonFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID(),
		"focus":      session.Focus(),
		"slots":      session.Slots(),
		"result":     session.Result(), // null until ≥2 slots are ready
	})
}

// DELETE /compare/:id
func DeleteComparison(c *gin.Context) {
	if _, ok := comparisonFor(c); !ok {
		return
	}
	dropSession(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// POST /compare/:id/slots
func AddComparisonSlot(c *gin.Context) {
	session, ok := comparisonFor(c)
	if !ok {
		return
	}
	idx, err := session.AddSlot()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": idx, "slots": session.Slots()})
}

// DELETE /compare/:id/slots/:idx
func RemoveComparisonSlot(c *gin.Context) {
	session, idx, ok := comparisonSlotFor(c)
	if !ok {
		return
	}
	if err := session.RemoveSlot(idx); err != nil {
		slotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": session.Slots()})
}

// PUT /compare/:id/slots/:idx
func SetComparisonSlot(c *gin.Context) {
	session, idx, ok := comparisonSlotFor(c)
	if !ok {
		return
	}
	var input models.ExtractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := session.SetSlotInput(idx, input); err != nil {
		slotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": session.Slots()})
}

// POST /compare/:id/slots/:idx/reset
func ResetComparisonSlot(c *gin.Context) {
	session, idx, ok := comparisonSlotFor(c)
	if !ok {
		return
	}
	if err := session.ResetSlot(idx); err != nil {
		slotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": session.Slots()})
}

// POST /compare/:id/reset
func ResetComparison(c *gin.Context) {
	session, ok := comparisonFor(c)
	if !ok {
		return
	}
	if err := session.ResetAll(); err != nil {
		slotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": session.Slots()})
}

// POST /compare/:id/analyze — runs every pending slot; slot failures land in
// the slot states, never here.
func AnalyzeComparison(c *gin.Context) {
	session, ok := comparisonFor(c)
	if !ok {
		return
	}
	if err := session.AnalyzeAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slots":  session.Slots(),
		"result": session.Result(),
	})
}

func comparisonFor(c *gin.Context) (*services.ComparisonSession, bool) {
	session, ok := getSession(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "comparison session not found"})
		return nil, false
	}
	return session, true
}

func comparisonSlotFor(c *gin.Context) (*services.ComparisonSession, int, bool) {
	session, ok := comparisonFor(c)
	if !ok {
		return nil, 0, false
	}
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot index"})
		return nil, 0, false
	}
	return session, idx, true
}

func slotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSlotIndex):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSlotBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
