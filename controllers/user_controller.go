package controllers

import (
	"net/http"
	"strconv"

	"backend/models"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// PUT /user/profile
func UpsertProfile(c *gin.Context) {
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	user, err := services.UpsertUserProfile(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /user/:id/profile
func GetProfile(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"age":  utils.CalculateAge(user.Birthday),
	})
}

// GET /user/:id/targets — the personalized target set plus the thin accessor
// views the dashboard renders.
func GetTargets(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	targets := services.ComputeTargets(services.BuildUserContext(user, nil))
	c.JSON(http.StatusOK, gin.H{
		"targets":        targets,
		"calorie_target": services.CalorieTarget(targets),
		"macros":         services.Macros(targets),
	})
}

func loadUser(c *gin.Context) (*models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return nil, false
	}
	u, err := services.GetUser(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return u, true
}
