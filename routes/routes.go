package routes

import (
	"backend/controllers"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	user := r.Group("/user")
	{
		user.PUT("/profile", controllers.UpsertProfile)
		user.GET("/:id/profile", controllers.GetProfile)
		user.GET("/:id/targets", controllers.GetTargets)
	}

	food := r.Group("/food")
	{
		food.GET("/nutrients", controllers.ListNutrients)
		food.POST("/grade", controllers.GradeFood)
		food.POST("/classify", controllers.ClassifyNutrient)
	}

	compare := r.Group("/compare")
	{
		compare.POST("", controllers.CreateComparison)
		compare.GET("/:id", controllers.GetComparison)
		compare.DELETE("/:id", controllers.DeleteComparison)
		compare.POST("/:id/slots", controllers.AddComparisonSlot)
		compare.PUT("/:id/slots/:idx", controllers.SetComparisonSlot)
		compare.DELETE("/:id/slots/:idx", controllers.RemoveComparisonSlot)
		compare.POST("/:id/slots/:idx/reset", controllers.ResetComparisonSlot)
		compare.POST("/:id/reset", controllers.ResetComparison)
		compare.POST("/:id/analyze", controllers.AnalyzeComparison)
	}

	r.GET("/ws/compare/:id", controllers.ComparisonSocket)

	return r
}
