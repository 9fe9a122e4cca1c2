package main

import (
	"backend/config"
	"backend/controllers"
	"backend/routes"
	"backend/services"
)

func main() {
	config.InitDB()

	grader := services.NewGraderClient()
	controllers.Init(controllers.Deps{
		Extractor: services.NewExtractionClient(),
		Grading:   services.NewGradingService(grader),
		Insights:  grader,
		Hub:       services.NewRealtimeHub(),
	})

	r := routes.SetupRouter()
	r.Run(":8080")
}
