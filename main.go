package main

import (
	"wellness-planner/core/logger"
	"wellness-planner/core/server"

	_ "wellness-planner/docs" // Swagger docs
)

// @title Wellness Planner API
// @version 1.0
// @description Personal calendar and wellness planner backend

// @contact.name API Support
// @contact.email support@wellnessplanner.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
