package routes

import (
	"cardbinder-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes настраивает маршруты дашборда
func SetupDashboardRoutes(app *fiber.App, dashboardController *controllers.DashboardController) {
	app.Get("/dashboard", dashboardController.GetDashboard) // GET /dashboard - агрегаты по трем снапшотам
}
