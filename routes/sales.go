package routes

import (
	"cardbinder-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupSaleRoutes настраивает маршруты для работы с продажами
func SetupSaleRoutes(app *fiber.App, saleController *controllers.SaleController) {
	sales := app.Group("/sales")

	sales.Post("/", saleController.CreateSale)      // POST /sales - зарегистрировать продажу
	sales.Get("/", saleController.GetSales)         // GET /sales - история продаж (новые сверху)
	sales.Delete("/:id", saleController.DeleteSale) // DELETE /sales/:id - удалить продажу
}
