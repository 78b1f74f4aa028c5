package routes

import (
	"cardbinder-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupWatchRoutes настраивает маршруты для работы с watchlist
func SetupWatchRoutes(app *fiber.App, watchController *controllers.WatchController) {
	watchlist := app.Group("/watchlist")

	watchlist.Post("/", watchController.CreateWatchItem)         // POST /watchlist - добавить объявление
	watchlist.Get("/", watchController.GetWatchlist)             // GET /watchlist?q= - снапшот с фильтром
	watchlist.Put("/:id", watchController.UpdateWatchItem)       // PUT /watchlist/:id - обновить поля
	watchlist.Put("/:id/status", watchController.SetWatchStatus) // PUT /watchlist/:id/status - сменить статус
	watchlist.Delete("/:id", watchController.DeleteWatchItem)    // DELETE /watchlist/:id - удалить элемент
}
