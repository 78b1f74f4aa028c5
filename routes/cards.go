package routes

import (
	"cardbinder-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupCardRoutes настраивает маршруты для работы с инвентарем карт
func SetupCardRoutes(app *fiber.App, cardController *controllers.CardController) {
	cards := app.Group("/cards")

	cards.Post("/", cardController.CreateCard)      // POST /cards - добавить карту
	cards.Get("/", cardController.GetCards)         // GET /cards?q= - снапшот инвентаря с фильтром
	cards.Get("/:id", cardController.GetCard)       // GET /cards/:id - получить карту по ID
	cards.Put("/:id", cardController.UpdateCard)    // PUT /cards/:id - обновить поля карты
	cards.Delete("/:id", cardController.DeleteCard) // DELETE /cards/:id - удалить карту
}
