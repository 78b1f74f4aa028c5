package controllers

import (
	"cardbinder-backend/models"
	"cardbinder-backend/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardController контроллер для агрегатов дашборда. Работает только
// поверх снапшотов read-моделей, прямых запросов к базе не делает.
type DashboardController struct {
	Cards *services.ReadModel[models.InventoryCard]
	Sales *services.ReadModel[models.Sale]
	Watch *services.ReadModel[models.WatchItem]
}

// NewDashboardController создает новый экземпляр DashboardController
func NewDashboardController(
	cards *services.ReadModel[models.InventoryCard],
	sales *services.ReadModel[models.Sale],
	watch *services.ReadModel[models.WatchItem],
) *DashboardController {
	return &DashboardController{Cards: cards, Sales: sales, Watch: watch}
}

// DashboardResponse структура ответа с агрегатами
type DashboardResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Stats   *services.DashboardStats `json:"stats,omitempty"`
}

// GetDashboard вычисляет агрегаты по текущим снапшотам трех read-моделей
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	if !dc.Cards.Loaded() {
		if err := dc.Cards.Refresh(); err != nil {
			return c.Status(500).JSON(DashboardResponse{
				Success: false,
				Message: "Ошибка при загрузке инвентаря",
			})
		}
	}
	if !dc.Sales.Loaded() {
		if err := dc.Sales.Refresh(); err != nil {
			return c.Status(500).JSON(DashboardResponse{
				Success: false,
				Message: "Ошибка при загрузке истории продаж",
			})
		}
	}
	if !dc.Watch.Loaded() {
		if err := dc.Watch.Refresh(); err != nil {
			return c.Status(500).JSON(DashboardResponse{
				Success: false,
				Message: "Ошибка при загрузке watchlist",
			})
		}
	}

	stats := services.ComputeDashboardStats(
		dc.Cards.Snapshot(),
		dc.Sales.Snapshot(),
		dc.Watch.Snapshot(),
	)

	return c.JSON(DashboardResponse{
		Success: true,
		Message: "Данные дашборда получены",
		Stats:   &stats,
	})
}
