package controllers

import (
	"strconv"
	"strings"

	"cardbinder-backend/models"
	"cardbinder-backend/services"
	"cardbinder-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WatchController контроллер для работы с watchlist
type WatchController struct {
	DB        *gorm.DB
	Hub       *services.Hub
	ReadModel *services.ReadModel[models.WatchItem]
}

// NewWatchController создает новый экземпляр WatchController
func NewWatchController(db *gorm.DB, hub *services.Hub, rm *services.ReadModel[models.WatchItem]) *WatchController {
	return &WatchController{DB: db, Hub: hub, ReadModel: rm}
}

// CreateWatchItemRequest структура запроса добавления в watchlist
type CreateWatchItemRequest struct {
	Title          string        `json:"title"`
	Link           string        `json:"link"`
	Source         string        `json:"source"`
	SeenPriceEur   *utils.Amount `json:"seen_price_eur"`
	TargetPriceEur *utils.Amount `json:"target_price_eur"`
	Status         string        `json:"status"`
	Notes          string        `json:"notes"`
}

// UpdateWatchItemRequest структура запроса частичного обновления элемента
type UpdateWatchItemRequest struct {
	Title          *string       `json:"title"`
	Link           *string       `json:"link"`
	Source         *string       `json:"source"`
	SeenPriceEur   *utils.Amount `json:"seen_price_eur"`
	TargetPriceEur *utils.Amount `json:"target_price_eur"`
	Status         *string       `json:"status"`
	Notes          *string       `json:"notes"`
}

// SetWatchStatusRequest структура запроса смены статуса
type SetWatchStatusRequest struct {
	Status string `json:"status"`
}

// WatchItemResponse структура ответа с элементом watchlist
type WatchItemResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *models.WatchItem `json:"data,omitempty"`
}

// WatchListResponse структура ответа со списком элементов
type WatchListResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    []models.WatchItem `json:"data"`
	Total   int                `json:"total"`
}

// CreateWatchItem добавляет объявление в watchlist
func (wc *WatchController) CreateWatchItem(c *fiber.Ctx) error {
	var req CreateWatchItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Неверный формат данных: " + err.Error(),
		})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Заголовок обязателен",
		})
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.WatchStatusActive
	}
	if !models.IsValidWatchStatus(status) {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Недопустимый статус",
		})
	}

	item := models.WatchItem{
		Title:  title,
		Link:   strings.TrimSpace(req.Link),
		Source: strings.TrimSpace(req.Source),
		Status: status,
		Notes:  strings.TrimSpace(req.Notes),
	}

	if req.SeenPriceEur != nil {
		price := req.SeenPriceEur.Float64()
		item.SeenPriceEur = &price
	}
	if req.TargetPriceEur != nil {
		price := req.TargetPriceEur.Float64()
		item.TargetPriceEur = &price
	}

	if err := wc.DB.Create(&item).Error; err != nil {
		return c.Status(500).JSON(WatchItemResponse{
			Success: false,
			Message: "Ошибка при добавлении в watchlist",
		})
	}

	wc.Hub.NotifyTableChanged(models.TableWatchlist)

	return c.Status(201).JSON(WatchItemResponse{
		Success: true,
		Message: "Объявление добавлено в watchlist",
		Data:    &item,
	})
}

// GetWatchlist возвращает снапшот watchlist с необязательным фильтром
func (wc *WatchController) GetWatchlist(c *fiber.Ctx) error {
	if !wc.ReadModel.Loaded() {
		if err := wc.ReadModel.Refresh(); err != nil {
			return c.Status(500).JSON(WatchListResponse{
				Success: false,
				Message: "Ошибка при загрузке watchlist",
			})
		}
	}

	items := wc.ReadModel.Snapshot()

	// Фильтр по заголовку, источнику и статусу
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if query != "" {
		filtered := make([]models.WatchItem, 0, len(items))
		for _, item := range items {
			haystack := strings.ToLower(strings.Join([]string{
				item.Title, item.Source, item.Status,
			}, " "))
			if strings.Contains(haystack, query) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	return c.JSON(WatchListResponse{
		Success: true,
		Message: "Watchlist получен",
		Data:    items,
		Total:   len(items),
	})
}

// UpdateWatchItem частично обновляет поля элемента watchlist
func (wc *WatchController) UpdateWatchItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Неверный ID элемента",
		})
	}

	var item models.WatchItem
	if err := wc.DB.First(&item, uint(itemID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(WatchItemResponse{
				Success: false,
				Message: "Элемент не найден",
			})
		}
		return c.Status(500).JSON(WatchItemResponse{
			Success: false,
			Message: "Ошибка при получении элемента",
		})
	}

	var req UpdateWatchItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Неверный формат данных: " + err.Error(),
		})
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return c.Status(400).JSON(WatchItemResponse{
				Success: false,
				Message: "Заголовок обязателен",
			})
		}
		item.Title = title
	}
	if req.Link != nil {
		item.Link = strings.TrimSpace(*req.Link)
	}
	if req.Source != nil {
		item.Source = strings.TrimSpace(*req.Source)
	}
	if req.SeenPriceEur != nil {
		price := req.SeenPriceEur.Float64()
		item.SeenPriceEur = &price
	}
	if req.TargetPriceEur != nil {
		price := req.TargetPriceEur.Float64()
		item.TargetPriceEur = &price
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if !models.IsValidWatchStatus(status) {
			return c.Status(400).JSON(WatchItemResponse{
				Success: false,
				Message: "Недопустимый статус",
			})
		}
		item.Status = status
	}
	if req.Notes != nil {
		item.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := wc.DB.Save(&item).Error; err != nil {
		return c.Status(500).JSON(WatchItemResponse{
			Success: false,
			Message: "Ошибка при обновлении элемента",
		})
	}

	wc.Hub.NotifyTableChanged(models.TableWatchlist)

	return c.JSON(WatchItemResponse{
		Success: true,
		Message: "Элемент обновлен",
		Data:    &item,
	})
}

// SetWatchStatus меняет статус элемента. Любой статус может сменить любой
// другой, машины состояний нет. Повторная установка того же статуса
// не порождает лишнего уведомления.
func (wc *WatchController) SetWatchStatus(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Неверный ID элемента",
		})
	}

	var req SetWatchStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Неверный формат данных: " + err.Error(),
		})
	}

	status := strings.TrimSpace(req.Status)
	if !models.IsValidWatchStatus(status) {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Недопустимый статус",
		})
	}

	var item models.WatchItem
	if err := wc.DB.First(&item, uint(itemID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(WatchItemResponse{
				Success: false,
				Message: "Элемент не найден",
			})
		}
		return c.Status(500).JSON(WatchItemResponse{
			Success: false,
			Message: "Ошибка при получении элемента",
		})
	}

	if item.Status == status {
		return c.JSON(WatchItemResponse{
			Success: true,
			Message: "Статус не изменился",
			Data:    &item,
		})
	}

	item.Status = status
	if err := wc.DB.Save(&item).Error; err != nil {
		return c.Status(500).JSON(WatchItemResponse{
			Success: false,
			Message: "Ошибка при обновлении статуса",
		})
	}

	wc.Hub.NotifyTableChanged(models.TableWatchlist)

	return c.JSON(WatchItemResponse{
		Success: true,
		Message: "Статус обновлен",
		Data:    &item,
	})
}

// DeleteWatchItem удаляет элемент из watchlist
func (wc *WatchController) DeleteWatchItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(WatchItemResponse{
			Success: false,
			Message: "Неверный ID элемента",
		})
	}

	var item models.WatchItem
	if err := wc.DB.First(&item, uint(itemID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(WatchItemResponse{
				Success: false,
				Message: "Элемент не найден",
			})
		}
		return c.Status(500).JSON(WatchItemResponse{
			Success: false,
			Message: "Ошибка при получении элемента",
		})
	}

	if err := wc.DB.Delete(&item).Error; err != nil {
		return c.Status(500).JSON(WatchItemResponse{
			Success: false,
			Message: "Ошибка при удалении элемента",
		})
	}

	wc.Hub.NotifyTableChanged(models.TableWatchlist)

	return c.JSON(WatchItemResponse{
		Success: true,
		Message: "Элемент удален",
	})
}
