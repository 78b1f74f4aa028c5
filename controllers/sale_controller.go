package controllers

import (
	"strconv"
	"strings"
	"time"

	"cardbinder-backend/models"
	"cardbinder-backend/services"
	"cardbinder-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SaleController контроллер для работы с продажами
type SaleController struct {
	DB        *gorm.DB
	Hub       *services.Hub
	ReadModel *services.ReadModel[models.Sale]
}

// NewSaleController создает новый экземпляр SaleController
func NewSaleController(db *gorm.DB, hub *services.Hub, rm *services.ReadModel[models.Sale]) *SaleController {
	return &SaleController{DB: db, Hub: hub, ReadModel: rm}
}

// CreateSaleRequest структура запроса регистрации продажи
type CreateSaleRequest struct {
	InventoryID      *uint         `json:"inventory_id"`
	CardNameSnapshot string        `json:"card_name_snapshot"`
	Quantity         *utils.Amount `json:"quantity"`
	Platform         string        `json:"platform"`
	SoldPriceEur     utils.Amount  `json:"sold_price_eur"`
	ShippingEur      utils.Amount  `json:"shipping_eur"`
	FeesEur          utils.Amount  `json:"fees_eur"`
	Notes            string        `json:"notes"`
	SoldAt           *time.Time    `json:"sold_at"`
}

// SaleResponse структура ответа с продажей
type SaleResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *models.Sale `json:"data,omitempty"`
}

// SaleListResponse структура ответа со списком продаж
type SaleListResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    []models.Sale `json:"data"`
	Total   int           `json:"total"`
}

// CreateSale регистрирует продажу. Вставка записи и списание количества
// с карты инвентаря выполняются в одной транзакции, поэтому история продаж
// и инвентарь не могут разойтись.
func (sc *SaleController) CreateSale(c *fiber.Ctx) error {
	var req CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(SaleResponse{
			Success: false,
			Message: "Неверный формат данных: " + err.Error(),
		})
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = req.Quantity.Int()
	}
	if quantity < 1 {
		return c.Status(400).JSON(SaleResponse{
			Success: false,
			Message: "Количество должно быть не меньше 1",
		})
	}

	if req.SoldPriceEur < 0 || req.ShippingEur < 0 || req.FeesEur < 0 {
		return c.Status(400).JSON(SaleResponse{
			Success: false,
			Message: "Суммы не могут быть отрицательными",
		})
	}

	// Если выбрана карта из инвентаря, ее имя становится снапшотом
	var card *models.InventoryCard
	if req.InventoryID != nil {
		var found models.InventoryCard
		if err := sc.DB.First(&found, *req.InventoryID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(404).JSON(SaleResponse{
					Success: false,
					Message: "Карта не найдена",
				})
			}
			return c.Status(500).JSON(SaleResponse{
				Success: false,
				Message: "Ошибка при получении карты",
			})
		}
		card = &found
	}

	cardName := strings.TrimSpace(req.CardNameSnapshot)
	if card != nil {
		cardName = card.Name
	}
	if cardName == "" {
		return c.Status(400).JSON(SaleResponse{
			Success: false,
			Message: "Укажите карту из инвентаря или название карты",
		})
	}

	sale := models.Sale{
		InventoryID:      req.InventoryID,
		CardNameSnapshot: cardName,
		Quantity:         quantity,
		Platform:         strings.TrimSpace(req.Platform),
		SoldPriceEur:     req.SoldPriceEur.Float64(),
		ShippingEur:      req.ShippingEur.Float64(),
		FeesEur:          req.FeesEur.Float64(),
		Notes:            strings.TrimSpace(req.Notes),
	}
	if req.SoldAt != nil {
		sale.SoldAt = *req.SoldAt
	}

	// Начинаем транзакцию
	tx := sc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(SaleResponse{
			Success: false,
			Message: "Ошибка при регистрации продажи",
		})
	}

	// Списываем проданное количество, не опускаясь ниже нуля
	if card != nil {
		newQuantity := card.Quantity - quantity
		if newQuantity < 0 {
			newQuantity = 0
		}
		card.Quantity = newQuantity
		if err := tx.Save(card).Error; err != nil {
			tx.Rollback()
			return c.Status(500).JSON(SaleResponse{
				Success: false,
				Message: "Ошибка при списании количества с инвентаря",
			})
		}
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(SaleResponse{
			Success: false,
			Message: "Ошибка при регистрации продажи",
		})
	}

	sc.Hub.NotifyTableChanged(models.TableSales)
	if card != nil {
		sc.Hub.NotifyTableChanged(models.TableCards)
	}

	return c.Status(201).JSON(SaleResponse{
		Success: true,
		Message: "Продажа зарегистрирована",
		Data:    &sale,
	})
}

// GetSales возвращает снапшот истории продаж (новые сверху)
func (sc *SaleController) GetSales(c *fiber.Ctx) error {
	if !sc.ReadModel.Loaded() {
		if err := sc.ReadModel.Refresh(); err != nil {
			return c.Status(500).JSON(SaleListResponse{
				Success: false,
				Message: "Ошибка при загрузке истории продаж",
			})
		}
	}

	sales := sc.ReadModel.Snapshot()

	return c.JSON(SaleListResponse{
		Success: true,
		Message: "История продаж получена",
		Data:    sales,
		Total:   len(sales),
	})
}

// DeleteSale удаляет запись о продаже. Количество на карте инвентаря
// при этом не восстанавливается.
func (sc *SaleController) DeleteSale(c *fiber.Ctx) error {
	saleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(SaleResponse{
			Success: false,
			Message: "Неверный ID продажи",
		})
	}

	var sale models.Sale
	if err := sc.DB.First(&sale, uint(saleID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(SaleResponse{
				Success: false,
				Message: "Продажа не найдена",
			})
		}
		return c.Status(500).JSON(SaleResponse{
			Success: false,
			Message: "Ошибка при получении продажи",
		})
	}

	if err := sc.DB.Delete(&sale).Error; err != nil {
		return c.Status(500).JSON(SaleResponse{
			Success: false,
			Message: "Ошибка при удалении продажи",
		})
	}

	sc.Hub.NotifyTableChanged(models.TableSales)

	return c.JSON(SaleResponse{
		Success: true,
		Message: "Продажа удалена",
	})
}
