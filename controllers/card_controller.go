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

// CardController контроллер для работы с инвентарем карт
type CardController struct {
	DB        *gorm.DB
	Hub       *services.Hub
	ReadModel *services.ReadModel[models.InventoryCard]
}

// NewCardController создает новый экземпляр CardController
func NewCardController(db *gorm.DB, hub *services.Hub, rm *services.ReadModel[models.InventoryCard]) *CardController {
	return &CardController{DB: db, Hub: hub, ReadModel: rm}
}

// CreateCardRequest структура запроса создания карты
type CreateCardRequest struct {
	Name            string        `json:"name"`
	SetName         string        `json:"set_name"`
	CardNumber      string        `json:"card_number"`
	Variant         string        `json:"variant"`
	Language        string        `json:"language"`
	Condition       string        `json:"condition"`
	Graded          bool          `json:"graded"`
	GradeCompany    string        `json:"grade_company"`
	GradeValue      string        `json:"grade_value"`
	Quantity        *utils.Amount `json:"quantity"`
	BuyPriceEur     *utils.Amount `json:"buy_price_eur"`
	BuyDate         *time.Time    `json:"buy_date"`
	CurrentValueEur *utils.Amount `json:"current_value_eur"`
	TargetValueEur  *utils.Amount `json:"target_value_eur"`
	Location        string        `json:"location"`
	Tags            string        `json:"tags"`
	Notes           string        `json:"notes"`
	ImageURL        string        `json:"image_url"`
}

// UpdateCardRequest структура запроса частичного обновления карты
type UpdateCardRequest struct {
	Name            *string       `json:"name"`
	SetName         *string       `json:"set_name"`
	CardNumber      *string       `json:"card_number"`
	Variant         *string       `json:"variant"`
	Language        *string       `json:"language"`
	Condition       *string       `json:"condition"`
	Graded          *bool         `json:"graded"`
	GradeCompany    *string       `json:"grade_company"`
	GradeValue      *string       `json:"grade_value"`
	Quantity        *utils.Amount `json:"quantity"`
	BuyPriceEur     *utils.Amount `json:"buy_price_eur"`
	BuyDate         *time.Time    `json:"buy_date"`
	CurrentValueEur *utils.Amount `json:"current_value_eur"`
	TargetValueEur  *utils.Amount `json:"target_value_eur"`
	Location        *string       `json:"location"`
	Tags            *string       `json:"tags"`
	Notes           *string       `json:"notes"`
	ImageURL        *string       `json:"image_url"`
}

// CardResponse структура ответа с картой
type CardResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *models.InventoryCard `json:"data,omitempty"`
}

// CardListResponse структура ответа со списком карт
type CardListResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    []models.InventoryCard `json:"data"`
	Total   int                    `json:"total"`
}

// CreateCard создает новую карту в инвентаре
func (cc *CardController) CreateCard(c *fiber.Ctx) error {
	var req CreateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Неверный формат данных: " + err.Error(),
		})
	}

	// Единственное обязательное поле - название
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Название карты обязательно",
		})
	}

	// Значения по умолчанию для незаполненных полей
	quantity := 1
	if req.Quantity != nil {
		quantity = req.Quantity.Int()
	}
	if quantity < 0 {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Количество не может быть отрицательным",
		})
	}

	buyPrice := 0.0
	if req.BuyPriceEur != nil {
		buyPrice = req.BuyPriceEur.Float64()
	}
	if buyPrice < 0 {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Цена покупки не может быть отрицательной",
		})
	}

	variant := strings.TrimSpace(req.Variant)
	if variant == "" {
		variant = models.DefaultVariant
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = models.DefaultLanguage
	}
	condition := strings.TrimSpace(req.Condition)
	if condition == "" {
		condition = models.DefaultCondition
	}

	card := models.InventoryCard{
		Name:         name,
		SetName:      strings.TrimSpace(req.SetName),
		CardNumber:   strings.TrimSpace(req.CardNumber),
		Variant:      variant,
		Language:     language,
		Condition:    condition,
		Graded:       req.Graded,
		GradeCompany: strings.TrimSpace(req.GradeCompany),
		GradeValue:   strings.TrimSpace(req.GradeValue),
		Quantity:     quantity,
		BuyPriceEur:  buyPrice,
		BuyDate:      req.BuyDate,
		Location:     strings.TrimSpace(req.Location),
		Tags:         strings.TrimSpace(req.Tags),
		Notes:        strings.TrimSpace(req.Notes),
		ImageURL:     strings.TrimSpace(req.ImageURL),
	}

	if req.CurrentValueEur != nil {
		value := req.CurrentValueEur.Float64()
		card.CurrentValueEur = &value
	}
	if req.TargetValueEur != nil {
		value := req.TargetValueEur.Float64()
		card.TargetValueEur = &value
	}

	if err := cc.DB.Create(&card).Error; err != nil {
		return c.Status(500).JSON(CardResponse{
			Success: false,
			Message: "Ошибка при создании карты",
		})
	}

	cc.Hub.NotifyTableChanged(models.TableCards)

	return c.Status(201).JSON(CardResponse{
		Success: true,
		Message: "Карта добавлена в инвентарь",
		Data:    &card,
	})
}

// GetCards возвращает снапшот инвентаря с необязательным текстовым фильтром
func (cc *CardController) GetCards(c *fiber.Ctx) error {
	if !cc.ReadModel.Loaded() {
		if err := cc.ReadModel.Refresh(); err != nil {
			return c.Status(500).JSON(CardListResponse{
				Success: false,
				Message: "Ошибка при загрузке инвентаря",
			})
		}
	}

	cards := cc.ReadModel.Snapshot()

	// Фильтр по названию, сету, номеру и тегам
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if query != "" {
		filtered := make([]models.InventoryCard, 0, len(cards))
		for _, card := range cards {
			haystack := strings.ToLower(strings.Join([]string{
				card.Name, card.SetName, card.CardNumber, card.Tags,
			}, " "))
			if strings.Contains(haystack, query) {
				filtered = append(filtered, card)
			}
		}
		cards = filtered
	}

	return c.JSON(CardListResponse{
		Success: true,
		Message: "Инвентарь получен",
		Data:    cards,
		Total:   len(cards),
	})
}

// GetCard возвращает карту по ID
func (cc *CardController) GetCard(c *fiber.Ctx) error {
	cardID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Неверный ID карты",
		})
	}

	var card models.InventoryCard
	if err := cc.DB.First(&card, uint(cardID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(CardResponse{
				Success: false,
				Message: "Карта не найдена",
			})
		}
		return c.Status(500).JSON(CardResponse{
			Success: false,
			Message: "Ошибка при получении карты",
		})
	}

	return c.JSON(CardResponse{
		Success: true,
		Message: "Карта получена",
		Data:    &card,
	})
}

// UpdateCard частично обновляет поля карты
func (cc *CardController) UpdateCard(c *fiber.Ctx) error {
	cardID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Неверный ID карты",
		})
	}

	var card models.InventoryCard
	if err := cc.DB.First(&card, uint(cardID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(CardResponse{
				Success: false,
				Message: "Карта не найдена",
			})
		}
		return c.Status(500).JSON(CardResponse{
			Success: false,
			Message: "Ошибка при получении карты",
		})
	}

	var req UpdateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Неверный формат данных: " + err.Error(),
		})
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.Status(400).JSON(CardResponse{
				Success: false,
				Message: "Название карты обязательно",
			})
		}
		card.Name = name
	}
	if req.SetName != nil {
		card.SetName = strings.TrimSpace(*req.SetName)
	}
	if req.CardNumber != nil {
		card.CardNumber = strings.TrimSpace(*req.CardNumber)
	}
	if req.Variant != nil {
		card.Variant = strings.TrimSpace(*req.Variant)
	}
	if req.Language != nil {
		card.Language = strings.TrimSpace(*req.Language)
	}
	if req.Condition != nil {
		card.Condition = strings.TrimSpace(*req.Condition)
	}
	if req.Graded != nil {
		card.Graded = *req.Graded
	}
	if req.GradeCompany != nil {
		card.GradeCompany = strings.TrimSpace(*req.GradeCompany)
	}
	if req.GradeValue != nil {
		card.GradeValue = strings.TrimSpace(*req.GradeValue)
	}
	if req.Quantity != nil {
		quantity := req.Quantity.Int()
		if quantity < 0 {
			return c.Status(400).JSON(CardResponse{
				Success: false,
				Message: "Количество не может быть отрицательным",
			})
		}
		card.Quantity = quantity
	}
	if req.BuyPriceEur != nil {
		price := req.BuyPriceEur.Float64()
		if price < 0 {
			return c.Status(400).JSON(CardResponse{
				Success: false,
				Message: "Цена покупки не может быть отрицательной",
			})
		}
		card.BuyPriceEur = price
	}
	if req.BuyDate != nil {
		card.BuyDate = req.BuyDate
	}
	if req.CurrentValueEur != nil {
		value := req.CurrentValueEur.Float64()
		card.CurrentValueEur = &value
	}
	if req.TargetValueEur != nil {
		value := req.TargetValueEur.Float64()
		card.TargetValueEur = &value
	}
	if req.Location != nil {
		card.Location = strings.TrimSpace(*req.Location)
	}
	if req.Tags != nil {
		card.Tags = strings.TrimSpace(*req.Tags)
	}
	if req.Notes != nil {
		card.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.ImageURL != nil {
		card.ImageURL = strings.TrimSpace(*req.ImageURL)
	}

	if err := cc.DB.Save(&card).Error; err != nil {
		return c.Status(500).JSON(CardResponse{
			Success: false,
			Message: "Ошибка при обновлении карты",
		})
	}

	cc.Hub.NotifyTableChanged(models.TableCards)

	return c.JSON(CardResponse{
		Success: true,
		Message: "Карта обновлена",
		Data:    &card,
	})
}

// DeleteCard удаляет карту из инвентаря. Записи о продажах, ссылающиеся
// на карту, не трогаются: имя сохранено в card_name_snapshot.
func (cc *CardController) DeleteCard(c *fiber.Ctx) error {
	cardID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CardResponse{
			Success: false,
			Message: "Неверный ID карты",
		})
	}

	var card models.InventoryCard
	if err := cc.DB.First(&card, uint(cardID)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(CardResponse{
				Success: false,
				Message: "Карта не найдена",
			})
		}
		return c.Status(500).JSON(CardResponse{
			Success: false,
			Message: "Ошибка при получении карты",
		})
	}

	if err := cc.DB.Delete(&card).Error; err != nil {
		return c.Status(500).JSON(CardResponse{
			Success: false,
			Message: "Ошибка при удалении карты",
		})
	}

	cc.Hub.NotifyTableChanged(models.TableCards)

	return c.JSON(CardResponse{
		Success: true,
		Message: "Карта удалена",
	})
}
