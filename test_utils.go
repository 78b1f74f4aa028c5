package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"cardbinder-backend/controllers"
	"cardbinder-backend/models"
	"cardbinder-backend/routes"
	"cardbinder-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv собирает приложение поверх тестовой базы. Read-модели создаются
// без фоновых горутин: тесты перезагружают снапшоты явно через Refresh,
// чтобы проверки оставались детерминированными.
type testEnv struct {
	db      *gorm.DB
	hub     *services.Hub
	app     *fiber.App
	cardRM  *services.ReadModel[models.InventoryCard]
	saleRM  *services.ReadModel[models.Sale]
	watchRM *services.ReadModel[models.WatchItem]
}

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.InventoryCard{}, &models.Sale{}, &models.WatchItem{})
	return db
}

// newTestEnv создает приложение с контроллерами и маршрутами
func newTestEnv() *testEnv {
	db := setupTestDB()
	hub := services.NewHub()

	cardRM := services.NewReadModel(db, models.TableCards, services.LoadCards)
	saleRM := services.NewReadModel(db, models.TableSales, services.LoadSales)
	watchRM := services.NewReadModel(db, models.TableWatchlist, services.LoadWatchlist)

	app := fiber.New()
	routes.SetupCardRoutes(app, controllers.NewCardController(db, hub, cardRM))
	routes.SetupSaleRoutes(app, controllers.NewSaleController(db, hub, saleRM))
	routes.SetupWatchRoutes(app, controllers.NewWatchController(db, hub, watchRM))
	routes.SetupDashboardRoutes(app, controllers.NewDashboardController(cardRM, saleRM, watchRM))

	return &testEnv{
		db:      db,
		hub:     hub,
		app:     app,
		cardRM:  cardRM,
		saleRM:  saleRM,
		watchRM: watchRM,
	}
}

// jsonRequest создает HTTP запрос с JSON телом
func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody разбирает JSON тело ответа в переданную структуру
func decodeBody(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// createTestCard создает карту напрямую в базе
func createTestCard(db *gorm.DB, name string, quantity int, buyPrice float64) *models.InventoryCard {
	card := &models.InventoryCard{
		Name:        name,
		Variant:     models.DefaultVariant,
		Language:    models.DefaultLanguage,
		Condition:   models.DefaultCondition,
		Quantity:    quantity,
		BuyPriceEur: buyPrice,
	}
	db.Create(card)
	return card
}
