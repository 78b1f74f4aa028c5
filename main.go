package main

import (
	"log"
	"os"
	"time"

	"cardbinder-backend/controllers"
	"cardbinder-backend/models"
	"cardbinder-backend/routes"
	"cardbinder-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Загружаем .env, если он есть (в продакшене переменные приходят из окружения)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Инициализация базы данных
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Автомиграция
	db.AutoMigrate(&models.InventoryCard{}, &models.Sale{}, &models.WatchItem{})

	// Создание Fiber приложения
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS настройки
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Инициализация хаба уведомлений об изменениях
	hub := services.NewHub()
	go hub.Run()

	// Инициализация read-моделей: первичная загрузка + подписка на хаб
	cardReadModel := services.NewReadModel(db, models.TableCards, services.LoadCards)
	saleReadModel := services.NewReadModel(db, models.TableSales, services.LoadSales)
	watchReadModel := services.NewReadModel(db, models.TableWatchlist, services.LoadWatchlist)
	cardReadModel.Start(hub)
	saleReadModel.Start(hub)
	watchReadModel.Start(hub)
	defer cardReadModel.Close()
	defer saleReadModel.Close()
	defer watchReadModel.Close()

	// Инициализация контроллеров
	cardController := controllers.NewCardController(db, hub, cardReadModel)
	saleController := controllers.NewSaleController(db, hub, saleReadModel)
	watchController := controllers.NewWatchController(db, hub, watchReadModel)
	dashboardController := controllers.NewDashboardController(cardReadModel, saleReadModel, watchReadModel)

	// Настройка маршрутов
	routes.SetupCardRoutes(app, cardController)
	routes.SetupSaleRoutes(app, saleController)
	routes.SetupWatchRoutes(app, watchController)
	routes.SetupDashboardRoutes(app, dashboardController)

	// WebSocket маршрут для live-синхронизации клиентов
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.HandleWebSocket(c)
	}))

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Card Binder Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
