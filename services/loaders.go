package services

import (
	"cardbinder-backend/models"

	"gorm.io/gorm"
)

// Загрузчики снапшотов. Каждый выполняет полную выборку своей таблицы
// в детерминированном порядке, чтобы снапшот не зависел от плана запроса.

// LoadCards загружает инвентарь, недавно измененные карты сверху
func LoadCards(db *gorm.DB) ([]models.InventoryCard, error) {
	var cards []models.InventoryCard
	err := db.Order("updated_at DESC, id DESC").Find(&cards).Error
	return cards, err
}

// LoadSales загружает историю продаж, свежие продажи сверху
func LoadSales(db *gorm.DB) ([]models.Sale, error) {
	var sales []models.Sale
	err := db.Order("sold_at DESC, id DESC").Find(&sales).Error
	return sales, err
}

// LoadWatchlist загружает watchlist, недавно измененные элементы сверху
func LoadWatchlist(db *gorm.DB) ([]models.WatchItem, error) {
	var items []models.WatchItem
	err := db.Order("updated_at DESC, id DESC").Find(&items).Error
	return items, err
}
