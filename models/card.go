package models

import (
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Имена таблиц, используемые в уведомлениях об изменениях
const (
	TableCards     = "inventory_cards"
	TableSales     = "sales"
	TableWatchlist = "watchlist"
)

// Значения по умолчанию для новой карты
const (
	DefaultVariant   = "normal"
	DefaultLanguage  = "IT"
	DefaultCondition = "NM"
)

// InventoryCard представляет карту в инвентаре коллекционера
type InventoryCard struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"not null;size:255"`
	SetName    string `json:"set_name" gorm:"default:''"`
	CardNumber string `json:"card_number" gorm:"default:''"`
	Variant    string `json:"variant" gorm:"default:'normal'"`
	Language   string `json:"language" gorm:"default:'IT'"`
	Condition  string `json:"condition" gorm:"default:'NM'"`
	// Поля грейдинга
	Graded       bool   `json:"graded" gorm:"default:false"`
	GradeCompany string `json:"grade_company" gorm:"default:''"`
	GradeValue   string `json:"grade_value" gorm:"default:''"`
	// Количество уменьшается при продаже, но никогда не опускается ниже нуля
	Quantity        int        `json:"quantity" gorm:"default:1"`
	BuyPriceEur     float64    `json:"buy_price_eur" gorm:"default:0"`
	BuyDate         *time.Time `json:"buy_date"`
	CurrentValueEur *float64   `json:"current_value_eur"`
	TargetValueEur  *float64   `json:"target_value_eur"`
	Location        string     `json:"location" gorm:"default:''"`
	Tags            string     `json:"tags" gorm:"default:''"`
	Notes           string     `json:"notes" gorm:"type:text;default:''"`
	ImageURL        string     `json:"image_url" gorm:"default:''"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName задает имя таблицы для GORM
func (InventoryCard) TableName() string {
	return TableCards
}

// BeforeCreate хук для установки времени создания
func (i *InventoryCard) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (i *InventoryCard) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}

// InitDB инициализирует подключение к базе данных
func InitDB() (*gorm.DB, error) {
	// Проверяем переменную окружения для выбора базы данных
	databaseURL := os.Getenv("DATABASE_URL")

	if databaseURL != "" {
		// Используем PostgreSQL для продакшена
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	// Используем SQLite для разработки
	db, err := gorm.Open(sqlite.Open("cardbinder.db"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
