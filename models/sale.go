package models

import (
	"time"

	"gorm.io/gorm"
)

// Sale представляет запись о продаже. После создания запись не редактируется.
type Sale struct {
	ID uint `json:"id" gorm:"primaryKey"`
	// Необязательная ссылка на карту в инвентаре. Карта может быть удалена,
	// тогда ссылка остается висячей, а имя берется из снапшота.
	InventoryID      *uint     `json:"inventory_id"`
	CardNameSnapshot string    `json:"card_name_snapshot" gorm:"not null;size:255"`
	Quantity         int       `json:"quantity" gorm:"default:1"`
	Platform         string    `json:"platform" gorm:"default:''"`
	SoldPriceEur     float64   `json:"sold_price_eur" gorm:"default:0"`
	ShippingEur      float64   `json:"shipping_eur" gorm:"default:0"`
	FeesEur          float64   `json:"fees_eur" gorm:"default:0"`
	Notes            string    `json:"notes" gorm:"type:text;default:''"`
	SoldAt           time.Time `json:"sold_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName задает имя таблицы для GORM
func (Sale) TableName() string {
	return TableSales
}

// BeforeCreate хук для установки времени создания и времени продажи
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	s.CreatedAt = time.Now()
	if s.SoldAt.IsZero() {
		s.SoldAt = time.Now()
	}
	return nil
}
