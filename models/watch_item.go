package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы элемента watchlist. В базе хранится открытая строка,
// но на границе API принимаются только эти значения.
const (
	WatchStatusActive = "active"
	WatchStatusBought = "bought"
	WatchStatusClosed = "closed"
)

// WatchItem представляет объявление под наблюдением
type WatchItem struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Title          string    `json:"title" gorm:"not null;size:255"`
	Link           string    `json:"link" gorm:"default:''"`
	Source         string    `json:"source" gorm:"default:''"`
	SeenPriceEur   *float64  `json:"seen_price_eur"`
	TargetPriceEur *float64  `json:"target_price_eur"`
	Status         string    `json:"status" gorm:"default:'active'"`
	Notes          string    `json:"notes" gorm:"type:text;default:''"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName задает имя таблицы для GORM
func (WatchItem) TableName() string {
	return TableWatchlist
}

// IsValidWatchStatus проверяет, что статус входит в допустимый набор
func IsValidWatchStatus(status string) bool {
	switch status {
	case WatchStatusActive, WatchStatusBought, WatchStatusClosed:
		return true
	}
	return false
}

// BeforeCreate хук для установки времени создания
func (w *WatchItem) BeforeCreate(tx *gorm.DB) error {
	w.CreatedAt = time.Now()
	w.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (w *WatchItem) BeforeUpdate(tx *gorm.DB) error {
	w.UpdatedAt = time.Now()
	return nil
}
