package services

import (
	"cardbinder-backend/models"
)

// DashboardStats представляет агрегаты для дашборда
type DashboardStats struct {
	TotalQuantity     int     `json:"total_quantity"`
	TotalCostEur      float64 `json:"total_cost_eur"`
	TotalCurrentEur   float64 `json:"total_current_value_eur"`
	TotalRevenueEur   float64 `json:"total_revenue_eur"`
	TotalFeesEur      float64 `json:"total_fees_eur"`
	ActiveWatchCount  int     `json:"active_watch_count"`
	InventoryCount    int     `json:"inventory_count"`
	SalesCount        int     `json:"sales_count"`
	WatchlistCount    int     `json:"watchlist_count"`
}

// ComputeDashboardStats вычисляет агрегаты по трем снапшотам.
// Функция чистая: не обращается к базе и не мутирует входные срезы.
// Карты без текущей оценки участвуют в количестве, но дают 0 в сумме стоимости.
func ComputeDashboardStats(cards []models.InventoryCard, sales []models.Sale, watch []models.WatchItem) DashboardStats {
	stats := DashboardStats{
		InventoryCount: len(cards),
		SalesCount:     len(sales),
		WatchlistCount: len(watch),
	}

	for _, card := range cards {
		stats.TotalQuantity += card.Quantity
		stats.TotalCostEur += card.BuyPriceEur * float64(card.Quantity)
		if card.CurrentValueEur != nil {
			stats.TotalCurrentEur += *card.CurrentValueEur * float64(card.Quantity)
		}
	}

	for _, sale := range sales {
		stats.TotalRevenueEur += sale.SoldPriceEur + sale.ShippingEur
		stats.TotalFeesEur += sale.FeesEur
	}

	for _, item := range watch {
		if item.Status == models.WatchStatusActive {
			stats.ActiveWatchCount++
		}
	}

	return stats
}
