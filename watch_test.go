package main

import (
	"testing"

	"cardbinder-backend/controllers"
	"cardbinder-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestWatchController_CreateWatchItem(t *testing.T) {
	env := newTestEnv()

	t.Run("Успешное создание со статусом по умолчанию", func(t *testing.T) {
		req := jsonRequest("POST", "/watchlist", map[string]interface{}{
			"title":            "Charizard Base Set NM",
			"source":           "eBay",
			"seen_price_eur":   "25.00",
			"target_price_eur": 18.0,
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		var body controllers.WatchItemResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.True(t, body.Success)
		assert.Equal(t, models.WatchStatusActive, body.Data.Status)
		assert.NotNil(t, body.Data.SeenPriceEur)
		assert.Equal(t, 25.0, *body.Data.SeenPriceEur)
		assert.NotNil(t, body.Data.TargetPriceEur)
		assert.Equal(t, 18.0, *body.Data.TargetPriceEur)
	})

	t.Run("Пустой заголовок отклоняется", func(t *testing.T) {
		req := jsonRequest("POST", "/watchlist", map[string]interface{}{
			"title": "  ",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Недопустимый статус отклоняется", func(t *testing.T) {
		req := jsonRequest("POST", "/watchlist", map[string]interface{}{
			"title":  "Blastoise",
			"status": "maybe",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestWatchController_SetWatchStatus(t *testing.T) {
	env := newTestEnv()

	item := models.WatchItem{Title: "Charizard", Status: models.WatchStatusActive}
	env.db.Create(&item)

	t.Run("Переход active -> bought", func(t *testing.T) {
		req := jsonRequest("PUT", "/watchlist/1/status", map[string]interface{}{
			"status": models.WatchStatusBought,
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var updated models.WatchItem
		assert.NoError(t, env.db.First(&updated, item.ID).Error)
		assert.Equal(t, models.WatchStatusBought, updated.Status)
	})

	t.Run("Повторная установка того же статуса идемпотентна", func(t *testing.T) {
		req := jsonRequest("PUT", "/watchlist/1/status", map[string]interface{}{
			"status": models.WatchStatusBought,
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var updated models.WatchItem
		assert.NoError(t, env.db.First(&updated, item.ID).Error)
		assert.Equal(t, models.WatchStatusBought, updated.Status)
	})

	t.Run("Любой статус может сменить любой другой", func(t *testing.T) {
		// Машины состояний нет: bought -> active допустим
		req := jsonRequest("PUT", "/watchlist/1/status", map[string]interface{}{
			"status": models.WatchStatusActive,
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var updated models.WatchItem
		assert.NoError(t, env.db.First(&updated, item.ID).Error)
		assert.Equal(t, models.WatchStatusActive, updated.Status)
	})

	t.Run("Недопустимый статус отклоняется", func(t *testing.T) {
		req := jsonRequest("PUT", "/watchlist/1/status", map[string]interface{}{
			"status": "sold",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestWatchController_GetWatchlist(t *testing.T) {
	env := newTestEnv()

	env.db.Create(&models.WatchItem{Title: "Charizard Base Set", Source: "eBay", Status: models.WatchStatusActive})
	env.db.Create(&models.WatchItem{Title: "Mewtwo Promo", Source: "Cardmarket", Status: models.WatchStatusClosed})

	assert.NoError(t, env.watchRM.Refresh())

	t.Run("Снапшот без фильтра", func(t *testing.T) {
		resp, err := env.app.Test(jsonRequest("GET", "/watchlist", nil))
		assert.NoError(t, err)

		var body controllers.WatchListResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.Equal(t, 2, body.Total)
	})

	t.Run("Фильтр по статусу", func(t *testing.T) {
		resp, err := env.app.Test(jsonRequest("GET", "/watchlist?q=closed", nil))
		assert.NoError(t, err)

		var body controllers.WatchListResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.Equal(t, 1, body.Total)
		assert.Equal(t, "Mewtwo Promo", body.Data[0].Title)
	})
}

func TestWatchController_DeleteWatchItem(t *testing.T) {
	env := newTestEnv()

	item := models.WatchItem{Title: "Charizard", Status: models.WatchStatusActive}
	env.db.Create(&item)

	resp, err := env.app.Test(jsonRequest("DELETE", "/watchlist/1", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var count int64
	env.db.Model(&models.WatchItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
