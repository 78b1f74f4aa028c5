package main

import (
	"testing"

	"cardbinder-backend/controllers"
	"cardbinder-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCardController_CreateCard(t *testing.T) {
	env := newTestEnv()

	t.Run("Успешное создание со значениями по умолчанию", func(t *testing.T) {
		req := jsonRequest("POST", "/cards", map[string]interface{}{
			"name": "Charizard",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		var body controllers.CardResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.True(t, body.Success)
		assert.Equal(t, "Charizard", body.Data.Name)
		assert.Equal(t, models.DefaultVariant, body.Data.Variant)
		assert.Equal(t, models.DefaultLanguage, body.Data.Language)
		assert.Equal(t, models.DefaultCondition, body.Data.Condition)
		assert.Equal(t, 1, body.Data.Quantity)
		assert.Equal(t, 0.0, body.Data.BuyPriceEur)
		assert.Nil(t, body.Data.CurrentValueEur)

		// Проверяем, что карта создана в базе
		var card models.InventoryCard
		assert.NoError(t, env.db.Where("name = ?", "Charizard").First(&card).Error)
	})

	t.Run("Пустое название отклоняется без записи в базу", func(t *testing.T) {
		var before int64
		env.db.Model(&models.InventoryCard{}).Count(&before)

		req := jsonRequest("POST", "/cards", map[string]interface{}{
			"name": "   ",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		var after int64
		env.db.Model(&models.InventoryCard{}).Count(&after)
		assert.Equal(t, before, after)
	})

	t.Run("Числовые поля принимаются строками", func(t *testing.T) {
		req := jsonRequest("POST", "/cards", map[string]interface{}{
			"name":          "Blastoise",
			"quantity":      "3",
			"buy_price_eur": "12.50",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		var body controllers.CardResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.Equal(t, 3, body.Data.Quantity)
		assert.Equal(t, 12.50, body.Data.BuyPriceEur)
	})

	t.Run("Нечисловая строка отклоняется", func(t *testing.T) {
		req := jsonRequest("POST", "/cards", map[string]interface{}{
			"name":     "Venusaur",
			"quantity": "abc",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Отрицательное количество отклоняется", func(t *testing.T) {
		req := jsonRequest("POST", "/cards", map[string]interface{}{
			"name":     "Pikachu",
			"quantity": -2,
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestCardController_GetCards(t *testing.T) {
	env := newTestEnv()

	card := createTestCard(env.db, "Charizard Base Set", 1, 100)
	card.Tags = "vintage, zard"
	env.db.Save(card)
	createTestCard(env.db, "Mewtwo", 2, 20)

	assert.NoError(t, env.cardRM.Refresh())

	t.Run("Снапшот без фильтра", func(t *testing.T) {
		resp, err := env.app.Test(jsonRequest("GET", "/cards", nil))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body controllers.CardListResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.Equal(t, 2, body.Total)
	})

	t.Run("Фильтр по тегу", func(t *testing.T) {
		resp, err := env.app.Test(jsonRequest("GET", "/cards?q=zard", nil))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body controllers.CardListResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.Equal(t, 1, body.Total)
		assert.Equal(t, "Charizard Base Set", body.Data[0].Name)
	})

	t.Run("Фильтр без совпадений", func(t *testing.T) {
		resp, err := env.app.Test(jsonRequest("GET", "/cards?q=nessuno", nil))
		assert.NoError(t, err)

		var body controllers.CardListResponse
		assert.NoError(t, decodeBody(resp, &body))
		assert.Equal(t, 0, body.Total)
	})
}

func TestCardController_UpdateCard(t *testing.T) {
	env := newTestEnv()
	card := createTestCard(env.db, "Charizard", 1, 100)

	t.Run("Обновление количества и текущей оценки", func(t *testing.T) {
		req := jsonRequest("PUT", "/cards/1", map[string]interface{}{
			"quantity":          4,
			"current_value_eur": 250.0,
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var updated models.InventoryCard
		assert.NoError(t, env.db.First(&updated, card.ID).Error)
		assert.Equal(t, 4, updated.Quantity)
		assert.NotNil(t, updated.CurrentValueEur)
		assert.Equal(t, 250.0, *updated.CurrentValueEur)
	})

	t.Run("Пустое название отклоняется", func(t *testing.T) {
		req := jsonRequest("PUT", "/cards/1", map[string]interface{}{
			"name": "  ",
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Несуществующая карта", func(t *testing.T) {
		req := jsonRequest("PUT", "/cards/999", map[string]interface{}{
			"quantity": 1,
		})

		resp, err := env.app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestCardController_DeleteCard(t *testing.T) {
	env := newTestEnv()

	t.Run("Удаление карты не трогает записи о продажах", func(t *testing.T) {
		card := createTestCard(env.db, "Charizard", 5, 100)

		sale := models.Sale{
			InventoryID:      &card.ID,
			CardNameSnapshot: card.Name,
			Quantity:         1,
			SoldPriceEur:     150,
		}
		env.db.Create(&sale)

		resp, err := env.app.Test(jsonRequest("DELETE", "/cards/1", nil))
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		// Карты больше нет
		var count int64
		env.db.Model(&models.InventoryCard{}).Count(&count)
		assert.Equal(t, int64(0), count)

		// Продажа осталась, снапшот имени читаем
		var kept models.Sale
		assert.NoError(t, env.db.First(&kept, sale.ID).Error)
		assert.Equal(t, "Charizard", kept.CardNameSnapshot)
		assert.NotNil(t, kept.InventoryID)
	})

	t.Run("Несуществующая карта", func(t *testing.T) {
		resp, err := env.app.Test(jsonRequest("DELETE", "/cards/999", nil))
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}
