package services

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// WSMessage представляет сообщение WebSocket
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// TableChangedPayload представляет payload уведомления об изменении таблицы.
// Уведомление не несет информации о том, какая строка и как изменилась.
type TableChangedPayload struct {
	Table     string    `json:"table"`
	ChangedAt time.Time `json:"changed_at"`
}

// Client представляет подключенного клиента
type Client struct {
	ID       uint
	Conn     *websocket.Conn
	Send     chan WSMessage
	Hub      *Hub
	LastPing time.Time
}

// Hub управляет всеми подключениями и внутренними подписчиками
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex

	// Внутренние подписчики на изменения таблиц (read-модели внутри процесса)
	listeners  map[string]map[int]func(table string)
	nextListen int
	listenMu   sync.Mutex
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		listeners:  make(map[string]map[int]func(table string)),
	}
}

// Run запускает хаб
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

			log.Printf("Client %d connected. Total clients: %d", client.ID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()

			log.Printf("Client %d disconnected. Total clients: %d", client.ID, len(h.clients))
		}
	}
}

// Listen регистрирует внутреннего подписчика на изменения таблицы.
// Возвращает функцию отписки, которую нужно вызвать при остановке подписчика.
func (h *Hub) Listen(table string, fn func(table string)) func() {
	h.listenMu.Lock()
	defer h.listenMu.Unlock()

	if h.listeners[table] == nil {
		h.listeners[table] = make(map[int]func(table string))
	}
	h.nextListen++
	id := h.nextListen
	h.listeners[table][id] = fn

	return func() {
		h.listenMu.Lock()
		defer h.listenMu.Unlock()
		delete(h.listeners[table], id)
	}
}

// NotifyTableChanged рассылает уведомление об изменении таблицы всем
// WebSocket клиентам и внутренним подписчикам. Вызывается после каждой
// успешной мутации.
func (h *Hub) NotifyTableChanged(table string) {
	message := WSMessage{
		Type: "table.changed",
		Payload: TableChangedPayload{
			Table:     table,
			ChangedAt: time.Now(),
		},
	}

	h.mutex.RLock()
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
	h.mutex.RUnlock()

	h.listenMu.Lock()
	fns := make([]func(table string), 0, len(h.listeners[table]))
	for _, fn := range h.listeners[table] {
		fns = append(fns, fn)
	}
	h.listenMu.Unlock()

	for _, fn := range fns {
		fn(table)
	}
}

// HandleWebSocket обрабатывает WebSocket соединение
func (h *Hub) HandleWebSocket(c *websocket.Conn) {
	// Создаем клиента. Аутентификации нет: приложение однопользовательское,
	// доступ ограничивается на уровне развертывания.
	client := &Client{
		ID:       uint(time.Now().UnixNano()),
		Conn:     c,
		Send:     make(chan WSMessage, 256),
		Hub:      h,
		LastPing: time.Now(),
	}

	// Регистрируем клиента
	h.register <- client

	// Запускаем горутину для записи, чтение держим в текущей горутине,
	// иначе fiber закроет соединение при выходе из обработчика
	go client.writePump()
	client.readPump()
}

// readPump читает сообщения из WebSocket
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		var message WSMessage
		err := c.Conn.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump записывает сообщения в WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage обрабатывает входящие сообщения
func (c *Client) handleMessage(message WSMessage) {
	switch message.Type {
	case "ping":
		c.handlePing(message)
	}
}

// handlePing обрабатывает ping сообщения
func (c *Client) handlePing(message WSMessage) {
	pongMessage := WSMessage{
		Type: "pong",
		Payload: map[string]interface{}{
			"timestamp": time.Now().Unix(),
		},
	}

	select {
	case c.Send <- pongMessage:
	default:
	}
}
