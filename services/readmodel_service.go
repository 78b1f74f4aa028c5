package services

import (
	"log"
	"sync"

	"gorm.io/gorm"
)

// Loader выполняет полную выборку таблицы в заданном порядке
type Loader[T any] func(db *gorm.DB) ([]T, error)

// ReadModel хранит локальный снапшот одной таблицы и поддерживает его
// в согласованном состоянии с базой. Политика простая: любое уведомление
// об изменении таблицы приводит к полной перезагрузке снапшота.
// При размере таблиц в сотни строк это надежнее инкрементальных обновлений.
type ReadModel[T any] struct {
	db     *gorm.DB
	table  string
	loader Loader[T]

	mutex  sync.RWMutex
	rows   []T
	loaded bool
	closed bool

	// Канал емкостью 1: всплеск из N уведомлений схлопывается
	// в одну отложенную перезагрузку
	refreshCh   chan struct{}
	stopCh      chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

// NewReadModel создает read-модель для таблицы с заданным загрузчиком
func NewReadModel[T any](db *gorm.DB, table string, loader Loader[T]) *ReadModel[T] {
	return &ReadModel[T]{
		db:        db,
		table:     table,
		loader:    loader,
		refreshCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start выполняет первичную загрузку, подписывается на уведомления хаба
// и запускает фоновую горутину перезагрузки
func (rm *ReadModel[T]) Start(hub *Hub) {
	if err := rm.Refresh(); err != nil {
		log.Printf("Initial load of %s failed: %v", rm.table, err)
	}

	rm.unsubscribe = hub.Listen(rm.table, func(table string) {
		rm.scheduleRefresh()
	})

	go rm.run()
}

// Refresh выполняет полную выборку таблицы и заменяет снапшот целиком.
// При ошибке базы прежний снапшот сохраняется, ошибка возвращается наверх.
func (rm *ReadModel[T]) Refresh() error {
	rows, err := rm.loader(rm.db)
	if err != nil {
		return err
	}

	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	// Результат запроса, завершившегося после Close, отбрасываем
	if rm.closed {
		return nil
	}

	rm.rows = rows
	rm.loaded = true
	return nil
}

// Snapshot возвращает копию текущего снапшота. Вызывающая сторона
// может только читать строки, мутирует снапшот только Refresh.
func (rm *ReadModel[T]) Snapshot() []T {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()

	snapshot := make([]T, len(rm.rows))
	copy(snapshot, rm.rows)
	return snapshot
}

// Loaded сообщает, была ли хотя бы одна успешная загрузка
func (rm *ReadModel[T]) Loaded() bool {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()
	return rm.loaded
}

// Close отписывается от уведомлений и останавливает фоновую горутину
func (rm *ReadModel[T]) Close() {
	rm.closeOnce.Do(func() {
		rm.mutex.Lock()
		rm.closed = true
		rm.mutex.Unlock()

		if rm.unsubscribe != nil {
			rm.unsubscribe()
		}
		close(rm.stopCh)
	})
}

// scheduleRefresh ставит перезагрузку в очередь. Если перезагрузка уже
// запланирована, повторное уведомление не добавляет новую.
func (rm *ReadModel[T]) scheduleRefresh() {
	select {
	case rm.refreshCh <- struct{}{}:
	default:
	}
}

// run обрабатывает запланированные перезагрузки до остановки
func (rm *ReadModel[T]) run() {
	for {
		select {
		case <-rm.stopCh:
			return
		case <-rm.refreshCh:
			if err := rm.Refresh(); err != nil {
				// Снапшот остается прежним: доступность важнее свежести
				log.Printf("Refresh of %s failed, keeping stale snapshot: %v", rm.table, err)
			}
		}
	}
}
