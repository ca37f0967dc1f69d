package refdata

import (
	"context"
	"sync"
	"time"
)

// Cache держит один загруженный справочник с TTL. Обновление подменяет
// структуру целиком: читатели никогда не видят наполовину обновлённую схему.
type Cache struct {
	mu        sync.Mutex
	loader    *Loader
	ttl       time.Duration
	value     *Schema
	fetchedAt time.Time

	now func() time.Time // подменяется в тестах
}

func NewCache(loader *Loader, ttl time.Duration) *Cache {
	return &Cache{loader: loader, ttl: ttl, now: time.Now}
}

// Get возвращает закешированный справочник, перечитывая его по истечении TTL.
// Конкурентные вызовы во время загрузки ждут её завершения.
func (c *Cache) Get(ctx context.Context) (*Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh принудительно перечитывает справочник.
func (c *Cache) Refresh(ctx context.Context) (*Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Cache) refreshLocked(ctx context.Context) (*Schema, error) {
	s, err := c.loader.Load(ctx)
	if err != nil {
		// прошлая версия лучше, чем ничего — отдаём её, пока источник лежит
		if c.value != nil {
			return c.value, nil
		}
		return nil, err
	}
	c.value = s
	c.fetchedAt = c.now()
	return s, nil
}
