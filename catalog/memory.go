package catalog

import (
	"context"
	"sync"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

type Memory struct {
	mu        sync.RWMutex
	foods     map[int]models.MenuItem
	beverages map[int]models.MenuItem
}

func NewMemory(items ...models.MenuItem) *Memory {
	m := &Memory{
		foods:     make(map[int]models.MenuItem),
		beverages: make(map[int]models.MenuItem),
	}
	for _, item := range items {
		m.Put(item)
	}
	return m
}

// Put adds or replaces an item, keyed by its type and id.
func (m *Memory) Put(item models.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.Type == models.MenuItemBeverage {
		m.beverages[item.ID] = item
		return
	}
	m.foods[item.ID] = item
}

func (m *Memory) FindFoodItem(_ context.Context, id int) (*models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.foods[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *Memory) FindBeverageItem(_ context.Context, id int) (*models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.beverages[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}
