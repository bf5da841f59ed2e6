package repository

import (
	"context"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"sync"
)

// ItemRepository is the data-access layer for shopping-list items.
//
// Update replaces the whole stored record and reports
// domain.ErrConcurrencyConflict when the write touched no row, leaving it to
// the caller to decide whether the row is gone or was changed underneath.
type ItemRepository interface {
	GetAll(ctx context.Context) (domain.Items, error)
	GetByID(ctx context.Context, id int) (*domain.Item, error)
	Add(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)
}

type memoryItemRepository struct {
	items  domain.Items
	nextID int
	mutex  sync.RWMutex
}

// NewMemoryItemRepository returns an empty repository that lives in process
// memory. Ids are never reused, even after deletes.
func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{
		items:  domain.Items{},
		nextID: 1,
	}
}

func (r *memoryItemRepository) GetAll(ctx context.Context) (domain.Items, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	items := make(domain.Items, 0, len(r.items))
	for _, item := range r.items {
		c := *item
		items = append(items, &c)
	}
	return items, nil
}

func (r *memoryItemRepository) GetByID(ctx context.Context, id int) (*domain.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		c := *r.items[i]
		return &c, nil
	}

	return nil, domain.ErrItemNotFound
}

func (r *memoryItemRepository) Add(ctx context.Context, item *domain.Item) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	item.ID = r.nextID
	r.nextID++

	c := *item
	r.items = append(r.items, &c)
	return nil
}

func (r *memoryItemRepository) Update(ctx context.Context, item *domain.Item) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.indexOf(item.ID)
	if i < 0 {
		return domain.ErrConcurrencyConflict
	}

	c := *item
	r.items[i] = &c
	return nil
}

func (r *memoryItemRepository) Delete(ctx context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrItemNotFound
	}

	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *memoryItemRepository) Exists(ctx context.Context, id int) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.indexOf(id) >= 0, nil
}

// indexOf expects the caller to hold the mutex
func (r *memoryItemRepository) indexOf(id int) int {
	for i, item := range r.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
