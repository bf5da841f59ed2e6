package service

import (
	"context"
	"errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/kahvecikaan/shopping-list/internal/repository"
)

type ItemService interface {
	GetItems(ctx context.Context) (domain.Items, error)
	GetItemByID(ctx context.Context, id int) (*domain.Item, error)
	AddItem(ctx context.Context, description string) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int, item *domain.Item) error
	DeleteItem(ctx context.Context, id int) error
}

type itemService struct {
	repo      repository.ItemRepository
	validator *domain.Validation
	logger    hclog.Logger
}

func NewItemService(
	repo repository.ItemRepository,
	validator *domain.Validation,
	logger hclog.Logger) ItemService {
	return &itemService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// GetItems returns every item in id order
func (s *itemService) GetItems(ctx context.Context) (domain.Items, error) {
	s.logger.Debug("Getting all items")

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to get items", "error", err)
		return nil, err
	}

	return items, nil
}

func (s *itemService) GetItemByID(ctx context.Context, id int) (*domain.Item, error) {
	s.logger.Debug("Getting item by ID", "id", id)

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Unable to get the item by ID", "id", id, "error", err)
		return nil, err
	}

	return item, nil
}

// AddItem stores a new item. Only the description is taken from the caller;
// the id comes from the store and the item always starts not done.
func (s *itemService) AddItem(ctx context.Context, description string) (*domain.Item, error) {
	s.logger.Debug("Adding new item", "description", description)

	item := domain.NewItem(description)
	if errs := s.validator.Validate(item); len(errs) > 0 {
		s.logger.Debug("Rejected new item", "errors", errs.Errors())
		return nil, errs
	}

	if err := s.repo.Add(ctx, item); err != nil {
		s.logger.Error("Unable to add item", "description", description, "error", err)
		return nil, err
	}

	return item, nil
}

// UpdateItem replaces the stored record with item. A write that touches no
// row is re-checked: a missing row is reported as not found, anything else
// stays a concurrency conflict.
func (s *itemService) UpdateItem(ctx context.Context, id int, item *domain.Item) error {
	s.logger.Debug("Updating item", "id", id)

	if item.ID != id {
		s.logger.Debug("Rejected update", "path_id", id, "body_id", item.ID)
		return domain.ErrIDMismatch
	}
	if errs := s.validator.Validate(item); len(errs) > 0 {
		s.logger.Debug("Rejected update", "id", id, "errors", errs.Errors())
		return errs
	}

	err := s.repo.Update(ctx, item)
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrConcurrencyConflict) {
		exists, existsErr := s.repo.Exists(ctx, id)
		if existsErr != nil {
			s.logger.Error("Unable to check item after conflict", "id", id, "error", existsErr)
			return existsErr
		}
		if !exists {
			return domain.ErrItemNotFound
		}
	}

	s.logger.Error("Unable to update item", "id", id, "error", err)
	return err
}

func (s *itemService) DeleteItem(ctx context.Context, id int) error {
	s.logger.Debug("Deleting item", "id", id)

	err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Unable to delete item", "id", id, "error", err)
		return err
	}

	return nil
}
